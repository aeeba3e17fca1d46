package marketplace

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
	"github.com/maxion-tech/marketplace-indexer/pkg/decimals"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger/slogx"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

func (p *Processor) processProjection(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, event Event) error {
	switch e := event.(type) {
	case *SoldEvent:
		return p.processSold(ctx, qtx, e)
	case *SetFeePercentEvent:
		return p.processSetFeePercent(ctx, qtx, e)
	case *SetTotalFeePercentEvent:
		return p.processSetTotalFeePercent(ctx, qtx, e)
	case *SetMinimumTradePriceEvent:
		return p.processSetMinimumTradePrice(ctx, qtx, e)
	case *PausedEvent:
		return p.processPauseState(ctx, qtx, true)
	case *UnpausedEvent:
		return p.processPauseState(ctx, qtx, false)
	case *RoleAdminChangedEvent, *RoleGrantedEvent, *RoleRevokedEvent:
		// access-control events carry no marketplace state
		logger.DebugContext(ctx, "Ignoring access-control event", slogx.String("event", event.Name()))
		return nil
	}
	return errors.Wrapf(errs.Unsupported, "event %q has no projection handler", event.Name())
}

// getOrInitConfig loads the config singleton, creating it with zero defaults
// on first use. Creation is idempotent since the singleton key is fixed.
func getOrInitConfig(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx) (*entity.MarketplaceConfig, error) {
	config, err := qtx.GetConfig(ctx)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return nil, errors.Wrap(err, "failed to get config")
		}
		config = entity.NewDefaultConfig()
		if err := qtx.SaveConfig(ctx, config); err != nil {
			return nil, errors.Wrap(err, "failed to init config")
		}
	}
	return config, nil
}

// platformFeePercentOf converts the raw scaled percentage into a share of one
// hundred, e.g. raw 60_0000_0000 becomes 60.
func platformFeePercentOf(config *entity.MarketplaceConfig) decimal.Decimal {
	return decimals.PercentFromRaw(config.PlatformFeePercent)
}

func partnerFeePercentOf(config *entity.MarketplaceConfig) decimal.Decimal {
	return decimals.PercentFromRaw(config.PartnerFeePercent)
}

// processSold records the sale and folds it into every aggregation window.
// The fee split between platform and partner uses the configuration current
// at processing time, not the configuration that was active when the sale
// happened on chain.
func (p *Processor) processSold(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, event *SoldEvent) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}

	var (
		price         = decimals.FromBaseUnits(event.Price)
		priceAfterFee = decimals.FromBaseUnits(event.PriceAfterFee)
		totalFee      = price.Sub(priceAfterFee)
		platformPct   = platformFeePercentOf(config)
		partnerPct    = partnerFeePercentOf(config)
	)

	transaction := &entity.Transaction{
		Id:                event.Meta.Id(),
		Seller:            event.Seller,
		Buyer:             event.Buyer,
		TokenId:           event.TokenId,
		Amount:            decimals.FromBaseUnits(event.Amount),
		Price:             price,
		PriceAfterFee:     priceAfterFee,
		TotalFee:          totalFee,
		PlatformFeeAmount: totalFee.Mul(platformPct).Div(oneHundred),
		PartnerFeeAmount:  totalFee.Mul(partnerPct).Div(oneHundred),
		IsBuyLimit:        event.IsBuyLimit,
		BlockNumber:       event.Meta.BlockNumber,
		BlockTimestamp:    event.Meta.BlockTimestamp,
		TransactionHash:   event.Meta.TransactionHash,
		LogIndex:          event.Meta.LogIndex,
	}
	if err := qtx.CreateTransaction(ctx, transaction); err != nil {
		return errors.Wrap(err, "failed to create transaction record")
	}

	for _, window := range entity.BucketWindows {
		if err := p.foldIntoBucket(ctx, qtx, window, event, platformPct, partnerPct); err != nil {
			return errors.Wrapf(err, "failed to update %s bucket", window)
		}
	}
	return nil
}

// foldIntoBucket accumulates one sale into the bucket covering its block
// timestamp. Monetary totals are accumulated from price and priceAfterFee
// only; the fee totals are re-derived on every fold so the identity
// totalFee == totalPrice - totalPriceAfterFee holds regardless of event count.
func (p *Processor) foldIntoBucket(
	ctx context.Context,
	qtx datagateway.MarketplaceDataGatewayWithTx,
	window entity.BucketWindow,
	event *SoldEvent,
	platformPct, partnerPct decimal.Decimal,
) error {
	startUnixTime := window.Floor(event.Meta.BlockTimestamp.Unix())
	bucket, err := qtx.GetBucket(ctx, window, startUnixTime)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to get bucket")
		}
		bucket = entity.NewTransactionBucket(startUnixTime)
	}

	bucket.TotalAmount = new(big.Int).Add(bucket.TotalAmount, event.Amount)
	bucket.TotalPrice = bucket.TotalPrice.Add(decimals.FromBaseUnits(event.Price))
	bucket.TotalPriceAfterFee = bucket.TotalPriceAfterFee.Add(decimals.FromBaseUnits(event.PriceAfterFee))
	bucket.TotalTransaction++
	bucket.TotalFee = bucket.TotalPrice.Sub(bucket.TotalPriceAfterFee)
	bucket.TotalPlatformFee = bucket.TotalFee.Mul(platformPct).Div(oneHundred)
	bucket.TotalPartnerFee = bucket.TotalFee.Mul(partnerPct).Div(oneHundred)

	if err := qtx.SaveBucket(ctx, window, bucket); err != nil {
		return errors.Wrap(err, "failed to save bucket")
	}
	return nil
}

func (p *Processor) processSetFeePercent(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, event *SetFeePercentEvent) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}
	config.PlatformFeePercent = event.NewPlatformFeePercent
	config.PartnerFeePercent = event.NewPartnerFeePercent
	return errors.Wrap(qtx.SaveConfig(ctx, config), "failed to save config")
}

func (p *Processor) processSetTotalFeePercent(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, event *SetTotalFeePercentEvent) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}
	config.TotalFeePercent = event.NewTotalFeePercent
	return errors.Wrap(qtx.SaveConfig(ctx, config), "failed to save config")
}

func (p *Processor) processSetMinimumTradePrice(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, event *SetMinimumTradePriceEvent) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}
	config.MinimumTradePrice = event.NewMinimumTradePrice
	return errors.Wrap(qtx.SaveConfig(ctx, config), "failed to save config")
}

func (p *Processor) processPauseState(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, paused bool) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}
	config.Paused = paused
	return errors.Wrap(qtx.SaveConfig(ctx, config), "failed to save config")
}
