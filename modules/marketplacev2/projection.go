package marketplacev2

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"
	"github.com/maxion-tech/marketplace-indexer/pkg/decimals"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger"
	"github.com/maxion-tech/marketplace-indexer/pkg/logger/slogx"
	"github.com/shopspring/decimal"
)

func (p *Processor) processProjection(ctx context.Context, qtx datagateway.MarketplaceV2DataGatewayWithTx, event Event) error {
	switch e := event.(type) {
	case *SoldEvent:
		return p.processSold(ctx, qtx, e)
	case *FeeUpdatedEvent:
		return p.processFeeUpdated(ctx, qtx, e)
	case *MinimumTradePriceUpdatedEvent:
		return p.processMinimumTradePriceUpdated(ctx, qtx, e)
	case *PausedEvent:
		return p.processPauseState(ctx, qtx, true)
	case *UnpausedEvent:
		return p.processPauseState(ctx, qtx, false)
	case *RoleAdminChangedEvent, *RoleGrantedEvent, *RoleRevokedEvent:
		logger.DebugContext(ctx, "Ignoring access-control event", slogx.String("event", event.Name()))
		return nil
	}
	return errors.Wrapf(errs.Unsupported, "event %q has no projection handler", event.Name())
}

func getOrInitConfig(ctx context.Context, qtx datagateway.MarketplaceV2DataGatewayWithTx) (*entity.MarketplaceConfig, error) {
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

// processSold records the sale and folds it into every aggregation window.
// The percentage fee is taken from the event itself; the fixed fee comes from
// the configuration current at processing time.
func (p *Processor) processSold(ctx context.Context, qtx datagateway.MarketplaceV2DataGatewayWithTx, event *SoldEvent) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}

	var (
		price          = decimals.FromBaseUnits(event.Price)
		netAmount      = decimals.FromBaseUnits(event.NetAmount)
		totalFee       = price.Sub(netAmount)
		scaledFixedFee = decimals.FromBaseUnits(config.FixedFee)
	)

	transaction := &entity.Transaction{
		Id:                  event.Meta.Id(),
		Seller:              event.Seller,
		Buyer:               event.Buyer,
		NftTo:               event.NftTo,
		TokenId:             event.TokenId,
		Amount:              decimals.FromBaseUnits(event.Amount),
		Price:               price,
		NetAmount:           netAmount,
		TotalFee:            totalFee,
		PercentageFeeAmount: decimals.FromBaseUnits(event.PercentageFeeAmount),
		FixedFeeAmount:      scaledFixedFee,
		IsBuyLimit:          event.IsBuyLimit,
		BlockNumber:         event.Meta.BlockNumber,
		BlockTimestamp:      event.Meta.BlockTimestamp,
		TransactionHash:     event.Meta.TransactionHash,
		LogIndex:            event.Meta.LogIndex,
	}
	if err := qtx.CreateTransaction(ctx, transaction); err != nil {
		return errors.Wrap(err, "failed to create transaction record")
	}

	for _, window := range entity.BucketWindows {
		if err := p.foldIntoBucket(ctx, qtx, window, event, scaledFixedFee); err != nil {
			return errors.Wrapf(err, "failed to update %s bucket", window)
		}
	}
	return nil
}

// foldIntoBucket accumulates one sale into the bucket covering its block
// timestamp. TotalFee is re-derived from the running totals on every fold.
// The fixed portion is the configured fixed fee times the transaction count
// and the percentage portion is whatever remains of the total fee.
func (p *Processor) foldIntoBucket(
	ctx context.Context,
	qtx datagateway.MarketplaceV2DataGatewayWithTx,
	window entity.BucketWindow,
	event *SoldEvent,
	scaledFixedFee decimal.Decimal,
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
	bucket.TotalNetAmount = bucket.TotalNetAmount.Add(decimals.FromBaseUnits(event.NetAmount))
	bucket.TotalTransaction++
	bucket.TotalFee = bucket.TotalPrice.Sub(bucket.TotalNetAmount)
	bucket.TotalFixedFee = scaledFixedFee.Mul(decimal.NewFromInt(bucket.TotalTransaction))
	bucket.TotalPercentageFee = bucket.TotalFee.Sub(bucket.TotalFixedFee)

	if err := qtx.SaveBucket(ctx, window, bucket); err != nil {
		return errors.Wrap(err, "failed to save bucket")
	}
	return nil
}

func (p *Processor) processFeeUpdated(ctx context.Context, qtx datagateway.MarketplaceV2DataGatewayWithTx, event *FeeUpdatedEvent) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}
	config.PercentageFee = event.NewPercentageFee
	config.FixedFee = event.NewFixedFee
	return errors.Wrap(qtx.SaveConfig(ctx, config), "failed to save config")
}

func (p *Processor) processMinimumTradePriceUpdated(ctx context.Context, qtx datagateway.MarketplaceV2DataGatewayWithTx, event *MinimumTradePriceUpdatedEvent) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}
	config.MinimumTradePrice = event.NewMinimumTradePrice
	return errors.Wrap(qtx.SaveConfig(ctx, config), "failed to save config")
}

func (p *Processor) processPauseState(ctx context.Context, qtx datagateway.MarketplaceV2DataGatewayWithTx, paused bool) error {
	config, err := getOrInitConfig(ctx, qtx)
	if err != nil {
		return errors.WithStack(err)
	}
	config.Paused = paused
	return errors.Wrap(qtx.SaveConfig(ctx, config), "failed to save config")
}
