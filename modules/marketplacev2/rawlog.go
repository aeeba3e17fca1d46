package marketplacev2

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"
)

// processRawLog appends one immutable record per decoded event.
func (p *Processor) processRawLog(ctx context.Context, qtx datagateway.MarketplaceV2DataGatewayWithTx, event Event) error {
	params, err := rawEventParams(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode event params")
	}
	meta := event.Envelope()
	return errors.Wrap(qtx.CreateRawEvent(ctx, &entity.RawEvent{
		Id:              meta.Id(),
		Name:            event.Name(),
		Params:          params,
		BlockNumber:     meta.BlockNumber,
		BlockTimestamp:  meta.BlockTimestamp,
		TransactionHash: meta.TransactionHash,
		LogIndex:        meta.LogIndex,
	}), "failed to create raw event record")
}

func bigIntString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func rawEventParams(event Event) (json.RawMessage, error) {
	var params map[string]any
	switch e := event.(type) {
	case *SoldEvent:
		params = map[string]any{
			"seller":              e.Seller.Hex(),
			"buyer":               e.Buyer.Hex(),
			"nftTo":               e.NftTo.Hex(),
			"tokenId":             bigIntString(e.TokenId),
			"amount":              bigIntString(e.Amount),
			"price":               bigIntString(e.Price),
			"netAmount":           bigIntString(e.NetAmount),
			"percentageFeeAmount": bigIntString(e.PercentageFeeAmount),
			"fixedFeeAmount":      bigIntString(e.FixedFeeAmount),
			"isBuyLimit":          e.IsBuyLimit,
		}
	case *FeeUpdatedEvent:
		params = map[string]any{
			"newPercentageFee": bigIntString(e.NewPercentageFee),
			"newFixedFee":      bigIntString(e.NewFixedFee),
		}
	case *MinimumTradePriceUpdatedEvent:
		params = map[string]any{
			"newMinimumTradePrice": bigIntString(e.NewMinimumTradePrice),
		}
	case *PausedEvent:
		params = map[string]any{"account": e.Account.Hex()}
	case *UnpausedEvent:
		params = map[string]any{"account": e.Account.Hex()}
	case *RoleAdminChangedEvent:
		params = map[string]any{
			"role":              e.Role.Hex(),
			"previousAdminRole": e.PreviousAdminRole.Hex(),
			"newAdminRole":      e.NewAdminRole.Hex(),
		}
	case *RoleGrantedEvent:
		params = map[string]any{
			"role":    e.Role.Hex(),
			"account": e.Account.Hex(),
			"sender":  e.Sender.Hex(),
		}
	case *RoleRevokedEvent:
		params = map[string]any{
			"role":    e.Role.Hex(),
			"account": e.Account.Hex(),
			"sender":  e.Sender.Hex(),
		}
	default:
		return nil, errors.Wrapf(errs.Unsupported, "event %q has no raw-log encoding", event.Name())
	}
	return json.Marshal(params)
}
