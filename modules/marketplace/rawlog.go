package marketplace

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
)

// processRawLog appends one immutable record per decoded event. No state is
// folded; downstream consumers re-derive whatever views they need.
func (p *Processor) processRawLog(ctx context.Context, qtx datagateway.MarketplaceDataGatewayWithTx, event Event) error {
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

// bigIntString keeps uint256 values exact over JSON by rendering them as
// decimal strings instead of floats.
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
			"seller":        e.Seller.Hex(),
			"buyer":         e.Buyer.Hex(),
			"tokenId":       bigIntString(e.TokenId),
			"amount":        bigIntString(e.Amount),
			"price":         bigIntString(e.Price),
			"priceAfterFee": bigIntString(e.PriceAfterFee),
			"isBuyLimit":    e.IsBuyLimit,
		}
	case *SetFeePercentEvent:
		params = map[string]any{
			"newPlatformFeePercent": bigIntString(e.NewPlatformFeePercent),
			"newPartnerFeePercent":  bigIntString(e.NewPartnerFeePercent),
		}
	case *SetTotalFeePercentEvent:
		params = map[string]any{
			"newTotalFeePercent": bigIntString(e.NewTotalFeePercent),
		}
	case *SetMinimumTradePriceEvent:
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
