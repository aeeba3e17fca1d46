package httphandler

import (
	"github.com/cockroachdb/errors"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2/internal/entity"
	"github.com/samber/lo"
)

const (
	defaultTransactionsLimit = 100
	maxTransactionsLimit     = 1000
)

type getTransactionsRequest struct {
	Seller    string `query:"seller"`
	Buyer     string `query:"buyer"`
	NftTo     string `query:"nftTo"`
	TokenId   string `query:"tokenId"`
	FromBlock int64  `query:"fromBlock"`
	ToBlock   int64  `query:"toBlock"`
	Limit     int32  `query:"limit"`
	Offset    int32  `query:"offset"`
}

func (r *getTransactionsRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > maxTransactionsLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", maxTransactionsLimit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	if r.Seller != "" && !ethcommon.IsHexAddress(r.Seller) {
		errList = append(errList, errors.New("'seller' is not a valid address"))
	}
	if r.Buyer != "" && !ethcommon.IsHexAddress(r.Buyer) {
		errList = append(errList, errors.New("'buyer' is not a valid address"))
	}
	if r.NftTo != "" && !ethcommon.IsHexAddress(r.NftTo) {
		errList = append(errList, errors.New("'nftTo' is not a valid address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "invalid request")
}

type transactionResult struct {
	Id                  string `json:"id"`
	Seller              string `json:"seller"`
	Buyer               string `json:"buyer"`
	NftTo               string `json:"nftTo"`
	TokenId             string `json:"tokenId"`
	Amount              string `json:"amount"`
	Price               string `json:"price"`
	NetAmount           string `json:"netAmount"`
	TotalFee            string `json:"totalFee"`
	PercentageFeeAmount string `json:"percentageFeeAmount"`
	FixedFeeAmount      string `json:"fixedFeeAmount"`
	IsBuyLimit          bool   `json:"isBuyLimit"`
	BlockNumber         int64  `json:"blockNumber"`
	BlockTimestamp      int64  `json:"blockTimestamp"`
	TransactionHash     string `json:"transactionHash"`
	LogIndex            uint   `json:"logIndex"`
}

type getTransactionsResult struct {
	Transactions []transactionResult `json:"transactions"`
}

type getTransactionsResponse = common.HttpResponse[getTransactionsResult]

func (h *HttpHandler) GetTransactions(ctx *fiber.Ctx) (err error) {
	var req getTransactionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errs.NewPublicError("unable to parse query parameters")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if req.Limit == 0 {
		req.Limit = defaultTransactionsLimit
	}

	transactions, err := h.usecase.GetTransactions(ctx.UserContext(), datagateway.TransactionFilter{
		Seller:    req.Seller,
		Buyer:     req.Buyer,
		NftTo:     req.NftTo,
		TokenId:   req.TokenId,
		FromBlock: req.FromBlock,
		ToBlock:   req.ToBlock,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetTransactions")
	}

	resp := getTransactionsResponse{
		Result: &getTransactionsResult{
			Transactions: lo.Map(transactions, func(t *entity.Transaction, _ int) transactionResult {
				return transactionResult{
					Id:                  t.Id,
					Seller:              t.Seller.Hex(),
					Buyer:               t.Buyer.Hex(),
					NftTo:               t.NftTo.Hex(),
					TokenId:             t.TokenId.String(),
					Amount:              t.Amount.String(),
					Price:               t.Price.String(),
					NetAmount:           t.NetAmount.String(),
					TotalFee:            t.TotalFee.String(),
					PercentageFeeAmount: t.PercentageFeeAmount.String(),
					FixedFeeAmount:      t.FixedFeeAmount.String(),
					IsBuyLimit:          t.IsBuyLimit,
					BlockNumber:         t.BlockNumber,
					BlockTimestamp:      t.BlockTimestamp.Unix(),
					TransactionHash:     t.TransactionHash.Hex(),
					LogIndex:            t.LogIndex,
				}
			}),
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
