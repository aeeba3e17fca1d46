package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
	"github.com/samber/lo"
)

const (
	defaultStatsLimit = 100
	maxStatsLimit     = 1000
)

type getStatsRequest struct {
	Window string `query:"window"`
	From   int64  `query:"from"`
	To     int64  `query:"to"`
	Limit  int32  `query:"limit"`
	Offset int32  `query:"offset"`
}

func (r *getStatsRequest) Validate() error {
	var errList []error
	if r.Window == "" {
		r.Window = entity.BucketWindowDay.String()
	}
	if !entity.BucketWindow(r.Window).IsSupported() {
		errList = append(errList, errors.Errorf("'window' must be one of %v", entity.BucketWindows))
	}
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > maxStatsLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", maxStatsLimit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	if r.From > 0 && r.To > 0 && r.From > r.To {
		errList = append(errList, errors.New("'from' must not be after 'to'"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "invalid request")
}

type statsBucketResult struct {
	Id                 string `json:"id"`
	StartUnixTime      int64  `json:"startUnixTime"`
	TotalAmount        string `json:"totalAmount"`
	TotalPrice         string `json:"totalPrice"`
	TotalPriceAfterFee string `json:"totalPriceAfterFee"`
	TotalFee           string `json:"totalFee"`
	TotalPlatformFee   string `json:"totalPlatformFee"`
	TotalPartnerFee    string `json:"totalPartnerFee"`
	TotalTransaction   int64  `json:"totalTransaction"`
}

type getStatsResult struct {
	Window  string              `json:"window"`
	Buckets []statsBucketResult `json:"buckets"`
}

type getStatsResponse = common.HttpResponse[getStatsResult]

func (h *HttpHandler) GetStats(ctx *fiber.Ctx) (err error) {
	var req getStatsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errs.NewPublicError("unable to parse query parameters")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if req.Limit == 0 {
		req.Limit = defaultStatsLimit
	}

	window := entity.BucketWindow(req.Window)
	buckets, err := h.usecase.GetBuckets(ctx.UserContext(), window, req.From, req.To, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetBuckets")
	}

	resp := getStatsResponse{
		Result: &getStatsResult{
			Window: window.String(),
			Buckets: lo.Map(buckets, func(b *entity.TransactionBucket, _ int) statsBucketResult {
				return statsBucketResult{
					Id:                 b.Id(),
					StartUnixTime:      b.StartUnixTime,
					TotalAmount:        b.TotalAmount.String(),
					TotalPrice:         b.TotalPrice.String(),
					TotalPriceAfterFee: b.TotalPriceAfterFee.String(),
					TotalFee:           b.TotalFee.String(),
					TotalPlatformFee:   b.TotalPlatformFee.String(),
					TotalPartnerFee:    b.TotalPartnerFee.String(),
					TotalTransaction:   b.TotalTransaction,
				}
			}),
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
