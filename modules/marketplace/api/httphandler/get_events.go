package httphandler

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/datagateway"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace/internal/entity"
	"github.com/samber/lo"
)

const (
	defaultEventsLimit = 100
	maxEventsLimit     = 1000
)

type getEventsRequest struct {
	Name      string `query:"name"`
	FromBlock int64  `query:"fromBlock"`
	ToBlock   int64  `query:"toBlock"`
	Limit     int32  `query:"limit"`
	Offset    int32  `query:"offset"`
}

func (r *getEventsRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > maxEventsLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", maxEventsLimit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "invalid request")
}

type rawEventResult struct {
	Id              string          `json:"id"`
	Name            string          `json:"name"`
	Params          json.RawMessage `json:"params"`
	BlockNumber     int64           `json:"blockNumber"`
	BlockTimestamp  int64           `json:"blockTimestamp"`
	TransactionHash string          `json:"transactionHash"`
	LogIndex        uint            `json:"logIndex"`
}

type getEventsResult struct {
	Events []rawEventResult `json:"events"`
}

type getEventsResponse = common.HttpResponse[getEventsResult]

func (h *HttpHandler) GetEvents(ctx *fiber.Ctx) (err error) {
	var req getEventsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errs.NewPublicError("unable to parse query parameters")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if req.Limit == 0 {
		req.Limit = defaultEventsLimit
	}

	events, err := h.usecase.GetRawEvents(ctx.UserContext(), datagateway.RawEventFilter{
		Name:      req.Name,
		FromBlock: req.FromBlock,
		ToBlock:   req.ToBlock,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetRawEvents")
	}

	resp := getEventsResponse{
		Result: &getEventsResult{
			Events: lo.Map(events, func(e *entity.RawEvent, _ int) rawEventResult {
				return rawEventResult{
					Id:              e.Id,
					Name:            e.Name,
					Params:          e.Params,
					BlockNumber:     e.BlockNumber,
					BlockTimestamp:  e.BlockTimestamp.Unix(),
					TransactionHash: e.TransactionHash.Hex(),
					LogIndex:        e.LogIndex,
				}
			}),
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
