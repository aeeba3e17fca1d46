package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
)

type getConfigResult struct {
	Id                 string `json:"id"`
	TotalFeePercent    string `json:"totalFeePercent"`
	PlatformFeePercent string `json:"platformFeePercent"`
	PartnerFeePercent  string `json:"partnerFeePercent"`
	MinimumTradePrice  string `json:"minimumTradePrice"`
	Paused             bool   `json:"paused"`
}

type getConfigResponse = common.HttpResponse[getConfigResult]

func (h *HttpHandler) GetConfig(ctx *fiber.Ctx) (err error) {
	config, err := h.usecase.GetConfig(ctx.UserContext())
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("config not initialized yet")
		}
		return errors.Wrap(err, "error during GetConfig")
	}

	resp := getConfigResponse{
		Result: &getConfigResult{
			Id:                 config.Id,
			TotalFeePercent:    config.TotalFeePercent.String(),
			PlatformFeePercent: config.PlatformFeePercent.String(),
			PartnerFeePercent:  config.PartnerFeePercent.String(),
			MinimumTradePrice:  config.MinimumTradePrice.String(),
			Paused:             config.Paused,
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
