package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v2/marketplace")

	r.Get("/block", h.GetCurrentBlock)
	r.Get("/config", h.GetConfig)
	r.Get("/transactions", h.GetTransactions)
	r.Get("/stats", h.GetStats)
	r.Get("/events", h.GetEvents)
	return nil
}
