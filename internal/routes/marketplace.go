package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/marketplace"
)

// RegisterMarketplaceRoutes wires template CRUD and purchase settlement.
func RegisterMarketplaceRoutes(r fiber.Router, h *marketplace.Handler, idempotency fiber.Handler) {
	group := r.Group("/templates")
	group.Post("", h.CreateTemplate)
	group.Get("", h.ListTemplates)
	group.Get("/owned", h.ListOwned)
	group.Get("/purchased", h.ListPurchased)
	group.Get("/:id", h.GetTemplate)
	group.Patch("/:id", h.UpdateTemplate)
	group.Delete("/:id", h.DeleteTemplate)

	if idempotency != nil {
		r.Post("/purchase/verify", idempotency, h.VerifyPurchase)
	} else {
		r.Post("/purchase/verify", h.VerifyPurchase)
	}
}
