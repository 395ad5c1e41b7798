package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/consultation"
)

// RegisterConsultationRoutes wires consultation booking.
func RegisterConsultationRoutes(r fiber.Router, h *consultation.Handler) {
	group := r.Group("/consultations")
	group.Post("", h.Book)
	group.Get("", h.ListMine)
	group.Get("/lawyer", h.ListForLawyer)
	group.Get("/:id", h.Get)
}
