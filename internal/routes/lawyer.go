package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/identity"
	"github.com/lawpadi/lawpadi/internal/lawyer"
	"github.com/lawpadi/lawpadi/internal/middleware"
)

// RegisterLawyerRoutes wires the lawyer directory.
func RegisterLawyerRoutes(r fiber.Router, h *lawyer.Handler) {
	group := r.Group("/lawyers")
	group.Post("", h.Register)
	group.Get("", h.List)
	group.Get("/:id", h.Get)
	group.Post("/:id/verify", middleware.RequireRole(string(identity.RoleAdmin)), h.Verify)
}
