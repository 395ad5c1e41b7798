package routes

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/identity"
	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/middleware"
)

// RegisterAdminRoutes wires the admin transaction listing.
func RegisterAdminRoutes(r fiber.Router, store ledger.Store) {
	group := r.Group("/admin", middleware.RequireRole(string(identity.RoleAdmin)))
	group.Get("/transactions", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))
		txs, err := store.ListAll(c.UserContext(), limit, offset)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			return fiber.NewError(http.StatusNotFound, "no transactions found")
		}
		return c.JSON(fiber.Map{"success": true, "data": txs})
	})
}
