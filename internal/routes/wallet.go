package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/funding"
	"github.com/lawpadi/lawpadi/internal/wallet"
	"github.com/lawpadi/lawpadi/internal/withdrawal"
)

// RegisterWalletRoutes wires wallet, funding and withdrawal endpoints.
// Balance-moving POSTs carry the idempotency middleware when Redis is up.
func RegisterWalletRoutes(r fiber.Router, w *wallet.Handler, f *funding.Handler, wd *withdrawal.Handler, idempotency fiber.Handler) {
	group := r.Group("/wallet")
	group.Get("", w.Get)
	group.Get("/transactions", w.Transactions)
	if idempotency != nil {
		group.Post("/fund", idempotency, f.Fund)
		group.Post("/withdraw", idempotency, wd.Withdraw)
	} else {
		group.Post("/fund", f.Fund)
		group.Post("/withdraw", wd.Withdraw)
	}

	r.Get("/banks", wd.Banks)
}
