package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the caller's wallet with its current balance.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	account, err := h.service.GetByOwner(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found for user")
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"wallet_id": account.ID,
			"balance":   account.Balance,
			"currency":  account.Currency,
		},
	})
}

// Transactions lists the caller's ledger activity, newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	limit, offset := paging(c)
	statement, err := h.service.Statement(c.UserContext(), userID, limit, offset)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found for user")
		}
		return err
	}
	if len(statement.Transactions) == 0 {
		return fiber.NewError(http.StatusNotFound, "no transactions found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"balance":      statement.Account.Balance,
			"transactions": statement.Transactions,
		},
	})
}

func paging(c *fiber.Ctx) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil {
		limit = 50
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		offset = 0
	}
	return limit, offset
}
