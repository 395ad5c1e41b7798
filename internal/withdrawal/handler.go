package withdrawal

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/paystack"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

// BankLister is the slice of the payment gateway listing supported banks.
type BankLister interface {
	ListBanks(ctx context.Context) ([]paystack.Bank, error)
}

// Handler exposes withdrawal and bank listing endpoints.
type Handler struct {
	service  *Service
	banks    BankLister
	validate *validator.Validate
}

// NewHandler constructs a withdrawal handler.
func NewHandler(service *Service, banks BankLister) *Handler {
	return &Handler{service: service, banks: banks, validate: validator.New()}
}

type withdrawRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	AccountNumber string          `json:"account_number" validate:"required"`
	BankCode      string          `json:"bank_code" validate:"required"`
}

// Withdraw debits the caller's wallet and pushes funds to their bank account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "amount and account number are missing")
	}
	userID, _ := c.Locals("user_id").(string)

	result, err := h.service.Withdraw(c.UserContext(), Input{
		UserID:        userID,
		Amount:        req.Amount,
		AccountNumber: req.AccountNumber,
		BankCode:      req.BankCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBelowMinimum):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, wallet.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "User wallet not found")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "Insufficient funds in user wallet")
		case errors.Is(err, paystack.ErrGatewayTimeout):
			return fiber.NewError(http.StatusGatewayTimeout, "Payment gateway timed out")
		case errors.Is(err, ErrBankVerificationFailed),
			errors.Is(err, ErrTransferSetupFailed),
			errors.Is(err, ErrTransferFailed):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		default:
			return err
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Withdrawal in progress",
		"data": fiber.Map{
			"balance":          result.Balance,
			"reference_number": result.Transaction.Reference,
			"status":           result.Transaction.Status,
		},
	})
}

// Banks lists the supported settlement banks.
func (h *Handler) Banks(c *fiber.Ctx) error {
	banks, err := h.banks.ListBanks(c.UserContext())
	if err != nil {
		if errors.Is(err, paystack.ErrGatewayTimeout) {
			return fiber.NewError(http.StatusGatewayTimeout, "Payment gateway timed out")
		}
		return fiber.NewError(http.StatusBadGateway, "Failed to fetch banks")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    banks,
	})
}
