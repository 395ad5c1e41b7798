package funding

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/paystack"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

// Handler exposes the wallet funding endpoint.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type fundRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Reference string          `json:"reference" validate:"required"`
}

// Fund credits the caller's wallet after verifying the payment reference.
func (h *Handler) Fund(c *fiber.Ctx) error {
	var req fundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Reference or amount is missing")
	}
	userID, _ := c.Locals("user_id").(string)

	result, err := h.service.Fund(c.UserContext(), Input{
		UserID:    userID,
		Amount:    req.Amount,
		Reference: req.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrDuplicateReference):
			return fiber.NewError(http.StatusConflict, "Transaction already processed")
		case errors.Is(err, wallet.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "Wallet not found for user")
		case errors.Is(err, paystack.ErrGatewayTimeout):
			return fiber.NewError(http.StatusGatewayTimeout, "Payment gateway timed out")
		case errors.Is(err, ErrVerificationFailed):
			return fiber.NewError(http.StatusUnprocessableEntity, "Payment verification failed")
		default:
			return err
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Wallet funded successfully",
		"data": fiber.Map{
			"balance": result.Balance,
			"transaction": fiber.Map{
				"id":               result.Transaction.ID,
				"amount":           result.Transaction.Amount,
				"type":             result.Transaction.Kind,
				"status":           result.Transaction.Status,
				"reference_number": result.Transaction.Reference,
				"description":      result.Transaction.Description,
				"created_at":       result.Transaction.CreatedAt,
			},
		},
	})
}
