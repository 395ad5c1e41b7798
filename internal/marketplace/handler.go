package marketplace

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

// Handler exposes template and purchase endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a marketplace handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type createTemplateRequest struct {
	Title      string          `json:"title" validate:"required"`
	Fields     []string        `json:"fields" validate:"required,min=1"`
	Content    string          `json:"content" validate:"required"`
	Price      decimal.Decimal `json:"price"`
	Visibility string          `json:"visibility"`
	Type       string          `json:"template_type" validate:"required"`
}

// CreateTemplate publishes a new document template.
func (h *Handler) CreateTemplate(c *fiber.Ctx) error {
	var req createTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Missing required fields")
	}
	userID, _ := c.Locals("user_id").(string)

	template, err := h.service.CreateTemplate(c.UserContext(), CreateTemplateInput{
		OwnerID:    userID,
		Title:      req.Title,
		Fields:     req.Fields,
		Content:    req.Content,
		Price:      req.Price,
		Visibility: Visibility(req.Visibility),
		Type:       req.Type,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": template})
}

// ListTemplates returns public templates plus the caller's own.
func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	templates, err := h.service.ListVisible(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return fiber.NewError(http.StatusNotFound, "No templates found")
	}
	return c.JSON(fiber.Map{"success": true, "data": templates})
}

// ListOwned returns the caller's templates.
func (h *Handler) ListOwned(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	templates, err := h.service.ListOwned(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return fiber.NewError(http.StatusNotFound, "No templates found")
	}
	return c.JSON(fiber.Map{"success": true, "data": templates})
}

// ListPurchased returns templates the caller has bought.
func (h *Handler) ListPurchased(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	templates, err := h.service.ListPurchased(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return fiber.NewError(http.StatusNotFound, "You've not bought any template, kindly visit the template market to buy now")
	}
	return c.JSON(fiber.Map{"success": true, "data": templates})
}

// GetTemplate returns a single template.
func (h *Handler) GetTemplate(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	template, err := h.service.GetTemplate(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			return fiber.NewError(http.StatusNotFound, "Template not found")
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, "Access denied")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": template})
}

type updateTemplateRequest struct {
	Title      string   `json:"title"`
	Fields     []string `json:"fields"`
	Content    string   `json:"content"`
	Visibility string   `json:"visibility"`
}

// UpdateTemplate applies a partial update to an owned template.
func (h *Handler) UpdateTemplate(c *fiber.Ctx) error {
	var req updateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	userID, _ := c.Locals("user_id").(string)

	template, err := h.service.UpdateTemplate(c.UserContext(), c.Params("id"), userID, UpdateTemplateInput{
		Title:      req.Title,
		Fields:     req.Fields,
		Content:    req.Content,
		Visibility: Visibility(req.Visibility),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			return fiber.NewError(http.StatusNotFound, "Template not found")
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, "Not authorized")
		case errors.Is(err, ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": template})
}

// DeleteTemplate removes an owned template.
func (h *Handler) DeleteTemplate(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if err := h.service.DeleteTemplate(c.UserContext(), c.Params("id"), userID); err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			return fiber.NewError(http.StatusNotFound, "Template not found")
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, "Not authorized")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Template deleted"})
}

type verifyPurchaseRequest struct {
	Reference  string `json:"reference" validate:"required"`
	TemplateID string `json:"template_id" validate:"required"`
}

// VerifyPurchase settles a template purchase after payment verification.
func (h *Handler) VerifyPurchase(c *fiber.Ctx) error {
	var req verifyPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Reference and template id are required")
	}
	userID, _ := c.Locals("user_id").(string)

	result, err := h.service.VerifyPurchase(c.UserContext(), SettlementInput{
		BuyerID:    userID,
		Reference:  req.Reference,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDuplicatePurchase), errors.Is(err, ledger.ErrDuplicateReference):
			return fiber.NewError(http.StatusConflict, "Purchase already processed")
		case errors.Is(err, ErrTemplateNotFound):
			return fiber.NewError(http.StatusNotFound, "Template not found")
		case errors.Is(err, wallet.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "Seller wallet not found")
		case errors.Is(err, paystack.ErrGatewayTimeout):
			return fiber.NewError(http.StatusGatewayTimeout, "Payment gateway timed out")
		case errors.Is(err, ErrPaymentNotSuccessful):
			return fiber.NewError(http.StatusUnprocessableEntity, "Payment verification failed")
		case errors.Is(err, ErrPartialSettlement):
			return fiber.NewError(http.StatusInternalServerError, "Settlement partially applied, contact support")
		}
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase verified successfully",
		"data":    result.Purchase,
	})
}
