package lawyer

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handler exposes lawyer directory endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a lawyer HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type registerRequest struct {
	Specializations []string `json:"specialization" validate:"required,min=1"`
	BarCertificate  string   `json:"bar_certificate" validate:"required"`
}

// Register creates a lawyer profile for the caller.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Specialization and bar certificate are required")
	}
	userID, _ := c.Locals("user_id").(string)

	profile, err := h.service.Register(c.UserContext(), RegisterInput{
		UserID:          userID,
		Specializations: req.Specializations,
		BarCertificate:  req.BarCertificate,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrProfileExists):
			return fiber.NewError(http.StatusConflict, "You already have a lawyer profile")
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": profile})
}

// List returns directory profiles, optionally filtered.
func (h *Handler) List(c *fiber.Ctx) error {
	filter := ListFilter{
		Specialization: c.Query("specialization"),
		Search:         c.Query("search"),
		VerifiedOnly:   c.QueryBool("verified"),
	}
	profiles, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fiber.NewError(http.StatusNotFound, "No lawyers found")
	}
	return c.JSON(fiber.Map{"success": true, "data": profiles})
}

// Get returns a single profile.
func (h *Handler) Get(c *fiber.Ctx) error {
	profile, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Lawyer not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": profile})
}

// Verify marks a profile verified.
func (h *Handler) Verify(c *fiber.Ctx) error {
	profile, err := h.service.Verify(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Lawyer not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": profile})
}
