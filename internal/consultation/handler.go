package consultation

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/lawyer"
)

// Handler exposes consultation booking endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a consultation HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type bookRequest struct {
	LawyerID    string    `json:"lawyer" validate:"required"`
	Topic       string    `json:"topic" validate:"required"`
	Details     string    `json:"details"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Book records a consultation with a lawyer.
func (h *Handler) Book(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Lawyer and topic are required")
	}
	userID, _ := c.Locals("user_id").(string)

	booked, err := h.service.Book(c.UserContext(), BookInput{
		ClientID:    userID,
		LawyerID:    req.LawyerID,
		Topic:       req.Topic,
		Details:     req.Details,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, lawyer.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "Lawyer not found")
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": booked})
}

// ListMine returns the caller's bookings as a client.
func (h *Handler) ListMine(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	consultations, err := h.service.ListForClient(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if len(consultations) == 0 {
		return fiber.NewError(http.StatusNotFound, "No consultations found")
	}
	return c.JSON(fiber.Map{"success": true, "data": consultations})
}

// ListForLawyer returns sessions booked with the caller's lawyer profile.
func (h *Handler) ListForLawyer(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	consultations, err := h.service.ListForLawyer(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, lawyer.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Lawyer profile not found")
		}
		return err
	}
	if len(consultations) == 0 {
		return fiber.NewError(http.StatusNotFound, "No consultations found")
	}
	return c.JSON(fiber.Map{"success": true, "data": consultations})
}

// Get returns one consultation visible to its participants.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	booked, err := h.service.Get(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "Consultation not found")
		case errors.Is(err, ErrNotParticipant):
			return fiber.NewError(http.StatusForbidden, "You cannot view this consultation")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": booked})
}
