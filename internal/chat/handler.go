package chat

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handler exposes messaging endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a chat HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type sendRequest struct {
	RecipientID string `json:"recipient" validate:"required"`
	Body        string `json:"message" validate:"required"`
}

// Send stores a message for the recipient and pushes it if they are online.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Recipient and message are required")
	}
	userID, _ := c.Locals("user_id").(string)

	msg, err := h.service.Send(c.UserContext(), SendInput{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMessage):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSelfMessage):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": msg})
}

// Inbox lists the caller's conversations, most recent first.
func (h *Handler) Inbox(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	threads, err := h.service.Inbox(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if len(threads) == 0 {
		return fiber.NewError(http.StatusNotFound, "No conversations found")
	}
	return c.JSON(fiber.Map{"success": true, "data": threads})
}

// History returns the full conversation with one partner, oldest first.
func (h *Handler) History(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	messages, err := h.service.History(c.UserContext(), userID, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": messages})
}
