package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/chat"
)

// RegisterChatRoutes wires client-lawyer messaging.
func RegisterChatRoutes(r fiber.Router, h *chat.Handler) {
	group := r.Group("/chat")
	group.Post("", h.Send)
	group.Get("/inbox", h.Inbox)
	group.Get("/:userId", h.History)
}
