package auth

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/lawpadi/lawpadi/internal/identity"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

// Handler exposes registration and login endpoints.
type Handler struct {
	ids      *identity.Service
	tokens   *Service
	wallets  *wallet.Service
	validate *validator.Validate
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, tokens *Service, wallets *wallet.Service) *Handler {
	return &Handler{ids: ids, tokens: tokens, wallets: wallets, validate: validator.New()}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	WalletID    string `json:"wallet_id,omitempty"`
}

// Register handles account onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Name, a valid email and a password of at least 8 characters are required")
	}
	user, err := h.ids.Register(c.UserContext(), identity.Credentials{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, "Email already registered")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    authResponse{UserID: user.ID, Name: user.Name, Email: user.Email, Role: string(user.Role)},
	})
}

// Login validates credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Email and password are required")
	}
	user, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "Invalid email or password")
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	var walletID string
	if h.wallets != nil {
		if w, err := h.wallets.GetByOwner(c.UserContext(), user.ID); err == nil {
			walletID = w.ID
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": authResponse{
			UserID:      user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Role:        string(user.Role),
			AccessToken: token.AccessToken,
			ExpiresIn:   token.ExpiresIn,
			WalletID:    walletID,
		},
	})
}
