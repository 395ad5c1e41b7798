package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lawpadi/lawpadi/internal/auth"
	"github.com/lawpadi/lawpadi/internal/chat"
	"github.com/lawpadi/lawpadi/internal/config"
	"github.com/lawpadi/lawpadi/internal/consultation"
	"github.com/lawpadi/lawpadi/internal/events"
	"github.com/lawpadi/lawpadi/internal/funding"
	"github.com/lawpadi/lawpadi/internal/identity"
	"github.com/lawpadi/lawpadi/internal/lawyer"
	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/marketplace"
	"github.com/lawpadi/lawpadi/internal/middleware"
	"github.com/lawpadi/lawpadi/internal/paystack"
	"github.com/lawpadi/lawpadi/internal/wallet"
	"github.com/lawpadi/lawpadi/internal/withdrawal"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Publisher events.Publisher
	Logger    *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// main also checks; repeated here so route wiring cannot silently run
	// against in-memory stores outside of dev.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	publisher := d.Publisher
	if publisher == nil {
		publisher = events.NewLogPublisher(d.Logger)
	}

	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
	} else {
		store = ledger.NewInMemory()
	}

	var walletRepo wallet.Repository
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
	} else {
		walletRepo = wallet.NewMemoryRepository()
	}
	walletSvc := wallet.NewService(walletRepo, store)

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	identitySvc := identity.NewService(identityRepo)
	tokenSvc := auth.NewService(d.Cfg)

	var lawyerRepo lawyer.Repository
	if d.DB != nil {
		lawyerRepo = lawyer.NewPostgresRepository(d.DB)
	} else {
		lawyerRepo = lawyer.NewMemoryRepository()
	}
	lawyerSvc := lawyer.NewService(lawyerRepo, identitySvc, walletSvc)

	var consultationRepo consultation.Repository
	if d.DB != nil {
		consultationRepo = consultation.NewPostgresRepository(d.DB)
	} else {
		consultationRepo = consultation.NewMemoryRepository()
	}
	consultationSvc := consultation.NewService(consultationRepo, lawyerSvc)

	var chatRepo chat.Repository
	if d.DB != nil {
		chatRepo = chat.NewPostgresRepository(d.DB)
	} else {
		chatRepo = chat.NewMemoryRepository()
	}
	chatSvc := chat.NewService(chatRepo, chat.NewRegistry(), d.Logger)

	var marketRepo marketplace.Repository
	if d.DB != nil {
		marketRepo = marketplace.NewPostgresRepository(d.DB)
	} else {
		marketRepo = marketplace.NewMemoryRepository()
	}

	gateway := paystack.NewClient(d.Cfg.PaystackBaseURL, d.Cfg.PaystackSecretKey, d.Cfg.GatewayTimeout)
	fundingSvc := funding.NewService(store, walletSvc, gateway, publisher, d.Logger)
	withdrawalSvc := withdrawal.NewService(store, walletSvc, gateway, publisher, d.Logger, d.Cfg.MinWithdrawal)
	marketSvc := marketplace.NewService(marketRepo, store, walletSvc, gateway, publisher, d.Logger)

	authHandler := auth.NewHandler(identitySvc, tokenSvc, walletSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	fundingHandler := funding.NewHandler(fundingSvc)
	withdrawalHandler := withdrawal.NewHandler(withdrawalSvc, gateway)
	marketHandler := marketplace.NewHandler(marketSvc)
	lawyerHandler := lawyer.NewHandler(lawyerSvc)
	consultationHandler := consultation.NewHandler(consultationSvc)
	chatHandler := chat.NewHandler(chatSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, 5))

	jwtmw := middleware.JWTAuth(tokenSvc)
	protected := api.Group("", jwtmw)

	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		user, err := identitySvc.Get(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{"success": true, "data": user})
	})

	var idempotency fiber.Handler
	if d.Cache != nil {
		idempotency = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	RegisterWalletRoutes(protected, walletHandler, fundingHandler, withdrawalHandler, idempotency)
	RegisterMarketplaceRoutes(protected, marketHandler, idempotency)
	RegisterLawyerRoutes(protected, lawyerHandler)
	RegisterConsultationRoutes(protected, consultationHandler)
	RegisterChatRoutes(protected, chatHandler)
	RegisterAdminRoutes(protected, store)

	return nil
}
