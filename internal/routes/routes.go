package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/vortisllc/memre-backend/internal/config"
	"github.com/vortisllc/memre-backend/internal/handlers"
	"github.com/vortisllc/memre-backend/internal/middleware"
	"gorm.io/gorm"
)

// Setup registers all routes. The mobile clients predate this server, so the
// paths they call are kept verbatim at the root instead of under a versioned
// prefix.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	lifecycleHandler *handlers.LifecycleHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	memoHandler *handlers.MemoHandler,
	reminderHandler *handlers.ReminderHandler,
	healthHandler *handlers.HealthHandler,
) {
	// General rate limiter: 60 req/min per IP
	app.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	app.Get("/health", healthHandler.Check)

	// Credential endpoints get a stricter limit: 10 req/min per IP
	credLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	app.Post("/auth", credLimit, authHandler.Authenticate)
	app.Post("/auth/refresh", credLimit, authHandler.Refresh)
	app.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	app.Post("/register-user", credLimit, lifecycleHandler.RegisterUser)

	// Deletion requests resolve by an unguessable request id, so status and
	// confirmation stay public for use from the emailed link.
	app.Get("/deletion-status/:request_id", lifecycleHandler.DeletionStatus)
	app.Post("/confirm-deletion/:request_id", lifecycleHandler.ConfirmDeletion)
	app.Delete("/delete-account", middleware.JWTProtected(cfg), lifecycleHandler.DeleteAccount)

	// Per-user routes: token subject must match :user_id unless admin
	perUser := []fiber.Handler{
		middleware.JWTProtected(cfg),
		middleware.SameUserOrAdmin(db, cfg),
	}
	app.Get("/user/:user_id/subscription", append(perUser, subscriptionHandler.Status)...)
	app.Get("/user/:user_id/subscription-with-tables", append(perUser, subscriptionHandler.StatusWithTables)...)
	app.Post("/user/:user_id/ensure-tables", append(perUser, lifecycleHandler.EnsureTables)...)
	app.Get("/due-reminders/:user_id", append(perUser, reminderHandler.DueReminders)...)

	// Admin support surface: inspect and repair any user's table set
	admin := app.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/user/:user_id/tables", lifecycleHandler.VerifyTables)
	admin.Post("/user/:user_id/ensure-tables", lifecycleHandler.EnsureTables)

	// Memo CRUD operates on the authenticated user's own tables
	memos := app.Group("/memos", middleware.JWTProtected(cfg))
	memos.Post("/", memoHandler.Save)
	memos.Get("/", memoHandler.List)
	memos.Delete("/:memo_id", memoHandler.Delete)
	memos.Get("/:memo_id/attachment", memoHandler.Attachment)
	memos.Put("/:memo_id/reminders", memoHandler.SaveReminders)
}
