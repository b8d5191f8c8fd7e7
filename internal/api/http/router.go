package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/api/http/handlers"
	"github.com/opsdesk/ticket-admin/internal/auth"
	"github.com/opsdesk/ticket-admin/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Options        *handlers.OptionsHandler
	Tickets        *handlers.TicketsHandler
	BulkEdits      *handlers.BulkEditHandler
	Users          *handlers.UsersHandler
	ActivityLogs   *handlers.ActivityLogsHandler
	ChatRooms      *handlers.ChatRoomsHandler
	Chat           *handlers.ChatHandler
	Layout         *handlers.LayoutHandler
	DB             *handlers.DBHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	protected.Post("/auth/logout", cfg.Users.Logout)

	protected.Get("/options", cfg.Options.All)
	protected.Get("/options/:category", cfg.Options.Category)
	protected.Get("/names/:kind", cfg.Options.Names)

	protected.Get("/tickets", cfg.Tickets.List)
	protected.Get("/tickets/search", cfg.Tickets.Search)
	protected.Get("/tickets/:id", cfg.Tickets.Get)
	protected.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	protected.Patch("/tickets/:id/assignee", cfg.Tickets.Assign)

	protected.Post("/chat", cfg.Chat.Send)
	protected.Post("/layout", cfg.Layout.Apply)

	adminOnly := auth.RequireRole(domain.RoleAdmin)

	bulk := protected.Group("/bulk-edits", adminOnly)
	bulk.Post("/", cfg.BulkEdits.Open)
	bulk.Get("/:id", cfg.BulkEdits.Get)
	bulk.Delete("/:id", cfg.BulkEdits.Close)
	bulk.Post("/:id/submit", cfg.BulkEdits.Submit)
	bulk.Post("/:id/back", cfg.BulkEdits.Back)
	bulk.Post("/:id/reset", cfg.BulkEdits.Reset)
	bulk.Post("/:id/confirm", cfg.BulkEdits.Confirm)
	bulk.Post("/:id/retry", cfg.BulkEdits.Retry)
	bulk.Post("/:id/complete", cfg.BulkEdits.Complete)
	bulk.Post("/:id/expand/:ticketId", cfg.BulkEdits.ToggleExpand)

	users := protected.Group("/users", adminOnly)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/generate-password", cfg.Users.GeneratePassword)
	users.Post("/bulk-role", cfg.Users.BulkRole)
	users.Post("/bulk-delete", cfg.Users.BulkDelete)
	users.Post("/:id/reset-password", cfg.Users.ResetPassword)

	logs := protected.Group("/activity-logs", adminOnly)
	logs.Get("/", cfg.ActivityLogs.List)
	logs.Get("/export", cfg.ActivityLogs.Export)

	rooms := protected.Group("/chat-rooms", adminOnly)
	rooms.Get("/", cfg.ChatRooms.Rooms)
	rooms.Get("/:id/messages", cfg.ChatRooms.Messages)

	protected.Group("/db", adminOnly).Post("/init", cfg.DB.Init)
}
