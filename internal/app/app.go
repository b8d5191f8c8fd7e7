// Package app assembles the console backend from configuration. Both the
// HTTP server and ticketctl build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/opsdesk/ticket-admin/internal/api/http"
	"github.com/opsdesk/ticket-admin/internal/api/http/handlers"
	"github.com/opsdesk/ticket-admin/internal/auth"
	"github.com/opsdesk/ticket-admin/internal/chat"
	"github.com/opsdesk/ticket-admin/internal/config"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/fixtures"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/observability"
	"github.com/opsdesk/ticket-admin/internal/options"
	"github.com/opsdesk/ticket-admin/internal/persistence"
	"github.com/opsdesk/ticket-admin/internal/repository"
	"github.com/opsdesk/ticket-admin/internal/service"
	"github.com/opsdesk/ticket-admin/internal/worker"
)

// App holds the connections and services of one process.
type App struct {
	Config     config.Config
	Logger     *zap.Logger
	Translator *i18n.Translator
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher

	Postgres *persistence.Postgres
	Redis    *persistence.Redis

	Options   *options.Service
	Tickets   *service.TicketService
	BulkEdits *service.BulkEditService
	Users     *service.UserService
	Auth      *service.AuthService
	Logs      *service.ActivityLogService
	Chats     *service.ChatAuditService
	DBInit    *service.DBInitService
	Assistant chat.Assistant

	userRepo repository.UserRepository
}

// New connects to the configured stores, generates the mock data set and
// builds every service.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	tr, err := i18n.New(cfg.I18n.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	rdb := persistence.NewRedis(cfg.Redis, logger)
	fail := func(err error) (*App, error) {
		rdb.Close()
		pg.Close()
		return nil, err
	}

	execer := pg.Execer()
	var optionRepo repository.OptionRepository
	if pg.Enabled() {
		optionRepo = repository.NewOptionRepository(pg.Pool)
		if cfg.Postgres.RunSchema {
			if err := persistence.EnsureSchema(ctx, execer, persistence.DefaultTables()); err != nil {
				logger.Warn("schema bootstrap failed", zap.Error(err))
			}
		}
	}

	gen := fixtures.New(cfg.Data.Seed, tr, time.Now())
	seedTickets := gen.Tickets(cfg.Data.TicketCount)
	people := fixtures.ChatParticipants()

	ticketRepo, err := newTicketRepository(cfg, pg, seedTickets)
	if err != nil {
		return fail(err)
	}
	userRepo, err := repository.NewMemoryUserRepository(gen.Users(cfg.Data.UserCount))
	if err != nil {
		return fail(err)
	}
	logRepo, err := repository.NewMemoryActivityLogRepository(gen.ActivityLogs(cfg.Data.LogCount, people))
	if err != nil {
		return fail(err)
	}
	chatRepo, err := repository.NewMemoryChatRepository(people, fixtures.ChatRooms(), fixtures.ChatMessages())
	if err != nil {
		return fail(err)
	}

	a := &App{
		Config:     cfg,
		Logger:     logger,
		Translator: tr,
		Metrics:    observability.NewMetrics(),
		Dispatcher: events.NewInMemoryDispatcher(),
		Postgres:   pg,
		Redis:      rdb,
		userRepo:   userRepo,
	}

	a.Options = options.NewService(options.Dependencies{
		Repo:   optionRepo,
		Cache:  rdb.Cache(),
		TTL:    cfg.Options.CacheTTL(),
		Logger: logger.Named("options"),
	})
	a.Tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Options:    a.Options,
		Dispatcher: a.Dispatcher,
		Translator: tr,
		Logger:     logger.Named("tickets"),
	})
	a.BulkEdits = service.NewBulkEditService(service.BulkEditDependencies{
		Store:      a.Tickets,
		Dispatcher: a.Dispatcher,
		Metrics:    a.Metrics,
		Translator: tr,
		Logger:     logger.Named("bulk_edit"),
	})
	a.Users = service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		Dispatcher: a.Dispatcher,
		Translator: tr,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger.Named("users"),
	})
	a.Auth = service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: a.Dispatcher,
		Translator: tr,
		Logger:     logger.Named("auth"),
	})
	a.Logs = service.NewActivityLogService(service.ActivityLogDependencies{
		LogRepo:    logRepo,
		Translator: tr,
		Location:   time.Local,
		Logger:     logger.Named("activity_logs"),
	})
	a.Chats = service.NewChatAuditService(service.ChatAuditDependencies{
		ChatRepo:   chatRepo,
		Dispatcher: a.Dispatcher,
		Translator: tr,
		Logger:     logger.Named("chat_audit"),
	})
	a.DBInit = service.NewDBInitService(service.DBInitDependencies{
		DB:         execer,
		Options:    a.Options,
		Tickets:    seedTickets,
		Translator: tr,
		Logger:     logger.Named("db_init"),
	})

	worker.StartActivityWorker(service.NewActivityRecorder(service.ActivityRecorderDependencies{
		Dispatcher: a.Dispatcher,
		LogRepo:    logRepo,
		Translator: tr,
		Logger:     logger.Named("activity"),
	}))

	a.Assistant = a.newAssistant()
	return a, nil
}

func newTicketRepository(cfg config.Config, pg *persistence.Postgres, seed []domain.Ticket) (repository.TicketRepository, error) {
	if cfg.Data.TicketBackend != config.BackendPostgres {
		return repository.NewMemoryTicketRepository(seed)
	}
	if !pg.Enabled() {
		return nil, fmt.Errorf("TICKET_BACKEND=%s requires POSTGRES_DSN", config.BackendPostgres)
	}
	return repository.NewTicketRepository(pg.Pool), nil
}

// newAssistant picks the model-backed assistant when a provider is
// configured and falls back to the canned reply otherwise.
func (a *App) newAssistant() chat.Assistant {
	locale := a.Translator.DefaultLocale()
	if !a.Config.LLM.Enabled() {
		return chat.NewCannedAssistant(a.Translator, locale)
	}
	model, err := chat.NewModel(a.Config.LLM)
	if err != nil {
		a.Logger.Warn("llm unavailable; using canned replies", zap.String("provider", a.Config.LLM.Provider), zap.Error(err))
		return chat.NewCannedAssistant(a.Translator, locale)
	}
	return chat.NewLLMAssistant(chat.LLMDependencies{
		Model:      model,
		Tools:      a.Tickets,
		Translator: a.Translator,
		Locale:     locale,
		Config:     a.Config.LLM,
		Logger:     a.Logger.Named("assistant"),
	})
}

// HTTP builds the fiber app with every route registered.
func (a *App) HTTP() *fiber.App {
	server := fiber.New(fiber.Config{AppName: a.Config.App.Name})
	httptransport.RegisterMiddlewares(server, a.Logger, a.Metrics, a.Config.App.RequestTimeout())
	httptransport.RegisterRoutes(server, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(a.Config.App.Name, a.Config.App.Version, a.Postgres, a.Redis, a.Metrics),
		Options:        handlers.NewOptionsHandler(a.Options),
		Tickets:        handlers.NewTicketsHandler(a.Tickets, a.Translator),
		BulkEdits:      handlers.NewBulkEditHandler(a.BulkEdits),
		Users:          handlers.NewUsersHandler(a.Users, a.Auth, a.Translator),
		ActivityLogs:   handlers.NewActivityLogsHandler(a.Logs, a.Translator),
		ChatRooms:      handlers.NewChatRoomsHandler(a.Chats),
		Chat:           handlers.NewChatHandler(a.Assistant, a.Logger.Named("chat")),
		Layout:         handlers.NewLayoutHandler(),
		DB:             handlers.NewDBHandler(a.DBInit),
		AuthMiddleware: auth.NewAuthMiddleware(a.Auth.TokenManager(), a.userRepo, a.Config.Auth.Required),
	})
	return server
}

// Close releases connections.
func (a *App) Close() {
	a.Redis.Close()
	a.Postgres.Close()
}
