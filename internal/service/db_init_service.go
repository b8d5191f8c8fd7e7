package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/options"
	"github.com/opsdesk/ticket-admin/internal/persistence"
)

// DBInitResult is reported back to the database setup page.
type DBInitResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Inserted int64  `json:"inserted,omitempty"`
}

// DBInitService creates and seeds the option tables.
type DBInitService struct {
	db      persistence.Execer
	options *options.Service
	tickets []domain.Ticket
	tr      *i18n.Translator
	locale  string
	logger  *zap.Logger
}

// DBInitDependencies bundles collaborators for the db init service.
type DBInitDependencies struct {
	// DB is nil when postgres is not configured.
	DB      persistence.Execer
	Options *options.Service
	// Tickets, when set, are seeded into the ticket table too.
	Tickets    []domain.Ticket
	Translator *i18n.Translator
	Locale     string
	Logger     *zap.Logger
}

// NewDBInitService constructs the service.
func NewDBInitService(deps DBInitDependencies) *DBInitService {
	locale := deps.Locale
	if locale == "" {
		locale = deps.Translator.DefaultLocale()
	}
	return &DBInitService{
		db:      deps.DB,
		options: deps.Options,
		tickets: deps.Tickets,
		tr:      deps.Translator,
		locale:  locale,
		logger:  nopIfNil(deps.Logger),
	}
}

// CreateTables creates every missing table.
func (s *DBInitService) CreateTables(ctx context.Context) DBInitResult {
	if err := persistence.EnsureSchema(ctx, s.db, persistence.DefaultTables()); err != nil {
		return s.failure("db.tablesFailed", err)
	}
	s.logger.Info("database tables ensured")
	return DBInitResult{Success: true, Message: s.tr.T(s.locale, "db.tablesCreated", nil)}
}

// Seed inserts the default rows. Rows that already exist are skipped.
func (s *DBInitService) Seed(ctx context.Context) DBInitResult {
	seeds := persistence.DefaultSeeds()
	if len(s.tickets) > 0 {
		seeds = append(seeds, persistence.TicketSeed(s.tickets))
	}

	var inserted int64
	for _, seed := range seeds {
		n, err := persistence.SeedDefaults(ctx, s.db, seed)
		if err != nil {
			return s.failure("db.seedFailed", err)
		}
		inserted += n
	}
	if s.options != nil {
		s.options.Invalidate(ctx)
	}
	s.logger.Info("database seeded", zap.Int64("inserted", inserted))
	return DBInitResult{Success: true, Message: s.tr.T(s.locale, "db.seeded", nil), Inserted: inserted}
}

// Init runs CreateTables then Seed, stopping at the first failure.
func (s *DBInitService) Init(ctx context.Context) DBInitResult {
	if res := s.CreateTables(ctx); !res.Success {
		return res
	}
	return s.Seed(ctx)
}

func (s *DBInitService) failure(key string, err error) DBInitResult {
	if errors.Is(err, persistence.ErrNoDatabase) {
		return DBInitResult{Message: s.tr.T(s.locale, "db.unavailable", nil)}
	}
	s.logger.Error("database init failed", zap.String("step", key), zap.Error(err))
	return DBInitResult{Message: s.tr.T(s.locale, key, i18n.Params{"error": err.Error()})}
}
