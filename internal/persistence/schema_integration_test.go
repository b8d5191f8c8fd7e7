//go:build integration

package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/config"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/repository"
)

func startPostgres(t *testing.T) *Postgres {
	t.Helper()
	t.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "admin",
				"POSTGRES_PASSWORD": "admin",
				"POSTGRES_DB":       "tickets",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://admin:admin@%s:%s/tickets?sslmode=disable", host, port.Port())
	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)
	return pg
}

func TestSchemaAndSeedAreIdempotent(t *testing.T) {
	pg := startPostgres(t)
	ctx := context.Background()
	pool := pg.PoolHandle()

	for i := 0; i < 2; i++ {
		require.NoError(t, EnsureSchema(ctx, pool, DefaultTables()))
	}

	var first int64
	for _, s := range DefaultSeeds() {
		n, err := SeedDefaults(ctx, pool, s)
		require.NoError(t, err)
		first += n
	}
	assert.Equal(t, int64(41), first)

	for _, s := range DefaultSeeds() {
		n, err := SeedDefaults(ctx, pool, s)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	opts, err := repository.NewOptionRepository(pool).ListOptions(ctx, "status")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions[domain.OptionStatus], opts)

	names, err := repository.NewOptionRepository(pool).ListNames(ctx, "reporter")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNames[domain.NamesReporter], names)
}

func TestTicketRepositoryRoundTrip(t *testing.T) {
	pg := startPostgres(t)
	ctx := context.Background()
	pool := pg.PoolHandle()
	require.NoError(t, EnsureSchema(ctx, pool, DefaultTables()))

	tickets := []domain.Ticket{
		{ID: "TICKET-0001", Name: "one", Severity: domain.SeverityLow, Status: domain.TicketStatusWaiting, Assignee: "김철수", Priority: domain.TicketPriorityNormal, DueDate: "2025-06-01", Category: domain.CategoryBug, Environment: domain.EnvTest, EstimatedTime: "2시간", Reporter: "김보고"},
		{ID: "TICKET-0002", Name: "two", Severity: domain.SeverityHigh, Status: domain.TicketStatusInProgress, Assignee: "이영희", Priority: domain.TicketPriorityHigh, DueDate: "2025-06-02", Category: domain.CategoryDocs, Environment: domain.EnvProduction, EstimatedTime: "1일", Reporter: "이슈진"},
	}
	_, err := SeedDefaults(ctx, pool, TicketSeed(tickets))
	require.NoError(t, err)

	repo := repository.NewTicketRepository(pool)
	got, err := repo.GetMany(ctx, []string{"TICKET-0002", "TICKET-0001"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, tickets[1], got[0])

	got[0].Priority = domain.TicketPriorityHighest
	require.NoError(t, repo.Update(ctx, &got[0]))
	stored, err := repo.GetByID(ctx, "TICKET-0002")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHighest, stored.Priority)

	_, err = repo.GetByID(ctx, "TICKET-9999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
