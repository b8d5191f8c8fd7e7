package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

type item struct {
	ID  string
	Val int
}

func itemID(i item) string { return i.ID }

func TestMemoryStore(t *testing.T) {
	s, err := NewMemoryStore(itemID, item{"a", 1}, item{"b", 2})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Insert(item{"a", 9}), ErrDuplicateID)
	require.NoError(t, s.Prepend(item{"z", 0}))
	assert.Equal(t, []item{{"z", 0}, {"a", 1}, {"b", 2}}, s.List())

	got, err := s.Update("a", func(i *item) error { i.Val = 10; return nil })
	require.NoError(t, err)
	assert.Equal(t, 10, got.Val)

	_, err = s.Update("a", func(i *item) error { i.ID = "other"; return nil })
	assert.Error(t, err)
	cur, _ := s.Get("a")
	assert.Equal(t, 10, cur.Val)

	_, err = s.Update("a", func(*item) error { return errors.New("nope") })
	assert.Error(t, err)

	require.NoError(t, s.Delete("z"))
	assert.ErrorIs(t, s.Delete("z"), ErrNotFound)
	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, s.Len())
}

func TestNewMemoryStoreRejectsDuplicateSeed(t *testing.T) {
	_, err := NewMemoryStore(itemID, item{"a", 1}, item{"a", 2})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestMemoryTicketRepositoryGetManyKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryTicketRepository([]domain.Ticket{{ID: "T-1"}, {ID: "T-2"}, {ID: "T-3"}})
	require.NoError(t, err)

	got, err := repo.GetMany(ctx, []string{"T-3", "nope", "T-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T-3", got[0].ID)
	assert.Equal(t, "T-1", got[1].ID)

	tk := got[1]
	tk.Status = domain.TicketStatusCompleted
	require.NoError(t, repo.Update(ctx, &tk))
	stored, err := repo.GetByID(ctx, "T-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCompleted, stored.Status)

	assert.ErrorIs(t, repo.Update(ctx, &domain.Ticket{ID: "T-9"}), ErrNotFound)
}

func TestActivityLogRepositoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	repo, err := NewMemoryActivityLogRepository([]domain.ActivityLog{
		{ID: "log-1", Timestamp: base},
		{ID: "log-2", Timestamp: base.Add(2 * time.Hour)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, domain.ActivityLog{ID: "log-3", Timestamp: base.Add(time.Hour)}))

	logs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"log-2", "log-3", "log-1"}, []string{logs[0].ID, logs[1].ID, logs[2].ID})
}

func TestDatabaseRepositoriesWithoutPool(t *testing.T) {
	ctx := context.Background()
	_, err := NewOptionRepository(nil).ListOptions(ctx, "severity")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = NewTicketRepository(nil).List(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}
