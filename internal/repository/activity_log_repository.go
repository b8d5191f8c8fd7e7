package repository

import (
	"context"
	"sort"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// ActivityLogRepository stores the audit trail.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry domain.ActivityLog) error
	// List returns entries newest first.
	List(ctx context.Context) ([]domain.ActivityLog, error)
}

type memoryActivityLogRepository struct {
	store *MemoryStore[domain.ActivityLog]
}

// NewMemoryActivityLogRepository returns an in-memory implementation.
func NewMemoryActivityLogRepository(seed []domain.ActivityLog) (ActivityLogRepository, error) {
	sorted := append([]domain.ActivityLog(nil), seed...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	store, err := NewMemoryStore(func(l domain.ActivityLog) string { return l.ID }, sorted...)
	if err != nil {
		return nil, err
	}
	return &memoryActivityLogRepository{store: store}, nil
}

func (r *memoryActivityLogRepository) Append(_ context.Context, entry domain.ActivityLog) error {
	return r.store.Prepend(entry)
}

func (r *memoryActivityLogRepository) List(_ context.Context) ([]domain.ActivityLog, error) {
	logs := r.store.List()
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}
