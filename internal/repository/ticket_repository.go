package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
}

type memoryTicketRepository struct {
	store *MemoryStore[domain.Ticket]
}

// NewMemoryTicketRepository returns an in-memory implementation seeded with tickets.
func NewMemoryTicketRepository(seed []domain.Ticket) (TicketRepository, error) {
	store, err := NewMemoryStore(func(t domain.Ticket) string { return t.ID }, seed...)
	if err != nil {
		return nil, err
	}
	return &memoryTicketRepository{store: store}, nil
}

func (r *memoryTicketRepository) List(_ context.Context) ([]domain.Ticket, error) {
	return r.store.List(), nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *memoryTicketRepository) GetMany(_ context.Context, ids []string) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(ids))
	for _, id := range ids {
		if t, err := r.store.Get(id); err == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	return r.store.Insert(*ticket)
}

func (r *memoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	_, err := r.store.Update(ticket.ID, func(t *domain.Ticket) error {
		*t = *ticket
		return nil
	})
	return err
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository returns a Postgres-backed implementation over the ticket table.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `ticket_id, name, severity, status, assignee, priority, due_date,
               category, environment, estimated_time, reporter`

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM ticket ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM ticket WHERE ticket_id=$1`, id)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) GetMany(ctx context.Context, ids []string) ([]domain.Ticket, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`SELECT %s FROM ticket WHERE ticket_id IN (%s)`, ticketColumns, strings.Join(placeholders, ","))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	found, err := scanTickets(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Ticket, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	out := make([]domain.Ticket, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	if r.pool == nil {
		return ErrUnavailable
	}
	const query = `
        INSERT INTO ticket (` + ticketColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.pool.Exec(ctx, query, ticketArgs(t)...)
	return err
}

func (r *ticketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	if r.pool == nil {
		return ErrUnavailable
	}
	const query = `
        UPDATE ticket SET name=$2, severity=$3, status=$4, assignee=$5, priority=$6, due_date=$7,
            category=$8, environment=$9, estimated_time=$10, reporter=$11
        WHERE ticket_id=$1`
	cmd, err := r.pool.Exec(ctx, query, ticketArgs(t)...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func ticketArgs(t *domain.Ticket) []any {
	return []any{
		t.ID,
		t.Name,
		string(t.Severity),
		string(t.Status),
		t.Assignee,
		string(t.Priority),
		t.DueDate,
		string(t.Category),
		string(t.Environment),
		t.EstimatedTime,
		t.Reporter,
	}
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var (
		t                                         domain.Ticket
		severity, status, priority, category, env string
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&severity,
		&status,
		&t.Assignee,
		&priority,
		&t.DueDate,
		&category,
		&env,
		&t.EstimatedTime,
		&t.Reporter,
	)
	t.Severity = domain.Severity(severity)
	t.Status = domain.TicketStatus(status)
	t.Priority = domain.TicketPriority(priority)
	t.Category = domain.TicketCategory(category)
	t.Environment = domain.Environment(env)
	return t, err
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
