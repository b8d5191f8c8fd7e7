package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/bulkedit"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/options"
	"github.com/opsdesk/ticket-admin/internal/query"
	"github.com/opsdesk/ticket-admin/internal/repository"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// SearchLimit caps the tickets returned by Search.
const SearchLimit = 10

// TicketSchema is the filter accessor table for tickets.
var TicketSchema = query.Schema[domain.Ticket]{
	ID:         domain.Ticket.RecordID,
	Field:      domain.Ticket.Field,
	Searchable: []string{domain.FieldName, domain.FieldID, domain.FieldStatus, domain.FieldSeverity, domain.FieldAssignee},
	DateField:  domain.FieldDueDate,
}

// TicketService coordinates ticket reads and edits.
type TicketService struct {
	tickets    repository.TicketRepository
	options    *options.Service
	dispatcher events.Dispatcher
	tr         *i18n.Translator
	locale     string
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Options    *options.Service
	Dispatcher events.Dispatcher
	Translator *i18n.Translator
	Locale     string
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	locale := deps.Locale
	if locale == "" {
		locale = deps.Translator.DefaultLocale()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		options:    deps.Options,
		dispatcher: deps.Dispatcher,
		tr:         deps.Translator,
		locale:     locale,
		logger:     nopIfNil(deps.Logger),
	}
}

// TicketListInput describes one request of the ticket table.
type TicketListInput struct {
	Criteria query.Criteria
	// Previous is the pager returned by the last request. A zero value means
	// there was none.
	Previous query.Pager
	Page     int
	PageSize int
	Selected []string
}

// TicketListResult is one rendered page of the ticket table.
type TicketListResult struct {
	Page        query.Page[domain.Ticket] `json:"page"`
	PageNumbers []query.PageToken         `json:"pageNumbers"`
	Pager       query.Pager               `json:"pager"`
	Selected    []string                  `json:"selected"`
}

// List filters and paginates tickets. Changing the filter or page size since
// the previous request returns to page 1, and selections that are not on the
// returned page are dropped.
func (s *TicketService) List(ctx context.Context, in TicketListInput) (*TicketListResult, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := query.Filter(all, TicketSchema, in.Criteria)
	pager := resolvePager(in.Previous, in.Criteria.Key(), in.Page, in.PageSize, len(filtered))

	page := query.Paginate(filtered, pager.State)
	pager.State.CurrentPage = page.CurrentPage
	return &TicketListResult{
		Page:        page,
		PageNumbers: query.PageNumbers(page.TotalPages, page.CurrentPage),
		Pager:       pager,
		Selected:    query.PruneSelection(in.Selected, query.IDs(page.Items, TicketSchema.ID)),
	}, nil
}

func resolvePager(prev query.Pager, filterKey string, page, pageSize, total int) query.Pager {
	if prev.FilterKey == "" {
		p := query.NewPager(pageSize)
		p.FilterKey = filterKey
		return p.Goto(page, total)
	}
	if prev.State.ItemsPerPage <= 0 {
		prev.State.ItemsPerPage = query.DefaultPageSize
	}
	synced := prev.Sync(filterKey, pageSize)
	if synced != prev {
		return synced
	}
	if page <= 0 {
		page = prev.State.CurrentPage
	}
	return synced.Goto(page, total)
}

// Get returns one ticket.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, s.notFound(id)
		}
		return nil, err
	}
	return t, nil
}

// GetTicket is Get under the name the chat tools use.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.Get(ctx, id)
}

// Search matches q against name, id, status, severity and assignee. An empty
// query returns the first tickets.
func (s *TicketService) Search(ctx context.Context, q string) ([]domain.Ticket, error) {
	return s.SearchTickets(ctx, q, SearchLimit)
}

// SearchTickets is Search with an explicit limit.
func (s *TicketService) SearchTickets(ctx context.Context, q string, limit int) ([]domain.Ticket, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	found := query.Filter(all, TicketSchema, query.Criteria{Text: q})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// UpdateStatus moves a ticket to a new status.
func (s *TicketService) UpdateStatus(ctx context.Context, id, status string) (*domain.Ticket, error) {
	allowed, _ := s.options.Allowed(ctx, domain.FieldStatus)
	if !slices.Contains(allowed, status) {
		return nil, apperrors.NewValidationError(
			s.tr.T(s.locale, "tickets.invalidStatus", i18n.Params{"statuses": strings.Join(allowed, ", ")}),
			map[string]any{"field": domain.FieldStatus, "value": status},
		)
	}
	return s.update(ctx, id, bulkedit.ChangeSet{{Field: domain.FieldStatus, Value: status}})
}

// Assign sets the ticket assignee.
func (s *TicketService) Assign(ctx context.Context, id, assignee string) (*domain.Ticket, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, apperrors.NewValidationError(
			s.tr.T(s.locale, "tickets.invalidValue", i18n.Params{"field": domain.FieldAssignee, "value": assignee}),
			map[string]any{"field": domain.FieldAssignee},
		)
	}
	return s.update(ctx, id, bulkedit.ChangeSet{{Field: domain.FieldAssignee, Value: assignee}})
}

// Lookup implements bulkedit.Store.
func (s *TicketService) Lookup(ctx context.Context, ids []string) ([]bulkedit.Record, error) {
	tickets, err := s.tickets.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]bulkedit.Record, len(tickets))
	for i, t := range tickets {
		out[i] = t
	}
	return out, nil
}

// Apply implements bulkedit.Store. Every change is validated before the
// ticket is written, so a rejected change leaves the ticket untouched.
func (s *TicketService) Apply(ctx context.Context, id string, changes bulkedit.ChangeSet) error {
	if err := s.validate(ctx, changes); err != nil {
		return err
	}
	_, err := s.update(events.WithSource(ctx, events.SourceBulk), id, changes)
	return err
}

func (s *TicketService) validate(ctx context.Context, changes bulkedit.ChangeSet) error {
	for _, c := range changes {
		if !domain.IsTicketField(c.Field) || c.Field == domain.FieldID {
			return apperrors.NewValidationError(
				s.tr.T(s.locale, "tickets.invalidValue", i18n.Params{"field": c.Field, "value": c.Value}),
				map[string]any{"field": c.Field},
			)
		}
		if c.Field == domain.FieldDueDate {
			if _, err := time.Parse(domain.DueDateLayout, c.Value); err != nil {
				return apperrors.NewValidationError(
					s.tr.T(s.locale, "tickets.invalidDate", i18n.Params{"value": c.Value}),
					map[string]any{"field": c.Field},
				)
			}
			continue
		}
		if allowed, ok := s.options.Allowed(ctx, c.Field); ok && !slices.Contains(allowed, c.Value) {
			return apperrors.NewValidationError(
				s.tr.T(s.locale, "tickets.invalidValue", i18n.Params{"field": c.Field, "value": c.Value}),
				map[string]any{"field": c.Field, "value": c.Value},
			)
		}
	}
	return nil
}

func (s *TicketService) update(ctx context.Context, id string, changes bulkedit.ChangeSet) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]string, len(changes))
	for _, c := range changes {
		if !ticket.SetField(c.Field, c.Value) {
			return nil, fmt.Errorf("field %s is not editable", c.Field)
		}
		applied[c.Field] = c.Value
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if isNotFound(err) {
			return nil, s.notFound(id)
		}
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type: events.EventTicketUpdated,
		Payload: events.TicketUpdatedPayload{
			TicketID: ticket.ID,
			Source:   events.SourceFromContext(ctx),
			Changes:  applied,
		},
	})
	return ticket, nil
}

func (s *TicketService) notFound(id string) error {
	return apperrors.NewNotFoundMessage(s.tr.T(s.locale, "tickets.notFound", i18n.Params{"id": id}), map[string]any{"id": id})
}
