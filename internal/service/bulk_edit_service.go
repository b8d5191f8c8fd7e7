package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/bulkedit"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/observability"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// BulkEditService keeps one bulk edit workflow per console session.
type BulkEditService struct {
	mu       sync.Mutex
	sessions map[string]*bulkedit.Workflow

	store      bulkedit.Store
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	tr         *i18n.Translator
	locale     string
	logger     *zap.Logger
	now        func() time.Time
}

// BulkEditDependencies bundles collaborators for the bulk edit service.
type BulkEditDependencies struct {
	Store      bulkedit.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Translator *i18n.Translator
	Locale     string
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewBulkEditService constructs the service.
func NewBulkEditService(deps BulkEditDependencies) *BulkEditService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	locale := deps.Locale
	if locale == "" {
		locale = deps.Translator.DefaultLocale()
	}
	return &BulkEditService{
		sessions:   make(map[string]*bulkedit.Workflow),
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		tr:         deps.Translator,
		locale:     locale,
		logger:     nopIfNil(deps.Logger),
		now:        clock,
	}
}

// BulkEditView is a session as the console renders it.
type BulkEditView struct {
	SessionID   string                  `json:"sessionId"`
	State       bulkedit.State          `json:"state"`
	Title       string                  `json:"title,omitempty"`
	Description string                  `json:"description,omitempty"`
	Preview     []bulkedit.UpdateResult `json:"preview,omitempty"`
	Succeeded   []bulkedit.UpdateResult `json:"succeeded,omitempty"`
	Failed      []bulkedit.UpdateResult `json:"failed,omitempty"`
	Summary     string                  `json:"summary,omitempty"`
}

// Open starts a bulk edit of the given tickets.
func (s *BulkEditService) Open(ctx context.Context, ids []string) (*BulkEditView, error) {
	ids = dedupe(ids)
	wf := bulkedit.NewWorkflow(s.store, bulkedit.WithClock(s.now))
	state, err := wf.Dispatch(bulkedit.Open{Selected: ids, Fields: domain.TicketFieldOrder})
	if err != nil {
		return nil, s.mapError(err)
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = wf
	s.mu.Unlock()
	return s.view(ctx, id, state)
}

// Get returns the current state of a session.
func (s *BulkEditService) Get(ctx context.Context, id string) (*BulkEditView, error) {
	wf, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, id, wf.State())
}

// Submit proposes form values. A form without any value closes the session.
func (s *BulkEditService) Submit(ctx context.Context, id string, values map[string]string) (*BulkEditView, error) {
	return s.dispatch(ctx, id, bulkedit.Submit{Values: values})
}

// Back returns from confirmation to the form.
func (s *BulkEditService) Back(ctx context.Context, id string) (*BulkEditView, error) {
	return s.dispatch(ctx, id, bulkedit.Back{})
}

// ResetForm clears the form.
func (s *BulkEditService) ResetForm(ctx context.Context, id string) (*BulkEditView, error) {
	return s.dispatch(ctx, id, bulkedit.ResetForm{})
}

// Retry re-targets the failed tickets of the last apply.
func (s *BulkEditService) Retry(ctx context.Context, id string) (*BulkEditView, error) {
	return s.dispatch(ctx, id, bulkedit.Retry{})
}

// Complete acknowledges the result and ends the session.
func (s *BulkEditService) Complete(ctx context.Context, id string) (*BulkEditView, error) {
	return s.dispatch(ctx, id, bulkedit.Complete{})
}

// Close cancels the session from any phase.
func (s *BulkEditService) Close(ctx context.Context, id string) (*BulkEditView, error) {
	return s.dispatch(ctx, id, bulkedit.Close{})
}

// ToggleExpand shows or hides the diff row of one ticket.
func (s *BulkEditService) ToggleExpand(ctx context.Context, id, ticketID string) (*BulkEditView, error) {
	return s.dispatch(ctx, id, bulkedit.ToggleExpand{RecordID: ticketID})
}

// Confirm applies the change set and reports per-ticket results.
func (s *BulkEditService) Confirm(ctx context.Context, id string) (*BulkEditView, error) {
	wf, err := s.session(id)
	if err != nil {
		return nil, err
	}
	state, err := wf.Confirm(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	if state.IsClosed() {
		s.drop(id)
		return s.view(ctx, id, state)
	}

	if state.Phase == bulkedit.PhaseResult {
		succeeded, failed := bulkedit.Succeeded(state.Results), bulkedit.Failed(state.Results)
		s.metrics.RecordBulkApply(len(succeeded), len(failed))
		ids := make([]string, len(state.Results))
		for i, r := range state.Results {
			ids[i] = r.RecordID
		}
		publishEvent(ctx, s.dispatcher, s.logger, events.Event{
			Type: events.EventBulkEditApplied,
			Payload: events.BulkEditAppliedPayload{
				SessionID: id,
				Fields:    state.Changes.Fields(),
				TicketIDs: ids,
				Succeeded: len(succeeded),
				Failed:    len(failed),
			},
		})
		s.logger.Info("bulk edit applied",
			zap.String("session_id", id),
			zap.Int("succeeded", len(succeeded)),
			zap.Int("failed", len(failed)),
		)
	}
	return s.view(ctx, id, state)
}

func (s *BulkEditService) dispatch(ctx context.Context, id string, ev bulkedit.Event) (*BulkEditView, error) {
	wf, err := s.session(id)
	if err != nil {
		return nil, err
	}
	state, err := wf.Dispatch(ev)
	if err != nil {
		return nil, s.mapError(err)
	}
	if state.IsClosed() {
		s.drop(id)
	}
	return s.view(ctx, id, state)
}

func (s *BulkEditService) session(id string) (*bulkedit.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFound("bulk edit session", map[string]any{"id": id})
	}
	return wf, nil
}

func (s *BulkEditService) drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *BulkEditService) view(ctx context.Context, id string, state bulkedit.State) (*BulkEditView, error) {
	v := &BulkEditView{SessionID: id, State: state}
	switch state.Phase {
	case bulkedit.PhaseConfirming, bulkedit.PhaseApplying:
		v.Title = s.tr.T(s.locale, "bulk.confirmTitle", nil)
		v.Description = s.tr.T(s.locale, "bulk.confirmDescription", i18n.Params{"count": len(state.Selected)})
		records, err := s.store.Lookup(ctx, state.Selected)
		if err != nil {
			return nil, err
		}
		v.Preview = bulkedit.Diff(records, state.Changes, s.now())
	case bulkedit.PhaseResult:
		results := s.localize(state.Results)
		v.Succeeded = bulkedit.Succeeded(results)
		v.Failed = bulkedit.Failed(results)
		v.Summary = s.tr.T(s.locale, "bulk.result.summary", i18n.Params{"success": len(v.Succeeded), "failure": len(v.Failed)})
	}
	return v, nil
}

func (s *BulkEditService) localize(results []bulkedit.UpdateResult) []bulkedit.UpdateResult {
	out := make([]bulkedit.UpdateResult, len(results))
	for i, r := range results {
		switch {
		case r.Success:
			r.Message = s.tr.T(s.locale, "bulk.result.success", nil)
		case r.Message == bulkedit.ErrRecordNotFound.Error():
			r.Message = s.tr.T(s.locale, "bulk.result.notFound", nil)
		default:
			r.Message = s.tr.T(s.locale, "bulk.result.failure", i18n.Params{"reason": r.Message})
		}
		out[i] = r
	}
	return out
}

func (s *BulkEditService) mapError(err error) error {
	switch {
	case errors.Is(err, bulkedit.ErrEmptySelection):
		return apperrors.NewValidationError(err.Error(), nil)
	case errors.Is(err, bulkedit.ErrApplyInFlight), errors.Is(err, bulkedit.ErrInvalidTransition):
		return apperrors.NewConflict(err.Error(), nil)
	}
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
