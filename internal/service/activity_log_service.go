package service

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/export"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/query"
	"github.com/opsdesk/ticket-admin/internal/repository"
)

// Activity log filter dimensions.
const (
	ActivityFieldUser   = "userId"
	ActivityFieldAction = "action"
)

// ActivityLogSchema is the filter accessor table for audit entries.
var ActivityLogSchema = query.Schema[domain.ActivityLog]{
	ID: domain.ActivityLog.RecordID,
	Field: func(l domain.ActivityLog, field string) (string, bool) {
		switch field {
		case "id":
			return l.ID, true
		case ActivityFieldUser:
			return l.UserID, true
		case "userName":
			return l.UserName, true
		case "userRole":
			return string(l.UserRole), true
		case ActivityFieldAction:
			return string(l.Action), true
		case "target":
			return l.Target, true
		case "targetType":
			return l.TargetType, true
		case "details":
			return l.Details, true
		case "ipAddress":
			return l.IPAddress, true
		case "timestamp":
			return l.Timestamp.Format(time.RFC3339Nano), true
		}
		return "", false
	},
	Searchable: []string{"userName", ActivityFieldAction, "details"},
	DateField:  "timestamp",
}

// ActivityLogService lists and exports the audit trail.
type ActivityLogService struct {
	logs     repository.ActivityLogRepository
	tr       *i18n.Translator
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// ActivityLogDependencies bundles collaborators for the activity log service.
type ActivityLogDependencies struct {
	LogRepo    repository.ActivityLogRepository
	Translator *i18n.Translator
	// Location renders export timestamps. Nil means time.Local.
	Location *time.Location
	Logger   *zap.Logger
	Clock    func() time.Time
}

// NewActivityLogService constructs the service.
func NewActivityLogService(deps ActivityLogDependencies) *ActivityLogService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ActivityLogService{
		logs:     deps.LogRepo,
		tr:       deps.Translator,
		location: deps.Location,
		logger:   nopIfNil(deps.Logger),
		now:      clock,
	}
}

// ActivityLogListInput describes one request of the audit table.
type ActivityLogListInput struct {
	Criteria query.Criteria
	Previous query.Pager
	Page     int
	PageSize int
}

// ActivityLogListResult is one rendered page of the audit table.
type ActivityLogListResult struct {
	Page        query.Page[domain.ActivityLog] `json:"page"`
	PageNumbers []query.PageToken              `json:"pageNumbers"`
	Pager       query.Pager                    `json:"pager"`
}

// List filters the audit trail, newest first, and paginates it.
func (s *ActivityLogService) List(ctx context.Context, in ActivityLogListInput) (*ActivityLogListResult, error) {
	filtered, err := s.filter(ctx, in.Criteria)
	if err != nil {
		return nil, err
	}
	pager := resolvePager(in.Previous, in.Criteria.Key(), in.Page, in.PageSize, len(filtered))
	page := query.Paginate(filtered, pager.State)
	pager.State.CurrentPage = page.CurrentPage
	return &ActivityLogListResult{
		Page:        page,
		PageNumbers: query.PageNumbers(page.TotalPages, page.CurrentPage),
		Pager:       pager,
	}, nil
}

// Export is a CSV download of every entry matching criteria.
type Export struct {
	Filename string
	Count    int
	Data     []byte
}

// Export renders the filtered audit trail as CSV with headers in locale.
func (s *ActivityLogService) Export(ctx context.Context, criteria query.Criteria, locale string) (*Export, error) {
	filtered, err := s.filter(ctx, criteria)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteActivityCSV(&buf, filtered, s.tr, locale, s.location); err != nil {
		return nil, err
	}
	s.logger.Info("activity logs exported", zap.Int("count", len(filtered)), zap.String("locale", locale))
	return &Export{
		Filename: export.ActivityCSVFilename(s.now()),
		Count:    len(filtered),
		Data:     buf.Bytes(),
	}, nil
}

func (s *ActivityLogService) filter(ctx context.Context, c query.Criteria) ([]domain.ActivityLog, error) {
	all, err := s.logs.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(all, ActivityLogSchema, c), nil
}
