package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/repository"
)

// ActivityRecorder turns domain events into audit trail entries.
type ActivityRecorder struct {
	dispatcher events.Dispatcher
	logs       repository.ActivityLogRepository
	tr         *i18n.Translator
	locale     string
	logger     *zap.Logger
}

// ActivityRecorderDependencies bundles collaborators for the recorder.
type ActivityRecorderDependencies struct {
	Dispatcher events.Dispatcher
	LogRepo    repository.ActivityLogRepository
	Translator *i18n.Translator
	// Locale of the stored details text.
	Locale string
	Logger *zap.Logger
}

// NewActivityRecorder creates the recorder. Call RegisterHandlers to start it.
func NewActivityRecorder(deps ActivityRecorderDependencies) *ActivityRecorder {
	locale := deps.Locale
	if locale == "" {
		locale = deps.Translator.DefaultLocale()
	}
	return &ActivityRecorder{
		dispatcher: deps.Dispatcher,
		logs:       deps.LogRepo,
		tr:         deps.Translator,
		locale:     locale,
		logger:     nopIfNil(deps.Logger),
	}
}

// RegisterHandlers subscribes to events.
func (r *ActivityRecorder) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventTicketUpdated, r.handleTicketUpdated)
	r.dispatcher.Subscribe(events.EventBulkEditApplied, r.handleBulkEditApplied)
	r.dispatcher.Subscribe(events.EventUserCreated, r.handleUserCreated)
	r.dispatcher.Subscribe(events.EventUserDeleted, r.handleUserDeleted)
	r.dispatcher.Subscribe(events.EventUserRoleChanged, r.handleUserRoleChanged)
	r.dispatcher.Subscribe(events.EventPasswordReset, r.handlePasswordReset)
	r.dispatcher.Subscribe(events.EventChatRoomViewed, r.handleChatRoomViewed)
	r.dispatcher.Subscribe(events.EventUserLoggedIn, r.handleLogin)
	r.dispatcher.Subscribe(events.EventUserLoggedOut, r.handleLogout)
}

// Single ticket edits have no audit action of their own; they are only logged.
func (r *ActivityRecorder) handleTicketUpdated(_ context.Context, event events.Event) error {
	p, ok := event.Payload.(events.TicketUpdatedPayload)
	if !ok {
		return payloadError(event)
	}
	r.logger.Debug("TicketUpdated",
		zap.String("ticket_id", p.TicketID),
		zap.String("source", p.Source),
		zap.String("actor", event.Actor.UserID),
		zap.Any("changes", p.Changes))
	return nil
}

func (r *ActivityRecorder) handleBulkEditApplied(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.BulkEditAppliedPayload)
	if !ok {
		return payloadError(event)
	}
	labels := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		labels[i] = r.tr.T(r.locale, "fields."+f, nil)
	}
	return r.append(ctx, event, domain.ActivityLog{
		Action:     domain.ActivityBulkAction,
		Target:     p.SessionID,
		TargetType: "ticket",
		Details: r.tr.T(r.locale, "activity.bulkTicketEdit", i18n.Params{
			"fields":  strings.Join(labels, ", "),
			"success": p.Succeeded,
			"failure": p.Failed,
		}),
		Changes: map[string]any{"bulkAction": map[string]any{
			"actionType":    r.tr.T(r.locale, "activity.bulk.ticketEdit", nil),
			"affectedCount": len(p.TicketIDs),
			"ticketIds":     p.TicketIDs,
			"fields":        p.Fields,
			"succeeded":     p.Succeeded,
			"failed":        p.Failed,
		}},
	})
}

func (r *ActivityRecorder) handleUserCreated(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.UserCreatedPayload)
	if !ok {
		return payloadError(event)
	}
	return r.append(ctx, event, r.userEntry(domain.ActivityUserCreate, p.User))
}

func (r *ActivityRecorder) handlePasswordReset(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.PasswordResetPayload)
	if !ok {
		return payloadError(event)
	}
	return r.append(ctx, event, r.userEntry(domain.ActivityPasswordReset, p.User))
}

func (r *ActivityRecorder) handleUserDeleted(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.UserDeletedPayload)
	if !ok {
		return payloadError(event)
	}
	switch len(p.Users) {
	case 0:
		return nil
	case 1:
		return r.append(ctx, event, r.userEntry(domain.ActivityUserDelete, p.Users[0]))
	}
	return r.append(ctx, event, r.bulkUserEntry("activity.bulk.delete", p.Users, nil))
}

func (r *ActivityRecorder) handleUserRoleChanged(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.UserRoleChangedPayload)
	if !ok {
		return payloadError(event)
	}
	switch len(p.Users) {
	case 0:
		return nil
	case 1:
		u := p.Users[0]
		return r.append(ctx, event, domain.ActivityLog{
			Action:     domain.ActivityRoleChange,
			Target:     u.ID,
			TargetType: "user",
			Details: r.tr.T(r.locale, "activity.roleChange", i18n.Params{
				"name": u.Name,
				"role": r.tr.T(r.locale, "roles."+string(p.Role), nil),
			}),
			Changes: map[string]any{"roleChange": map[string]any{
				"userId":       u.ID,
				"userName":     u.Name,
				"previousRole": string(u.Role),
				"newRole":      string(p.Role),
			}},
		})
	}
	return r.append(ctx, event, r.bulkUserEntry("activity.bulk.roleChange", p.Users, map[string]any{"newRole": string(p.Role)}))
}

func (r *ActivityRecorder) handleChatRoomViewed(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.ChatRoomViewedPayload)
	if !ok {
		return payloadError(event)
	}
	return r.append(ctx, event, domain.ActivityLog{
		Action:     domain.ActivityChatView,
		Target:     p.ChatID,
		TargetType: "chat",
		Details:    r.tr.T(r.locale, "activity.chatView", i18n.Params{"id": p.ChatID}),
		Changes: map[string]any{"chatSession": map[string]any{
			"chatId": p.ChatID,
			"title":  p.Title,
		}},
	})
}

func (r *ActivityRecorder) handleLogin(ctx context.Context, event events.Event) error {
	if _, ok := event.Payload.(events.SessionPayload); !ok {
		return payloadError(event)
	}
	return r.append(ctx, event, domain.ActivityLog{
		Action:  domain.ActivityLogin,
		Details: r.tr.T(r.locale, "activity.loginDetails", i18n.Params{"ip": event.Actor.IPAddress}),
		Changes: map[string]any{"session": map[string]any{"id": event.ID}},
	})
}

func (r *ActivityRecorder) handleLogout(ctx context.Context, event events.Event) error {
	if _, ok := event.Payload.(events.SessionPayload); !ok {
		return payloadError(event)
	}
	return r.append(ctx, event, domain.ActivityLog{
		Action:  domain.ActivityLogout,
		Details: r.tr.T(r.locale, "activity.logoutDetails", nil),
	})
}

func (r *ActivityRecorder) userEntry(action domain.ActivityType, u events.UserRef) domain.ActivityLog {
	return domain.ActivityLog{
		Action:     action,
		Target:     u.ID,
		TargetType: "user",
		Details:    r.tr.T(r.locale, "activity.targetUser", i18n.Params{"name": u.Name}),
		Changes: map[string]any{"user": map[string]any{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
			"role":  string(u.Role),
		}},
	}
}

func (r *ActivityRecorder) bulkUserEntry(actionKey string, users []events.UserRef, extra map[string]any) domain.ActivityLog {
	action := r.tr.T(r.locale, actionKey, nil)
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	changes := map[string]any{
		"actionType":    action,
		"affectedCount": len(users),
		"userIds":       ids,
	}
	for k, v := range extra {
		changes[k] = v
	}
	return domain.ActivityLog{
		Action:     domain.ActivityBulkAction,
		TargetType: "user",
		Details:    r.tr.T(r.locale, "activity.bulkAction", i18n.Params{"action": action, "count": len(users)}),
		Changes:    map[string]any{"bulkAction": changes},
	}
}

func (r *ActivityRecorder) append(ctx context.Context, event events.Event, entry domain.ActivityLog) error {
	entry.ID = uuid.NewString()
	entry.UserID = event.Actor.UserID
	entry.UserName = event.Actor.Name
	entry.UserRole = event.Actor.Role
	entry.IPAddress = event.Actor.IPAddress
	entry.Timestamp = event.Timestamp
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := r.logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("record %s: %w", entry.Action, err)
	}
	r.logger.Info("activity recorded",
		zap.String("action", string(entry.Action)),
		zap.String("user_id", entry.UserID),
		zap.String("target", entry.Target))
	return nil
}

func payloadError(event events.Event) error {
	return fmt.Errorf("event %s: unexpected payload %T", event.Type, event.Payload)
}
