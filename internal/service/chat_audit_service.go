package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/query"
	"github.com/opsdesk/ticket-admin/internal/repository"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// Chat room filter dimensions.
const (
	ChatFieldUser = "userId"
	ChatFieldType = "type"
	ChatFieldRole = "role"
)

// ChatAuditService serves the conversation audit view.
type ChatAuditService struct {
	chats      repository.ChatRepository
	dispatcher events.Dispatcher
	tr         *i18n.Translator
	locale     string
	logger     *zap.Logger
}

// ChatAuditDependencies bundles collaborators for the chat audit service.
type ChatAuditDependencies struct {
	ChatRepo   repository.ChatRepository
	Dispatcher events.Dispatcher
	Translator *i18n.Translator
	Locale     string
	Logger     *zap.Logger
}

// NewChatAuditService constructs the service.
func NewChatAuditService(deps ChatAuditDependencies) *ChatAuditService {
	locale := deps.Locale
	if locale == "" {
		locale = deps.Translator.DefaultLocale()
	}
	return &ChatAuditService{
		chats:      deps.ChatRepo,
		dispatcher: deps.Dispatcher,
		tr:         deps.Translator,
		locale:     locale,
		logger:     nopIfNil(deps.Logger),
	}
}

// ChatRoomView is a room together with its owner.
type ChatRoomView struct {
	domain.ChatRoom
	Owner *domain.ChatParticipant `json:"owner,omitempty"`
}

// ChatRoomsResult lists rooms plus the participants available as filters.
type ChatRoomsResult struct {
	Rooms        []ChatRoomView           `json:"rooms"`
	Participants []domain.ChatParticipant `json:"participants"`
}

// Rooms filters rooms by title, owner, type, owner role and last activity.
func (s *ChatAuditService) Rooms(ctx context.Context, c query.Criteria) (*ChatRoomsResult, error) {
	people, err := s.chats.Participants(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.chats.Rooms(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.ChatParticipant, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}
	views := make([]ChatRoomView, len(rooms))
	for i, r := range rooms {
		views[i] = ChatRoomView{ChatRoom: r}
		if p, ok := byID[r.UserID]; ok {
			views[i].Owner = &p
		}
	}

	return &ChatRoomsResult{
		Rooms:        query.Filter(views, chatRoomSchema, c),
		Participants: people,
	}, nil
}

var chatRoomSchema = query.Schema[ChatRoomView]{
	ID: func(v ChatRoomView) string { return v.ID },
	Field: func(v ChatRoomView, field string) (string, bool) {
		switch field {
		case "id":
			return v.ID, true
		case "title":
			return v.Title, true
		case ChatFieldUser:
			return v.UserID, true
		case ChatFieldType:
			return v.Type, true
		case ChatFieldRole:
			if v.Owner == nil {
				return "", false
			}
			return string(v.Owner.Role), true
		case "lastActivity":
			return v.LastActivity.Format(time.RFC3339Nano), true
		}
		return "", false
	},
	Searchable: []string{"title"},
	DateField:  "lastActivity",
}

// ChatMessageView is a stored message with its decoded content.
type ChatMessageView struct {
	domain.ChatMessage
	Parsed domain.MessageContent `json:"parsed"`
}

// ChatTranscript is the detail pane of the audit view.
type ChatTranscript struct {
	Room     ChatRoomView      `json:"room"`
	Messages []ChatMessageView `json:"messages"`
}

// Messages returns a room's messages in time order and records the view.
func (s *ChatAuditService) Messages(ctx context.Context, roomID string) (*ChatTranscript, error) {
	room, err := s.chats.Room(ctx, roomID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFoundMessage(s.tr.T(s.locale, "chat.roomNotFound", i18n.Params{"id": roomID}), map[string]any{"id": roomID})
		}
		return nil, err
	}
	msgs, err := s.chats.Messages(ctx, roomID)
	if err != nil {
		return nil, err
	}

	out := &ChatTranscript{Room: ChatRoomView{ChatRoom: *room}, Messages: make([]ChatMessageView, len(msgs))}
	people, err := s.chats.Participants(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range people {
		if p.ID == room.UserID {
			owner := p
			out.Room.Owner = &owner
			break
		}
	}
	for i, m := range msgs {
		out.Messages[i] = ChatMessageView{ChatMessage: m, Parsed: m.ParseContent()}
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventChatRoomViewed,
		Payload: events.ChatRoomViewedPayload{ChatID: room.ID, Title: room.Title},
	})
	return out, nil
}
