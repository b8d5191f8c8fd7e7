package repository

import (
	"context"
	"sort"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// ChatRepository provides read access to stored conversations.
type ChatRepository interface {
	Participants(ctx context.Context) ([]domain.ChatParticipant, error)
	Rooms(ctx context.Context) ([]domain.ChatRoom, error)
	Room(ctx context.Context, id string) (*domain.ChatRoom, error)
	Messages(ctx context.Context, roomID string) ([]domain.ChatMessage, error)
}

type memoryChatRepository struct {
	participants []domain.ChatParticipant
	rooms        *MemoryStore[domain.ChatRoom]
	messages     map[string][]domain.ChatMessage
}

// NewMemoryChatRepository returns an in-memory implementation.
func NewMemoryChatRepository(participants []domain.ChatParticipant, rooms []domain.ChatRoom, messages []domain.ChatMessage) (ChatRepository, error) {
	store, err := NewMemoryStore(func(r domain.ChatRoom) string { return r.ID }, rooms...)
	if err != nil {
		return nil, err
	}
	byRoom := make(map[string][]domain.ChatMessage)
	for _, m := range messages {
		byRoom[m.ChatID] = append(byRoom[m.ChatID], m)
	}
	for id := range byRoom {
		msgs := byRoom[id]
		sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	}
	return &memoryChatRepository{
		participants: append([]domain.ChatParticipant(nil), participants...),
		rooms:        store,
		messages:     byRoom,
	}, nil
}

func (r *memoryChatRepository) Participants(_ context.Context) ([]domain.ChatParticipant, error) {
	return append([]domain.ChatParticipant(nil), r.participants...), nil
}

func (r *memoryChatRepository) Rooms(_ context.Context) ([]domain.ChatRoom, error) {
	return r.rooms.List(), nil
}

func (r *memoryChatRepository) Room(_ context.Context, id string) (*domain.ChatRoom, error) {
	room, err := r.rooms.Get(id)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *memoryChatRepository) Messages(_ context.Context, roomID string) ([]domain.ChatMessage, error) {
	if _, err := r.rooms.Get(roomID); err != nil {
		return nil, err
	}
	return append([]domain.ChatMessage(nil), r.messages[roomID]...), nil
}
