// Package chat implements the ticket assistant behind the console chat pane.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
)

// Message roles accepted in a chat history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Action kinds the console reacts to.
const (
	ActionShowTickets      = "showTickets"
	ActionShowTicketDetail = "showTicketDetail"
)

var (
	// ErrEmptyHistory is returned when there is nothing to answer.
	ErrEmptyHistory = errors.New("chat history is empty")
	// ErrToolLoop is returned when the model keeps calling tools past the round limit.
	ErrToolLoop = errors.New("assistant exceeded tool call rounds")
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Action tells the console to show tickets next to the reply.
type Action struct {
	Kind    string          `json:"kind"`
	Tickets []domain.Ticket `json:"tickets,omitempty"`
	Ticket  *domain.Ticket  `json:"ticket,omitempty"`
}

// Reply is the assistant's full answer.
type Reply struct {
	Text   string  `json:"text"`
	Action *Action `json:"action,omitempty"`
}

// Assistant answers a conversation. onChunk, when non-nil, receives the
// reply text as it is produced.
type Assistant interface {
	SendMessage(ctx context.Context, history []Message, onChunk func(string)) (Reply, error)
}

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// ExtractAction reads the last fenced json block of a reply. Replies without
// a block, or with a block that is not a ticket payload, yield nil.
func ExtractAction(text string) *Action {
	blocks := fencedJSON.FindAllStringSubmatch(text, -1)
	if len(blocks) == 0 {
		return nil
	}
	raw := strings.TrimSpace(blocks[len(blocks)-1][1])

	var payload struct {
		Tickets []domain.Ticket `json:"tickets"`
		Ticket  *domain.Ticket  `json:"ticket"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	switch {
	case payload.Ticket != nil:
		return &Action{Kind: ActionShowTicketDetail, Ticket: payload.Ticket}
	case payload.Tickets != nil:
		return &Action{Kind: ActionShowTickets, Tickets: payload.Tickets}
	}
	return nil
}

// CannedAssistant acknowledges every message. It stands in when no model
// provider is configured.
type CannedAssistant struct {
	tr     *i18n.Translator
	locale string
}

// NewCannedAssistant builds the fallback assistant.
func NewCannedAssistant(tr *i18n.Translator, locale string) *CannedAssistant {
	return &CannedAssistant{tr: tr, locale: locale}
}

// SendMessage returns the acknowledgement text.
func (a *CannedAssistant) SendMessage(_ context.Context, history []Message, onChunk func(string)) (Reply, error) {
	if len(history) == 0 {
		return Reply{}, ErrEmptyHistory
	}
	text := a.tr.T(a.locale, "chat.ack", nil)
	if onChunk != nil {
		onChunk(text)
	}
	return Reply{Text: text}, nil
}
