package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// ToolSearchLimit caps the tickets returned by the getTickets tool.
const ToolSearchLimit = 5

// TicketTools is the ticket surface the assistant may act on.
type TicketTools interface {
	SearchTickets(ctx context.Context, query string, limit int) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Ticket, error)
	Assign(ctx context.Context, id, assignee string) (*domain.Ticket, error)
}

func stringParam(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

var ticketTools = []llms.Tool{
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "getTickets",
			Description: "티켓 목록을 조회합니다. 선택적으로 검색어를 사용하여 필터링할 수 있습니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": stringParam("티켓 이름, ID, 상태 또는 위험도로 필터링하기 위한 검색어 (선택사항)"),
				},
				"required": []string{},
			},
		},
	},
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "getTicketById",
			Description: "특정 ID의 티켓 상세 정보를 조회합니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticketId": stringParam("조회할 티켓의 ID"),
				},
				"required": []string{"ticketId"},
			},
		},
	},
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "updateTicketStatus",
			Description: "티켓의 상태를 업데이트합니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticketId":  stringParam("업데이트할 티켓의 ID"),
					"newStatus": stringParam("새로운 상태 (대기중, 진행중, 검토중, 완료 중 하나)"),
				},
				"required": []string{"ticketId", "newStatus"},
			},
		},
	},
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "assignTicket",
			Description: "티켓에 담당자를 할당합니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ticketId": stringParam("할당할 티켓의 ID"),
					"assignee": stringParam("담당자 이름"),
				},
				"required": []string{"ticketId", "assignee"},
			},
		},
	},
}

type toolArgs struct {
	Query     string `json:"query"`
	TicketID  string `json:"ticketId"`
	NewStatus string `json:"newStatus"`
	Assignee  string `json:"assignee"`
}

type toolResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Action  string          `json:"action,omitempty"`
	Ticket  *domain.Ticket  `json:"ticket,omitempty"`
	Tickets []domain.Ticket `json:"tickets,omitempty"`
}

func (r toolResult) action() *Action {
	if !r.Success {
		return nil
	}
	switch r.Action {
	case ActionShowTickets:
		return &Action{Kind: ActionShowTickets, Tickets: r.Tickets}
	case ActionShowTicketDetail:
		return &Action{Kind: ActionShowTicketDetail, Ticket: r.Ticket}
	}
	return nil
}

func failure(err error) toolResult {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return toolResult{Message: de.Message}
	}
	return toolResult{Message: err.Error()}
}

// runTool executes one tool call. Failures are reported to the model as an
// unsuccessful result instead of aborting the conversation.
func (a *LLMAssistant) runTool(ctx context.Context, name, arguments string) toolResult {
	var args toolArgs
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return toolResult{Message: fmt.Sprintf("invalid arguments for %s: %v", name, err)}
		}
	}

	switch name {
	case "getTickets":
		tickets, err := a.tools.SearchTickets(ctx, args.Query, ToolSearchLimit)
		if err != nil {
			return failure(err)
		}
		return toolResult{Success: true, Action: ActionShowTickets, Tickets: tickets}
	case "getTicketById":
		ticket, err := a.tools.GetTicket(ctx, args.TicketID)
		if err != nil {
			return failure(err)
		}
		return toolResult{Success: true, Action: ActionShowTicketDetail, Ticket: ticket}
	case "updateTicketStatus":
		ticket, err := a.tools.UpdateStatus(ctx, args.TicketID, args.NewStatus)
		if err != nil {
			return failure(err)
		}
		return toolResult{
			Success: true,
			Ticket:  ticket,
			Message: a.tr.T(a.locale, "tickets.statusUpdated", i18n.Params{"id": ticket.ID, "status": string(ticket.Status)}),
		}
	case "assignTicket":
		ticket, err := a.tools.Assign(ctx, args.TicketID, args.Assignee)
		if err != nil {
			return failure(err)
		}
		return toolResult{
			Success: true,
			Ticket:  ticket,
			Message: a.tr.T(a.locale, "tickets.assigned", i18n.Params{"id": ticket.ID, "assignee": ticket.Assignee}),
		}
	}
	return toolResult{Message: fmt.Sprintf("unknown tool %q", name)}
}
