package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/opsdesk/ticket-admin/internal/config"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls = append(m.calls, messages)
	if len(m.responses) == 0 {
		return nil, errors.New("no scripted response")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	if opts.StreamingFunc != nil && resp.Choices[0].Content != "" {
		for _, word := range strings.SplitAfter(resp.Choices[0].Content, " ") {
			if err := opts.StreamingFunc(ctx, []byte(word)); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func text(s string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s}}}
}

func toolCall(id, name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:           id,
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: name, Arguments: args},
		}},
	}}}
}

type fakeTools struct {
	tickets map[string]*domain.Ticket
}

func newFakeTools() *fakeTools {
	return &fakeTools{tickets: map[string]*domain.Ticket{
		"TICKET-0001": {ID: "TICKET-0001", Name: "로그인 버그", Status: domain.TicketStatusWaiting, Assignee: "김철수"},
		"TICKET-0002": {ID: "TICKET-0002", Name: "대시보드 개선", Status: domain.TicketStatusInProgress, Assignee: "이영희"},
	}}
}

func (f *fakeTools) SearchTickets(_ context.Context, query string, limit int) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, id := range []string{"TICKET-0001", "TICKET-0002"} {
		t := f.tickets[id]
		if query == "" || strings.Contains(t.Name, query) {
			out = append(out, *t)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTools) GetTicket(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, apperrors.NewNotFoundMessage("티켓 "+id+"를 찾을 수 없습니다.", nil)
	}
	return t, nil
}

func (f *fakeTools) UpdateStatus(ctx context.Context, id, status string) (*domain.Ticket, error) {
	t, err := f.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TicketStatus(status)
	return t, nil
}

func (f *fakeTools) Assign(ctx context.Context, id, assignee string) (*domain.Ticket, error) {
	t, err := f.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Assignee = assignee
	return t, nil
}

func newAssistant(model llms.Model, tools TicketTools) *LLMAssistant {
	return NewLLMAssistant(LLMDependencies{
		Model:      model,
		Tools:      tools,
		Translator: i18n.MustNew(i18n.Korean),
		Config:     config.LLMConfig{MaxToolRounds: 3},
	})
}

func TestExtractAction(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind string
	}{
		{"no block", "안녕하세요", ""},
		{"tickets", "목록입니다\n```json\n{\"tickets\":[{\"id\":\"TICKET-0001\"}]}\n```", ActionShowTickets},
		{"single ticket", "```json\n{\"ticket\":{\"id\":\"TICKET-0002\"}}\n```", ActionShowTicketDetail},
		{"malformed", "```json\n{\"tickets\": [\n```", ""},
		{"unrelated json", "```json\n{\"foo\":1}\n```", ""},
		{"last block wins", "```json\n{\"tickets\":[]}\n```\n그리고\n```json\n{\"ticket\":{\"id\":\"TICKET-0003\"}}\n```", ActionShowTicketDetail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := ExtractAction(tt.text)
			if tt.kind == "" {
				assert.Nil(t, act)
				return
			}
			require.NotNil(t, act)
			assert.Equal(t, tt.kind, act.Kind)
		})
	}
}

func TestCannedAssistant(t *testing.T) {
	a := NewCannedAssistant(i18n.MustNew(i18n.Korean), i18n.Korean)
	var streamed string
	reply, err := a.SendMessage(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, func(s string) { streamed += s })
	require.NoError(t, err)
	assert.Equal(t, "메시지를 받았습니다. 확인 후 답변 드리겠습니다.", reply.Text)
	assert.Equal(t, reply.Text, streamed)

	_, err = a.SendMessage(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestLLMAssistantPlainReplyStreams(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{text("티켓 관리에 대해 물어보세요.")}}
	var chunks []string
	reply, err := newAssistant(model, newFakeTools()).SendMessage(context.Background(),
		[]Message{{Role: RoleUser, Content: "안녕"}}, func(s string) { chunks = append(chunks, s) })
	require.NoError(t, err)

	assert.Equal(t, "티켓 관리에 대해 물어보세요.", reply.Text)
	assert.Equal(t, reply.Text, strings.Join(chunks, ""))
	assert.Nil(t, reply.Action)

	require.Len(t, model.calls, 1)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.calls[0][0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.calls[0][1].Role)
}

func TestLLMAssistantRunsToolsAndReportsAction(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCall("call-1", "getTickets", `{"query":"로그인"}`),
		text("로그인 관련 티켓 1건을 찾았습니다."),
	}}
	reply, err := newAssistant(model, newFakeTools()).SendMessage(context.Background(),
		[]Message{{Role: RoleUser, Content: "로그인 티켓 보여줘"}}, nil)
	require.NoError(t, err)

	require.NotNil(t, reply.Action)
	assert.Equal(t, ActionShowTickets, reply.Action.Kind)
	require.Len(t, reply.Action.Tickets, 1)
	assert.Equal(t, "TICKET-0001", reply.Action.Tickets[0].ID)

	require.Len(t, model.calls, 2)
	second := model.calls[1]
	toolMsg := second[len(second)-1]
	assert.Equal(t, llms.ChatMessageTypeTool, toolMsg.Role)
	resp, ok := toolMsg.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call-1", resp.ToolCallID)
	assert.Contains(t, resp.Content, `"success":true`)
}

func TestLLMAssistantToolFailureIsReportedToModel(t *testing.T) {
	tools := newFakeTools()
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCall("call-1", "updateTicketStatus", `{"ticketId":"TICKET-9999","newStatus":"완료"}`),
		text("해당 티켓을 찾을 수 없습니다."),
	}}
	reply, err := newAssistant(model, tools).SendMessage(context.Background(),
		[]Message{{Role: RoleUser, Content: "TICKET-9999 완료 처리"}}, nil)
	require.NoError(t, err)
	assert.Nil(t, reply.Action)

	second := model.calls[1]
	resp := second[len(second)-1].Parts[0].(llms.ToolCallResponse)
	assert.Contains(t, resp.Content, `"success":false`)
	assert.Contains(t, resp.Content, "TICKET-9999")
}

func TestLLMAssistantAssignUpdatesTicket(t *testing.T) {
	tools := newFakeTools()
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCall("call-1", "assignTicket", `{"ticketId":"TICKET-0002","assignee":"박지민"}`),
		text("할당했습니다.\n```json\n{\"ticket\":{\"id\":\"TICKET-0002\",\"assignee\":\"박지민\"}}\n```"),
	}}
	reply, err := newAssistant(model, tools).SendMessage(context.Background(),
		[]Message{{Role: RoleUser, Content: "TICKET-0002를 박지민에게"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "박지민", tools.tickets["TICKET-0002"].Assignee)
	require.NotNil(t, reply.Action)
	assert.Equal(t, ActionShowTicketDetail, reply.Action.Kind)
}

func TestLLMAssistantStopsAfterMaxRounds(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCall("a", "getTickets", `{}`),
		toolCall("b", "getTickets", `{}`),
		toolCall("c", "getTickets", `{}`),
		text("unreachable"),
	}}
	_, err := newAssistant(model, newFakeTools()).SendMessage(context.Background(),
		[]Message{{Role: RoleUser, Content: "loop"}}, nil)
	assert.ErrorIs(t, err, ErrToolLoop)
	assert.Len(t, model.calls, 3)
}

func TestNewModelRequiresKeys(t *testing.T) {
	_, err := NewModel(config.LLMConfig{Provider: config.ProviderOpenAI})
	assert.Error(t, err)
	_, err = NewModel(config.LLMConfig{Provider: config.ProviderAnthropic})
	assert.Error(t, err)
	_, err = NewModel(config.LLMConfig{Provider: "mystery"})
	assert.Error(t, err)
}
