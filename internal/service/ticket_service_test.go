package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/ticket-admin/internal/bulkedit"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/query"
)

func TestTicketListFiltersAndPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	all, err := env.tickets.List(ctx, TicketListInput{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 50, all.Page.TotalItems)
	assert.Equal(t, 5, all.Page.TotalPages)
	assert.Len(t, all.Page.Items, 10)
	assert.Equal(t, 1, all.Pager.State.CurrentPage)

	third, err := env.tickets.List(ctx, TicketListInput{Previous: all.Pager, Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, third.Page.CurrentPage)
	assert.Equal(t, "TICKET-0021", third.Page.Items[0].ID)

	crit := query.Criteria{Sets: map[string][]string{domain.FieldStatus: {"완료"}}}
	filtered, err := env.tickets.List(ctx, TicketListInput{Criteria: crit, Previous: third.Pager, Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Page.CurrentPage, "changing the filter returns to page 1")
	for _, tk := range filtered.Page.Items {
		assert.Equal(t, domain.TicketStatus("완료"), tk.Status)
	}
}

func TestTicketListPrunesSelection(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.tickets.List(context.Background(), TicketListInput{
		PageSize: 10,
		Selected: []string{"TICKET-0001", "TICKET-0042"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"TICKET-0001"}, res.Selected)
}

func TestTicketSearchIsCapped(t *testing.T) {
	env := newTestEnv(t)
	found, err := env.tickets.Search(context.Background(), "TICKET")
	require.NoError(t, err)
	assert.Len(t, found, SearchLimit)

	one, err := env.tickets.Search(context.Background(), "ticket-0007")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "TICKET-0007", one[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := adminCtx()

	_, err := env.tickets.UpdateStatus(ctx, "TICKET-0001", "보류")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errCode(err))
	assert.Contains(t, err.Error(), "대기중, 진행중, 검토중, 완료")

	tk, err := env.tickets.UpdateStatus(ctx, "TICKET-0001", "검토중")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatus("검토중"), tk.Status)

	updates := env.eventsOf(events.EventTicketUpdated)
	require.Len(t, updates, 1)
	p := updates[0].Payload.(events.TicketUpdatedPayload)
	assert.Equal(t, events.SourceSingle, p.Source)
	assert.Equal(t, map[string]string{"status": "검토중"}, p.Changes)
	assert.Equal(t, "admin-1", updates[0].Actor.UserID)

	_, err = env.tickets.UpdateStatus(ctx, "TICKET-9999", "완료")
	assert.Equal(t, "NOT_FOUND", errCode(err))
	assert.Contains(t, err.Error(), "TICKET-9999")
}

func TestAssign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tickets.Assign(ctx, "TICKET-0002", "  ")
	assert.Equal(t, "VALIDATION_FAILED", errCode(err))

	tk, err := env.tickets.Assign(ctx, "TICKET-0002", "이영희")
	require.NoError(t, err)
	assert.Equal(t, "이영희", tk.Assignee)
	stored, err := env.tickets.Get(ctx, "TICKET-0002")
	require.NoError(t, err)
	assert.Equal(t, "이영희", stored.Assignee)
}

func TestApplyValidatesEveryChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	before, err := env.tickets.Get(ctx, "TICKET-0003")
	require.NoError(t, err)

	cases := []struct {
		name    string
		changes bulkedit.ChangeSet
	}{
		{"unknown option", bulkedit.ChangeSet{{Field: domain.FieldPriority, Value: "아주높음"}}},
		{"bad date", bulkedit.ChangeSet{{Field: domain.FieldDueDate, Value: "2025/01/01"}}},
		{"id is read only", bulkedit.ChangeSet{{Field: domain.FieldID, Value: "X"}}},
		{"unknown field", bulkedit.ChangeSet{{Field: "color", Value: "red"}}},
		{"one bad value rejects all", bulkedit.ChangeSet{
			{Field: domain.FieldName, Value: "새 이름"},
			{Field: domain.FieldSeverity, Value: "치명"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := env.tickets.Apply(ctx, "TICKET-0003", tc.changes)
			assert.Equal(t, "VALIDATION_FAILED", errCode(err))
		})
	}

	after, err := env.tickets.Get(ctx, "TICKET-0003")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, env.eventsOf(events.EventTicketUpdated))

	require.NoError(t, env.tickets.Apply(ctx, "TICKET-0003", bulkedit.ChangeSet{
		{Field: domain.FieldDueDate, Value: "2025-06-30"},
		{Field: domain.FieldEstimatedTime, Value: "3일"},
	}))
	updates := env.eventsOf(events.EventTicketUpdated)
	require.Len(t, updates, 1)
	assert.Equal(t, events.SourceBulk, updates[0].Payload.(events.TicketUpdatedPayload).Source)
}
