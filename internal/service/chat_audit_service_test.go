package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/query"
)

func roomIDs(res *ChatRoomsResult) []string {
	ids := make([]string, len(res.Rooms))
	for i, r := range res.Rooms {
		ids[i] = r.ID
	}
	return ids
}

func TestChatRoomsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	all, err := env.chats.Rooms(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Len(t, all.Rooms, 8)
	assert.Len(t, all.Participants, 4)
	require.NotNil(t, all.Rooms[0].Owner)
	assert.Equal(t, "김민준", all.Rooms[0].Owner.Name)

	cases := []struct {
		name string
		c    query.Criteria
		want []string
	}{
		{"title", query.Criteria{Text: "추천"}, []string{"chat-002", "chat-006", "chat-007"}},
		{"owner", query.Criteria{Sets: map[string][]string{ChatFieldUser: {"user-001"}}}, []string{"chat-001", "chat-004"}},
		{"type", query.Criteria{Sets: map[string][]string{ChatFieldType: {"전자상거래"}}}, []string{"chat-002", "chat-008"}},
		{"owner role", query.Criteria{Sets: map[string][]string{ChatFieldRole: {string(domain.RoleManager)}}}, []string{"chat-002", "chat-006"}},
		{"combined", query.Criteria{Text: "추천", Sets: map[string][]string{ChatFieldUser: {"user-003"}}}, []string{"chat-007"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := env.chats.Rooms(ctx, tc.c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, roomIDs(res))
		})
	}

	from := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	ranged, err := env.chats.Rooms(ctx, query.Criteria{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"chat-001", "chat-002", "chat-003"}, roomIDs(ranged))
}

func TestChatMessagesRecordsView(t *testing.T) {
	env := newTestEnv(t)
	ctx := adminCtx()

	tr, err := env.chats.Messages(ctx, "chat-002")
	require.NoError(t, err)
	assert.Equal(t, "제품 추천 상담", tr.Room.Title)
	require.NotNil(t, tr.Room.Owner)
	assert.Equal(t, "이지은", tr.Room.Owner.Name)
	require.NotEmpty(t, tr.Messages)
	for i := 1; i < len(tr.Messages); i++ {
		assert.False(t, tr.Messages[i].Timestamp.Before(tr.Messages[i-1].Timestamp))
	}
	kinds := map[string]bool{}
	for _, m := range tr.Messages {
		kinds[m.Parsed.Type] = true
	}
	assert.True(t, kinds["text"])
	assert.True(t, kinds["product_recommendation"])

	logs, err := env.logRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ActivityChatView, logs[0].Action)
	assert.Equal(t, "chat-002", logs[0].Target)

	_, err = env.chats.Messages(ctx, "chat-999")
	assert.Equal(t, "NOT_FOUND", errCode(err))
	assert.Contains(t, err.Error(), "chat-999")
}
