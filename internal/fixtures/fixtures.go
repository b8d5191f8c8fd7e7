// Package fixtures generates the deterministic mock data the console starts with.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
)

var (
	ticketPrefixes = []string{
		"버그 수정", "기능 개선", "UI 업데이트", "성능 최적화", "보안 이슈",
		"데이터 마이그레이션", "API 통합", "문서화", "테스트 케이스", "리팩토링",
	}
	ticketComponents = []string{
		"로그인", "대시보드", "사용자 관리", "결제 시스템", "알림 센터",
		"검색 기능", "보고서 생성", "설정 페이지", "프로필", "통계",
	}
	estimates = []string{"2시간", "4시간", "1일", "2일", "3일", "1주"}

	pageRoutes  = []string{"/dashboard", "/users", "/audit", "/settings", "/profile", "/chat-rooms", "/analytics", "/reports"}
	settings    = []string{"알림 설정", "보안 설정", "표시 설정", "언어 설정"}
	bulkActions = []string{"삭제", "역할 변경", "상태 변경"}
	devices     = []string{"Desktop", "Mobile", "Tablet"}
	userAgents  = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	}
	roles = []domain.Role{domain.RoleAdmin, domain.RoleUser, domain.RoleManager}
)

// Generator produces mock records from a fixed seed so every run of the
// server starts from the same data.
type Generator struct {
	rng *rand.Rand
	tr  *i18n.Translator
	now time.Time
}

// New creates a generator. now anchors every generated date.
func New(seed int64, tr *i18n.Translator, now time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		tr:  tr,
		now: now,
	}
}

func pick[T any](g *Generator, items []T) T {
	return items[g.rng.IntN(len(items))]
}

func values(category domain.OptionCategory) []string {
	opts := domain.DefaultOptions[category]
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// Tickets returns count tickets with ids TICKET-0001 onwards.
func (g *Generator) Tickets(count int) []domain.Ticket {
	severities := values(domain.OptionSeverity)
	statuses := values(domain.OptionStatus)
	priorities := values(domain.OptionPriority)
	categories := values(domain.OptionCategoryKey)
	envs := values(domain.OptionEnvironment)
	assignees := domain.DefaultNames[domain.NamesAssignee]
	reporters := domain.DefaultNames[domain.NamesReporter]

	tickets := make([]domain.Ticket, 0, count)
	for i := 1; i <= count; i++ {
		due := g.now.AddDate(0, 0, g.rng.IntN(60)-15)
		tickets = append(tickets, domain.Ticket{
			ID:            fmt.Sprintf("TICKET-%04d", i),
			Name:          fmt.Sprintf("티켓 #%d - %s: %s", i, pick(g, ticketPrefixes), pick(g, ticketComponents)),
			Severity:      domain.Severity(pick(g, severities)),
			Status:        domain.TicketStatus(pick(g, statuses)),
			Assignee:      pick(g, assignees),
			Priority:      domain.TicketPriority(pick(g, priorities)),
			DueDate:       due.Format(domain.DueDateLayout),
			Category:      domain.TicketCategory(pick(g, categories)),
			Environment:   domain.Environment(pick(g, envs)),
			EstimatedTime: pick(g, estimates),
			Reporter:      pick(g, reporters),
		})
	}
	return tickets
}

// Users returns count admin-panel accounts. Every fifth is an admin and
// every third signs in through SSO. Password hashes are left empty.
func (g *Generator) Users(count int) []domain.User {
	users := make([]domain.User, 0, count)
	for i := 0; i < count; i++ {
		role, auth := domain.RoleUser, domain.AuthLocal
		if i%5 == 0 {
			role = domain.RoleAdmin
		}
		if i%3 == 0 {
			auth = domain.AuthSSO
		}
		created := g.now.Add(-time.Duration(g.rng.Int64N(int64(115 * 24 * time.Hour))))
		updated := g.now.Add(-time.Duration(g.rng.Int64N(int64(57 * 24 * time.Hour))))
		if updated.Before(created) {
			updated = created
		}
		users = append(users, domain.User{
			ID:        fmt.Sprintf("user-%d", i+1),
			Name:      fmt.Sprintf("사용자 %d", i+1),
			Email:     fmt.Sprintf("user%d@example.com", i+1),
			Role:      role,
			Auth:      auth,
			CreatedAt: created.UTC(),
			UpdatedAt: updated.UTC(),
		})
	}
	return users
}

func (g *Generator) ip() string {
	return fmt.Sprintf("%d.%d.%d.%d", g.rng.IntN(255), g.rng.IntN(255), g.rng.IntN(255), g.rng.IntN(255))
}

func (g *Generator) pastDate(maxDaysAgo int) time.Time {
	d := g.now.AddDate(0, 0, -g.rng.IntN(maxDaysAgo))
	y, m, day := d.Date()
	return time.Date(y, m, day, g.rng.IntN(24), g.rng.IntN(60), g.rng.IntN(60), 0, d.Location()).UTC()
}

func (g *Generator) sessionID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = alphabet[g.rng.IntN(len(alphabet))]
	}
	return "sess_" + string(b)
}

// ActivityLogs returns count audit entries spread over the last 30 days,
// newest first. Actors and target users are drawn from people.
func (g *Generator) ActivityLogs(count int, people []domain.ChatParticipant) []domain.ActivityLog {
	if len(people) == 0 {
		return nil
	}
	ko := i18n.Korean
	logs := make([]domain.ActivityLog, 0, count)
	for i := 0; i < count; i++ {
		actor := pick(g, people)
		action := pick(g, domain.ActivityTypes)
		entry := domain.ActivityLog{
			ID:       fmt.Sprintf("log-%d", i+1),
			UserID:   actor.ID,
			UserName: actor.Name,
			UserRole: actor.Role,
			Action:   action,
		}

		switch action {
		case domain.ActivityLogin:
			entry.Details = g.tr.T(ko, "activity.loginDetails", i18n.Params{"ip": g.ip()})
			entry.Changes = map[string]any{"session": map[string]any{
				"id":        g.sessionID(),
				"userAgent": pick(g, userAgents),
				"device":    pick(g, devices),
			}}
		case domain.ActivityLogout:
			entry.Details = g.tr.T(ko, "activity.logoutDetails", nil)
			entry.Changes = map[string]any{"session": map[string]any{
				"id":       g.sessionID(),
				"duration": fmt.Sprintf("%d분", g.rng.IntN(120)),
			}}
		case domain.ActivityUserCreate, domain.ActivityUserUpdate, domain.ActivityUserDelete, domain.ActivityPasswordReset:
			target := pick(g, people)
			entry.Target, entry.TargetType = target.ID, "user"
			entry.Details = g.tr.T(ko, "activity.targetUser", i18n.Params{"name": target.Name})
			entry.Changes = map[string]any{"user": map[string]any{
				"id":    target.ID,
				"name":  target.Name,
				"email": target.Email,
				"role":  string(target.Role),
			}}
		case domain.ActivityPageAccess:
			page := pick(g, pageRoutes)
			entry.Target, entry.TargetType = page, "page"
			entry.Details = g.tr.T(ko, "activity.pageAccess", i18n.Params{"page": page})
			entry.Changes = map[string]any{"pageAccess": map[string]any{
				"url":      page,
				"duration": fmt.Sprintf("%d초", g.rng.IntN(300)),
				"device":   pick(g, devices),
			}}
		case domain.ActivityChatView:
			chatID := fmt.Sprintf("chat-%d", g.rng.IntN(100))
			entry.Target, entry.TargetType = chatID, "chat"
			entry.Details = g.tr.T(ko, "activity.chatView", i18n.Params{"id": chatID})
			entry.Changes = map[string]any{"chatSession": map[string]any{
				"chatId":       chatID,
				"messageCount": g.rng.IntN(50),
			}}
		case domain.ActivitySettingsChange:
			setting := pick(g, settings)
			entry.Target, entry.TargetType = setting, "setting"
			entry.Details = g.tr.T(ko, "activity.settingsChange", i18n.Params{"setting": setting})
			before := g.rng.IntN(2) == 0
			entry.Changes = map[string]any{"settingsChange": map[string]any{
				"category": setting,
				"changes": map[string]any{
					"before": map[string]any{"notifications": before},
					"after":  map[string]any{"notifications": !before},
				},
			}}
		case domain.ActivityRoleChange:
			target := pick(g, people)
			role := pick(g, roles)
			entry.Target, entry.TargetType = target.ID, "user"
			entry.Details = g.tr.T(ko, "activity.roleChange", i18n.Params{"name": target.Name, "role": string(role)})
			entry.Changes = map[string]any{"roleChange": map[string]any{
				"userId":       target.ID,
				"userName":     target.Name,
				"previousRole": string(target.Role),
				"newRole":      string(role),
			}}
		case domain.ActivityBulkAction:
			action := pick(g, bulkActions)
			n := g.rng.IntN(20) + 1
			entry.Details = g.tr.T(ko, "activity.bulkAction", i18n.Params{"action": action, "count": n})
			entry.Changes = map[string]any{"bulkAction": map[string]any{
				"actionType":    action,
				"affectedCount": n,
			}}
		}

		entry.IPAddress = g.ip()
		entry.Timestamp = g.pastDate(30)
		logs = append(logs, entry)
	}

	sortNewestFirst(logs)
	return logs
}
