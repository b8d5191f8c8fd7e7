package fixtures

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// ChatParticipants are the four people whose conversations are audited.
func ChatParticipants() []domain.ChatParticipant {
	return []domain.ChatParticipant{
		{ID: "user-001", Name: "김민준", Email: "minjun.kim@example.com", Avatar: "MK", Role: domain.RoleAdmin},
		{ID: "user-002", Name: "이지은", Email: "jieun.lee@example.com", Avatar: "JL", Role: domain.RoleManager},
		{ID: "user-003", Name: "박서준", Email: "seojun.park@example.com", Avatar: "SP", Role: domain.RoleUser},
		{ID: "user-004", Name: "최수아", Email: "sua.choi@example.com", Avatar: "SC", Role: domain.RoleUser},
	}
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// ChatRooms lists the audited conversations.
func ChatRooms() []domain.ChatRoom {
	return []domain.ChatRoom{
		{ID: "chat-001", Title: "날씨 문의 대화", LastActivity: at("2025-05-10T15:30:00Z"), MessageCount: 8, UserID: "user-001", Type: "생활정보"},
		{ID: "chat-002", Title: "제품 추천 상담", LastActivity: at("2025-05-11T09:45:00Z"), MessageCount: 12, UserID: "user-002", Type: "전자상거래"},
		{ID: "chat-003", Title: "기술 지원 문의", LastActivity: at("2025-05-11T14:20:00Z"), MessageCount: 15, UserID: "user-003", Type: "IT/기술"},
		{ID: "chat-004", Title: "계정 설정 도움", LastActivity: at("2025-05-09T11:15:00Z"), MessageCount: 6, UserID: "user-001", Type: "IT/기술"},
		{ID: "chat-005", Title: "여행 계획 상담", LastActivity: at("2025-05-08T16:40:00Z"), MessageCount: 20, UserID: "user-004", Type: "여행"},
		{ID: "chat-006", Title: "식단 추천 문의", LastActivity: at("2025-05-07T13:25:00Z"), MessageCount: 9, UserID: "user-002", Type: "헬스케어"},
		{ID: "chat-007", Title: "영화 추천 대화", LastActivity: at("2025-05-06T19:10:00Z"), MessageCount: 14, UserID: "user-003", Type: "엔터테인먼트"},
		{ID: "chat-008", Title: "쇼핑 도움 요청", LastActivity: at("2025-05-05T10:50:00Z"), MessageCount: 7, UserID: "user-004", Type: "전자상거래"},
	}
}

type script struct {
	chatID string
	start  string
	lines  []scriptLine
}

type scriptLine struct {
	kind string
	body any
}

func text(s string) scriptLine { return scriptLine{kind: "text", body: s} }

var scripts = []script{
	{chatID: "chat-001", start: "2025-05-10T15:30:00Z", lines: []scriptLine{
		text("오늘 서울 날씨는 어때요?"),
		text("서울의 현재 날씨는 맑고 기온은 22°C입니다. 오후에는 약간의 구름이 끼고 최고 기온은 25°C로 예상됩니다."),
		text("내일은 비가 올까요?"),
		text("내일 서울에는 오전에 가벼운 비가 내릴 확률이 60%입니다. 오후에는 맑아질 것으로 예상됩니다."),
		text("우산을 가져가야 할까요?"),
		text("네, 내일 오전에 비가 예상되므로 우산을 가져가시는 것이 좋겠습니다."),
		text("이번 주말 날씨는 어떨까요?"),
		text("이번 주말은 토요일에는 맑고 기온은 23-27°C, 일요일에는 구름이 많고 기온은 21-25°C로 예상됩니다. 야외 활동하기 좋은 날씨가 될 것 같습니다."),
	}},
	{chatID: "chat-002", start: "2025-05-11T09:45:00Z", lines: []scriptLine{
		text("노트북을 새로 구매하려고 하는데 추천해주세요."),
		text("노트북 추천을 위해 몇 가지 정보가 필요합니다. 주로 어떤 용도로 사용하실 계획인가요? (업무, 게임, 디자인 등) 그리고 예산 범위는 어떻게 되나요?"),
		text("주로 프로그래밍과 가끔 영상 편집에 사용할 예정이에요. 예산은 200만원 정도로 생각하고 있어요."),
		{kind: "product_recommendation", body: []map[string]string{
			{"name": "MacBook Pro 14인치", "price": "2,190,000원", "specs": "M2 Pro, 16GB RAM, 512GB SSD"},
			{"name": "Dell XPS 15", "price": "1,890,000원", "specs": "Intel i7, 16GB RAM, 512GB SSD, RTX 3050"},
			{"name": "ASUS ProArt StudioBook 16", "price": "2,050,000원", "specs": "AMD Ryzen 9, 32GB RAM, 1TB SSD, RTX 3070"},
		}},
		text("Dell XPS 15에 대해 더 자세히 알려주세요."),
		{kind: "product_detail", body: map[string]any{
			"name":  "Dell XPS 15",
			"model": "9520",
			"price": "1,890,000원",
			"specs": map[string]string{"processor": "Intel Core i7-12700H", "ram": "16GB DDR5", "storage": "512GB PCIe NVMe SSD"},
		}},
	}},
	{chatID: "chat-003", start: "2025-05-11T14:20:00Z", lines: []scriptLine{
		text("앱이 자꾸 충돌하는데 어떻게 해결할 수 있을까요?"),
		text("불편을 드려 죄송합니다. 사용 중인 기기와 운영체제 버전, 문제가 발생하는 앱을 알려주시면 확인해 드리겠습니다."),
		text("iPhone 13 Pro에서 iOS 16.5를 사용 중이고, 귀사의 쇼핑 앱에서 문제가 발생합니다."),
		text("앱을 최신 버전으로 업데이트한 뒤 기기를 재시동해 보세요. 문제가 계속되면 앱을 삭제 후 다시 설치해 주세요."),
	}},
}

// ChatMessages returns the stored transcript of every scripted room. Users
// and the assistant alternate, thirty seconds apart.
func ChatMessages() []domain.ChatMessage {
	var out []domain.ChatMessage
	for _, s := range scripts {
		start := at(s.start)
		for i, line := range s.lines {
			role := domain.ChatRoleUser
			if i%2 == 1 {
				role = domain.ChatRoleAI
			}
			out = append(out, domain.ChatMessage{
				ChatID:    s.chatID,
				MessageID: fmt.Sprintf("msg-%s-%d", s.chatID[len("chat-"):], i+1),
				Role:      role,
				Content:   encode(line),
				Timestamp: start.Add(time.Duration(i) * 30 * time.Second),
			})
		}
	}
	return out
}

// encode stores structured bodies as a JSON string inside the envelope,
// the same shape the chat client persists.
func encode(line scriptLine) string {
	body := line.body
	if line.kind != "text" {
		raw, err := json.Marshal(line.body)
		if err != nil {
			panic(err)
		}
		body = string(raw)
	}
	raw, err := json.Marshal(map[string]any{"type": line.kind, "content": body})
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func sortNewestFirst(logs []domain.ActivityLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}
