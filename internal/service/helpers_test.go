package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opsdesk/ticket-admin/internal/events"
	"github.com/opsdesk/ticket-admin/internal/fixtures"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/observability"
	"github.com/opsdesk/ticket-admin/internal/options"
	"github.com/opsdesk/ticket-admin/internal/repository"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

var testNow = time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	tr         *i18n.Translator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	published  []events.Event

	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
	logRepo    repository.ActivityLogRepository
	chatRepo   repository.ChatRepository

	tickets  *TicketService
	bulk     *BulkEditService
	users    *UserService
	logs     *ActivityLogService
	chats    *ChatAuditService
	recorder *ActivityRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tr := i18n.MustNew(i18n.Korean)
	gen := fixtures.New(42, tr, testNow)
	people := fixtures.ChatParticipants()

	ticketRepo, err := repository.NewMemoryTicketRepository(gen.Tickets(50))
	require.NoError(t, err)
	userRepo, err := repository.NewMemoryUserRepository(gen.Users(50))
	require.NoError(t, err)
	logRepo, err := repository.NewMemoryActivityLogRepository(nil)
	require.NoError(t, err)
	chatRepo, err := repository.NewMemoryChatRepository(people, fixtures.ChatRooms(), fixtures.ChatMessages())
	require.NoError(t, err)

	env := &testEnv{
		tr:         tr,
		dispatcher: events.NewInMemoryDispatcher(),
		metrics:    observability.NewMetrics(),
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		logRepo:    logRepo,
		chatRepo:   chatRepo,
	}
	env.dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		env.published = append(env.published, e)
		return nil
	})

	clock := func() time.Time { return testNow }
	env.tickets = NewTicketService(TicketDependencies{
		TicketRepo: ticketRepo,
		Options:    options.NewService(options.Dependencies{}),
		Dispatcher: env.dispatcher,
		Translator: tr,
	})
	env.bulk = NewBulkEditService(BulkEditDependencies{
		Store:      env.tickets,
		Dispatcher: env.dispatcher,
		Metrics:    env.metrics,
		Translator: tr,
		Clock:      clock,
	})
	env.users = NewUserService(UserDependencies{
		UserRepo:   userRepo,
		Dispatcher: env.dispatcher,
		Translator: tr,
		BcryptCost: bcrypt.MinCost,
		Clock:      clock,
	})
	env.logs = NewActivityLogService(ActivityLogDependencies{
		LogRepo:    logRepo,
		Translator: tr,
		Location:   time.UTC,
		Clock:      clock,
	})
	env.chats = NewChatAuditService(ChatAuditDependencies{
		ChatRepo:   chatRepo,
		Dispatcher: env.dispatcher,
		Translator: tr,
	})
	env.recorder = NewActivityRecorder(ActivityRecorderDependencies{
		Dispatcher: env.dispatcher,
		LogRepo:    logRepo,
		Translator: tr,
	})
	env.recorder.RegisterHandlers()
	return env
}

func (e *testEnv) eventsOf(et events.EventType) []events.Event {
	var out []events.Event
	for _, ev := range e.published {
		if ev.Type == et {
			out = append(out, ev)
		}
	}
	return out
}

func adminCtx() context.Context {
	return events.WithActor(context.Background(), events.Actor{UserID: "admin-1", Name: "관리자", Role: "admin", IPAddress: "10.0.0.1"})
}

func errCode(err error) string {
	if de := apperrors.ToDomainError(err); de != nil {
		return de.Code
	}
	return ""
}
