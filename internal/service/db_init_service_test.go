package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/options"
	"github.com/opsdesk/ticket-admin/internal/persistence"
)

type fakeExec struct {
	statements []string
	failOn     string
}

func (f *fakeExec) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("permission denied")
	}
	f.statements = append(f.statements, sql)
	return pgconn.NewCommandTag("INSERT 0 3"), nil
}

func TestDBInitWithoutDatabase(t *testing.T) {
	svc := NewDBInitService(DBInitDependencies{Translator: i18n.MustNew(i18n.Korean)})

	res := svc.CreateTables(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "데이터베이스가 설정되지 않았습니다.", res.Message)
	assert.False(t, svc.Seed(context.Background()).Success)
}

func TestDBInitCreatesSeedsAndInvalidatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	opts := options.NewService(options.Dependencies{Cache: rdb, TTL: time.Minute})
	require.NoError(t, mr.Set("options:priority", `[{"value":"x","label":"x"}]`))

	db := &fakeExec{}
	svc := NewDBInitService(DBInitDependencies{
		DB:         db,
		Options:    opts,
		Tickets:    []domain.Ticket{{ID: "TICKET-0001", Name: "a"}},
		Translator: i18n.MustNew(i18n.Korean),
	})

	res := svc.Init(context.Background())
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "데이터베이스에 초기 데이터가 입력되었습니다.", res.Message)

	seeds := len(persistence.DefaultSeeds()) + 1
	assert.Len(t, db.statements, len(persistence.DefaultTables())+seeds)
	assert.EqualValues(t, 3*seeds, res.Inserted)
	assert.False(t, mr.Exists("options:priority"))
}

func TestDBInitReportsFailures(t *testing.T) {
	tr := i18n.MustNew(i18n.Korean)

	res := NewDBInitService(DBInitDependencies{DB: &fakeExec{failOn: "CREATE TABLE"}, Translator: tr}).Init(context.Background())
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "테이블 생성 중 오류가 발생했습니다")
	assert.Contains(t, res.Message, "permission denied")

	res = NewDBInitService(DBInitDependencies{DB: &fakeExec{failOn: "INSERT"}, Translator: tr}).Seed(context.Background())
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "초기 데이터 입력 중 오류가 발생했습니다")
}
