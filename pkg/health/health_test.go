package health

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestPostgresChecker(t *testing.T) {
	up := (&PostgresChecker{DB: fakePinger{}, Name: "postgres"}).Check(context.Background())
	assert.Equal(t, StatusUp, up.Status)
	assert.Contains(t, up.Details, "response_time")

	down := (&PostgresChecker{DB: fakePinger{err: errors.New("refused")}, Name: "postgres"}).Check(context.Background())
	assert.Equal(t, StatusDown, down.Status)
	assert.Equal(t, "refused", down.Details["error"])
	assert.Contains(t, down.Message, "Database connection failed")
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	check := (&RedisChecker{Client: rdb, Name: "redis"}).Check(context.Background())
	require.Equal(t, StatusUp, check.Status)
	assert.Equal(t, "PONG", check.Details["ping_response"])

	mr.Close()
	check = (&RedisChecker{Client: rdb, Name: "redis"}).Check(context.Background())
	assert.Equal(t, StatusDown, check.Status)
}

func TestTableChecker(t *testing.T) {
	n := 0
	optional := &TableChecker{Name: "overrides", Len: func() int { return n }}
	required := &TableChecker{Name: "airports", Len: func() int { return n }, Required: true}

	assert.Equal(t, StatusUp, optional.Check(context.Background()).Status)
	assert.Equal(t, StatusDown, required.Check(context.Background()).Status)

	n = 3
	check := required.Check(context.Background())
	assert.Equal(t, StatusUp, check.Status)
	assert.Equal(t, "3", check.Details["entries"])
}

func TestHealthChecker(t *testing.T) {
	h := NewHealthChecker("v1")
	h.AddChecker(&PostgresChecker{DB: fakePinger{}, Name: "postgres"})
	h.AddChecker(&TableChecker{Name: "overrides", Len: func() int { return 0 }})
	h.AddChecker(&TableChecker{Name: "airports", Len: func() int { return 0 }, Required: true})

	report := h.CheckHealth(context.Background())
	assert.Equal(t, StatusDown, report.Status)
	assert.Len(t, report.Checks, 3)
	assert.Equal(t, "v1", report.Version)

	ready := h.CheckReadiness(context.Background())
	assert.Len(t, ready.Checks, 2)
	assert.NotContains(t, ready.Checks, "overrides")

	live := h.CheckLiveness(context.Background())
	assert.Equal(t, StatusUp, live.Status)
}
