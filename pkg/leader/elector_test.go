package leader

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/aviator/pkg/logger"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestElector(client *redis.Client, ttl, renew time.Duration) *Elector {
	return New(client, "test:leader", ttl, renew, logger.New(logger.Config{Level: "error", Output: io.Discard}))
}

func TestElector_Acquire(t *testing.T) {
	mr, client := setupTestRedis(t)
	e := newTestElector(client, 30*time.Second, 10*time.Second)

	assert.True(t, e.acquire(context.Background()))
	val, err := mr.Get("test:leader")
	require.NoError(t, err)
	assert.Equal(t, e.InstanceID(), val)

	other := newTestElector(client, 30*time.Second, 10*time.Second)
	assert.False(t, other.acquire(context.Background()), "lock already held")
}

func TestElector_Renew(t *testing.T) {
	mr, client := setupTestRedis(t)
	e := newTestElector(client, 30*time.Second, 10*time.Second)

	mr.Set("test:leader", e.InstanceID())
	assert.True(t, e.renew(context.Background()))
	assert.Greater(t, mr.TTL("test:leader"), time.Duration(0))

	mr.Set("test:leader", "other-instance")
	assert.False(t, e.renew(context.Background()))
}

func TestElector_ReleaseOnlyOwnLock(t *testing.T) {
	mr, client := setupTestRedis(t)
	e := newTestElector(client, 30*time.Second, 10*time.Second)

	mr.Set("test:leader", "other-instance")
	e.release(context.Background())
	val, err := mr.Get("test:leader")
	require.NoError(t, err)
	assert.Equal(t, "other-instance", val)

	mr.Set("test:leader", e.InstanceID())
	e.release(context.Background())
	assert.False(t, mr.Exists("test:leader"))
}

func TestElector_StartAndLoseLeadership(t *testing.T) {
	mr, client := setupTestRedis(t)
	e := newTestElector(client, time.Second, 20*time.Millisecond)

	e.Start()
	require.Eventually(t, e.IsLeader, time.Second, 5*time.Millisecond)

	mr.Set("test:leader", "another-instance-took-over")
	require.Eventually(t, func() bool { return !e.IsLeader() }, time.Second, 5*time.Millisecond)

	e.Stop()
	val, err := mr.Get("test:leader")
	require.NoError(t, err)
	assert.Equal(t, "another-instance-took-over", val)
}

func TestElector_StopReleasesLock(t *testing.T) {
	mr, client := setupTestRedis(t)
	e := newTestElector(client, time.Second, 20*time.Millisecond)

	e.Start()
	require.Eventually(t, e.IsLeader, time.Second, 5*time.Millisecond)
	e.Stop()
	e.Stop()

	assert.False(t, e.IsLeader())
	assert.False(t, mr.Exists("test:leader"))
}
