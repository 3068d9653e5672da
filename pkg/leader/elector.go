// Package leader elects one replica through a Redis lock. The overrides
// refresher uses it so that only the leader downloads the shared sheet while
// the other replicas read the copy it publishes.
package leader

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gilby125/aviator/pkg/logger"
)

// Elector holds or contends for a Redis lock.
type Elector struct {
	client        *redis.Client
	key           string
	ttl           time.Duration
	renewInterval time.Duration
	id            string
	log           *logger.Logger

	isLeader atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates an elector for key. The lock expires after ttl unless renewed
// every renewInterval.
func New(client *redis.Client, key string, ttl, renewInterval time.Duration, log *logger.Logger) *Elector {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "aviator"
	}
	if log == nil {
		log = logger.Default()
	}
	return &Elector{
		client:        client,
		key:           key,
		ttl:           ttl,
		renewInterval: renewInterval,
		id:            fmt.Sprintf("%s-%d", hostname, time.Now().UnixNano()),
		log:           log,
		stop:          make(chan struct{}),
	}
}

// Start tries to take the lock before returning, then again on every
// renewInterval.
func (e *Elector) Start() {
	e.tick()
	e.wg.Add(1)
	go e.loop()
	e.log.Info("Leader election started", "instance", e.id, "key", e.key, "ttl", e.ttl)
}

// Stop ends the loop and releases the lock if held.
func (e *Elector) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
	e.wg.Wait()

	if e.isLeader.Swap(false) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		e.release(ctx)
	}
}

// IsLeader reports whether this instance holds the lock.
func (e *Elector) IsLeader() bool {
	return e.isLeader.Load()
}

// InstanceID returns the value written to the lock key.
func (e *Elector) InstanceID() string {
	return e.id
}

func (e *Elector) loop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.renewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Elector) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if e.isLeader.Load() {
		if !e.renew(ctx) {
			e.isLeader.Store(false)
			e.log.Warn("Lost leadership", "instance", e.id)
		}
		return
	}
	if e.acquire(ctx) {
		e.isLeader.Store(true)
		e.log.Info("Acquired leadership", "instance", e.id)
	}
}

func (e *Elector) acquire(ctx context.Context) bool {
	ok, err := e.client.SetNX(ctx, e.key, e.id, e.ttl).Result()
	if err != nil {
		e.log.Error(err, "Leader lock acquire failed")
		return false
	}
	return ok
}

// Renew and release only touch the lock while this instance owns it.
var renewScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

func (e *Elector) renew(ctx context.Context) bool {
	n, err := renewScript.Run(ctx, e.client, []string{e.key}, e.id, e.ttl.Milliseconds()).Int()
	if err != nil {
		e.log.Error(err, "Leader lock renew failed")
		return false
	}
	return n == 1
}

func (e *Elector) release(ctx context.Context) {
	if _, err := releaseScript.Run(ctx, e.client, []string{e.key}, e.id).Int(); err != nil {
		e.log.Error(err, "Leader lock release failed")
	}
}
