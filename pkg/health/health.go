package health

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check represents a single health check
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthReport represents the overall health of the application
type HealthReport struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// Critical marks checkers that gate readiness.
type Critical interface {
	Critical() bool
}

// probe times fn and fills in the common fields.
func probe(name, what string, fn func() (map[string]string, error)) Check {
	start := time.Now()
	details, err := fn()
	duration := time.Since(start)

	check := Check{
		Name:      name,
		Timestamp: start,
		Duration:  duration,
		Details:   map[string]string{},
	}
	for k, v := range details {
		check.Details[k] = v
	}
	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("%s failed: %v", what, err)
		check.Details["error"] = err.Error()
		return check
	}
	check.Status = StatusUp
	check.Message = what + " successful"
	check.Details["response_time"] = duration.String()
	return check
}

// Pinger is satisfied by db.PostgresDB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PostgresChecker checks PostgreSQL connectivity
type PostgresChecker struct {
	DB   Pinger
	Name string
}

func (c *PostgresChecker) Check(ctx context.Context) Check {
	return probe(c.Name, "Database connection", func() (map[string]string, error) {
		return nil, c.DB.Ping(ctx)
	})
}

func (c *PostgresChecker) Critical() bool { return true }

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	return probe(c.Name, "Redis connection", func() (map[string]string, error) {
		pong, err := c.Client.Ping(ctx).Result()
		if err != nil {
			return nil, err
		}
		return map[string]string{"ping_response": pong}, nil
	})
}

func (c *RedisChecker) Critical() bool { return true }

// TableChecker reports the size of an in-memory table. With Required set, an
// empty table is down.
type TableChecker struct {
	Name     string
	Len      func() int
	Required bool
}

func (c *TableChecker) Check(context.Context) Check {
	return probe(c.Name, "Table lookup", func() (map[string]string, error) {
		n := c.Len()
		details := map[string]string{"entries": strconv.Itoa(n)}
		if n == 0 && c.Required {
			return details, fmt.Errorf("%s table is empty", c.Name)
		}
		return details, nil
	})
}

func (c *TableChecker) Critical() bool { return c.Required }

// HealthChecker orchestrates multiple health checks
type HealthChecker struct {
	checkers  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		checkers:  make([]Checker, 0),
		version:   version,
		startTime: time.Now(),
	}
}

// AddChecker adds a health checker
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

// CheckHealth performs all health checks
func (h *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	return h.run(ctx, h.checkers)
}

// CheckReadiness runs only the critical checks.
func (h *HealthChecker) CheckReadiness(ctx context.Context) HealthReport {
	critical := make([]Checker, 0, len(h.checkers))
	for _, checker := range h.checkers {
		if c, ok := checker.(Critical); ok && c.Critical() {
			critical = append(critical, checker)
		}
	}
	return h.run(ctx, critical)
}

// CheckLiveness performs liveness checks (basic application health)
func (h *HealthChecker) CheckLiveness(ctx context.Context) HealthReport {
	return HealthReport{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: time.Now(),
			},
		},
		Uptime: time.Since(h.startTime),
	}
}

func (h *HealthChecker) run(ctx context.Context, checkers []Checker) HealthReport {
	checks := make(map[string]Check, len(checkers))
	overallStatus := StatusUp

	for _, checker := range checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check

		// If any check fails, overall status is down
		if check.Status == StatusDown {
			overallStatus = StatusDown
		}
	}

	return HealthReport{
		Status:    overallStatus,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}
