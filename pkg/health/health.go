package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhonatancruzmail/SkyConnectExplorer/servercache"
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

func newCheck(name string) Check {
	return Check{
		Name:      name,
		Timestamp: time.Now(),
		Details:   make(map[string]string),
	}
}

// RedisChecker checks connectivity of the persistent airport cache
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	check := newCheck(c.Name)

	pong, err := c.Client.Ping(ctx).Result()
	check.Duration = time.Since(check.Timestamp)

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Redis connection failed: %v", err)
		check.Details["error"] = err.Error()
		return check
	}

	check.Status = StatusUp
	check.Message = "Redis connection successful"
	check.Details["response_time"] = check.Duration.String()
	check.Details["ping_response"] = pong
	return check
}

// CacheInspector exposes the server cache without triggering a load.
type CacheInspector interface {
	State() servercache.State
	Snapshot() (servercache.Entry, bool)
}

// AirportCacheChecker reports the state of the in-memory airport snapshot.
// An empty cache is healthy since it loads lazily on first request.
type AirportCacheChecker struct {
	Cache CacheInspector
	Name  string
}

func (c *AirportCacheChecker) Check(ctx context.Context) Check {
	check := newCheck(c.Name)
	check.Status = StatusUp

	state := c.Cache.State()
	check.Details["state"] = string(state)
	if entry, ok := c.Cache.Snapshot(); ok {
		check.Details["airports"] = fmt.Sprintf("%d", len(entry.Airports))
		check.Details["total"] = fmt.Sprintf("%d", entry.Total)
		check.Details["age"] = time.Since(entry.Timestamp).Round(time.Second).String()
		check.Message = "Airport snapshot loaded"
	} else {
		check.Message = fmt.Sprintf("Airport snapshot %s", state)
	}

	check.Duration = time.Since(check.Timestamp)
	return check
}

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

// CheckHealth performs all health checks. Any failing check marks the report down.
func (h *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	checks := make(map[string]Check, len(h.checkers))
	overallStatus := StatusUp

	for _, checker := range h.checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check
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

// CheckLiveness reports only that the process is running
func (h *HealthChecker) CheckLiveness(ctx context.Context) HealthReport {
	now := time.Now()
	return HealthReport{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: now,
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: now,
			},
		},
		Uptime: time.Since(h.startTime),
	}
}
