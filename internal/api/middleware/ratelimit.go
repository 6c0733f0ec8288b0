package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hugh/lawconnect/internal/api/dto"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRateLimitRequests = 100
	defaultRateLimitWindow   = 60 * time.Second
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func normalizeLimits(requests int, window time.Duration) (int, time.Duration) {
	if requests <= 0 {
		requests = defaultRateLimitRequests
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return requests, window
}

// MemoryLimiter is a per-process sliding window.
type MemoryLimiter struct {
	requests int
	window   time.Duration
	now      func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time
	stop    chan struct{}
	once    sync.Once
}

func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	requests, window = normalizeLimits(requests, window)
	rl := &MemoryLimiter{
		requests: requests,
		window:   window,
		now:      time.Now,
		clients:  make(map[string][]time.Time),
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup goroutine.
func (rl *MemoryLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *MemoryLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, stamps := range rl.clients {
		if len(stamps) == 0 || now.Sub(stamps[len(stamps)-1]) > rl.window*2 {
			delete(rl.clients, key)
		}
	}
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.window)

	stamps := rl.clients[key]
	i := 0
	for i < len(stamps) && !stamps[i].After(windowStart) {
		i++
	}
	stamps = stamps[i:]

	d := Decision{Limit: rl.requests}
	if len(stamps) >= rl.requests {
		rl.clients[key] = stamps
		d.ResetAt = stamps[0].Add(rl.window)
		return d, nil
	}

	stamps = append(stamps, now)
	rl.clients[key] = stamps
	d.Allowed = true
	d.Remaining = rl.requests - len(stamps)
	d.ResetAt = stamps[0].Add(rl.window)
	return d, nil
}

// RedisLimiter is a fixed window shared by every server instance.
type RedisLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	prefix   string
	now      func() time.Time
}

func NewRedisLimiter(client *redis.Client, requests int, window time.Duration) *RedisLimiter {
	requests, window = normalizeLimits(requests, window)
	return &RedisLimiter{
		client:   client,
		requests: requests,
		window:   window,
		prefix:   "lawconnect:ratelimit:",
		now:      time.Now,
	}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := rl.now()
	windowStart := now.Truncate(rl.window)
	redisKey := fmt.Sprintf("%s%s:%d", rl.prefix, key, windowStart.Unix())

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, rl.window)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("incrementing rate limit counter: %w", err)
	}

	count := int(incr.Val())
	return Decision{
		Allowed:   count <= rl.requests,
		Limit:     rl.requests,
		Remaining: max(rl.requests-count, 0),
		ResetAt:   windowStart.Add(rl.window),
	}, nil
}

// RateLimit keys requests by client IP. Mount it after chi's RealIP so proxy
// headers are resolved once, by the trusted middleware. A limiter error lets
// the request through.
func RateLimit(limiter Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + getClientIP(r)

			d, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				retry := int64(time.Until(d.ResetAt).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.FormatInt(max(retry, 1), 10))
				writeJSON(w, http.StatusTooManyRequests, dto.Fail("Too many requests, please try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP reads RemoteAddr only; RealIP has already rewritten it.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
