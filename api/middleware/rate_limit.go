package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const msgTooManyRequests = "too many requests"

type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mutex    sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	lastSeen map[string]time.Time
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     r,
		burst:    burst,
		ttl:      ttl,
	}
}

func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyRequests)
			}
			return next(c)
		}
	}
}

func (l *RateLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if limiter, ok := l.limiters[ip]; ok {
		l.lastSeen[ip] = time.Now()
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	l.lastSeen[ip] = time.Now()
	l.cleanup()
	return limiter
}

func (l *RateLimiter) cleanup() {
	if l.ttl == 0 {
		return
	}
	cutoff := time.Now().Add(-l.ttl)
	for ip, last := range l.lastSeen {
		if last.Before(cutoff) {
			delete(l.lastSeen, ip)
			delete(l.limiters, ip)
		}
	}
}

var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
  tokens = capacity
  last_refill = now_ms
end

if interval_ms > 0 then
  local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
  if intervals > 0 then
    tokens = math.min(capacity, tokens + intervals)
    last_refill = last_refill + intervals * interval_ms
  end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)
return { allowed, retry_after_ms }
`)

// RedisRateLimiter is a token bucket shared by every API instance. On redis
// errors it falls back to the in-process limiter.
type RedisRateLimiter struct {
	Client   *redis.Client
	Prefix   string
	Burst    int
	Interval time.Duration
	TTL      time.Duration
	Fallback *RateLimiter
	Logger   logrus.FieldLogger
}

// NewLimiter returns a redis-backed middleware when client is set, otherwise
// the in-process one.
func NewLimiter(client *redis.Client, prefix string, r rate.Limit, burst int, ttl time.Duration, logger logrus.FieldLogger) echo.MiddlewareFunc {
	local := NewRateLimiter(r, burst, ttl)
	if client == nil {
		return local.Middleware()
	}
	interval := time.Second
	if r > 0 {
		interval = time.Duration(float64(time.Second) / float64(r))
	}
	limiter := &RedisRateLimiter{
		Client:   client,
		Prefix:   prefix,
		Burst:    burst,
		Interval: interval,
		TTL:      ttl,
		Fallback: local,
		Logger:   logger,
	}
	return limiter.Middleware()
}

func (l *RedisRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			allowed, retryAfter, err := l.take(c, ip)
			if err != nil {
				if l.Logger != nil {
					l.Logger.WithError(err).Warn("ratelimit: redis error, using local limiter")
				}
				allowed = l.Fallback == nil || l.Fallback.Allow(ip)
			}
			if !allowed {
				if retryAfter > 0 {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyRequests)
			}
			return next(c)
		}
	}
}

func (l *RedisRateLimiter) take(c echo.Context, ip string) (bool, time.Duration, error) {
	key := fmt.Sprintf("%s:ip:%s", l.Prefix, ip)
	ttl := l.TTL
	if ttl < time.Second {
		ttl = time.Minute
	}
	vals, err := tokenBucketScript.Run(c.Request().Context(), l.Client, []string{key},
		time.Now().UnixMilli(), l.Burst, l.Interval.Milliseconds(), int64(ttl/time.Second),
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(vals) != 2 {
		return false, 0, fmt.Errorf("unexpected script result %v", vals)
	}
	return vals[0] == 1, time.Duration(vals[1]) * time.Millisecond, nil
}
