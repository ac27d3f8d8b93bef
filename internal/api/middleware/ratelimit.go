package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

// WindowCounter считает запросы по ключу в фиксированном окне
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitRecorder учет отклоненных запросов
type RateLimitRecorder interface {
	RecordRateLimited(route string)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisCounter фиксированное окно в Redis, общее для всех экземпляров сервиса
type RedisCounter struct {
	rdb redis.Scripter
}

// NewRedisCounter создает счетчик поверх клиента Redis
func NewRedisCounter(rdb redis.Scripter) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// Incr увеличивает счетчик ключа, при первом запросе окна выставляет TTL
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}

	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// RateLimitConfig параметры лимитера
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	Prefix string
	// TrustedProxies адреса прокси, которым разрешено передавать X-Forwarded-For.
	// Пустой список - заголовок игнорируется, ключом служит адрес соединения.
	TrustedProxies []*net.IPNet
}

// ParseTrustedProxies разбирает список CIDR или отдельных IP
func ParseTrustedProxies(items []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if !strings.Contains(item, "/") {
			ip := net.ParseIP(item)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", item)
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(item)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// RateLimit ограничивает число запросов клиента в окне.
// Ключ - пользователь из контекста, поэтому на защищенных маршрутах лимитер ставится после Auth.
// Если счетчик недоступен, запрос пропускается.
func RateLimit(counter WindowCounter, cfg RateLimitConfig, recorder RateLimitRecorder, log Logger) func(http.Handler) http.Handler {
	if cfg.Limit <= 0 {
		cfg.Limit = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "rl"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeTemplate(r)
			key := cfg.Prefix + ":" + route + ":" + clientKey(r, cfg.TrustedProxies)

			count, err := counter.Incr(r.Context(), key, cfg.Window)
			if err != nil {
				log.Warn("RateLimit: counter unavailable, letting request through: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(cfg.Limit) {
				if recorder != nil {
					recorder.RecordRateLimited(route)
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey пользователь, если известен, иначе IP клиента
func clientKey(r *http.Request, trusted []*net.IPNet) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	return "ip:" + clientIP(r, trusted)
}

// clientIP адрес соединения. X-Forwarded-For учитывается только от доверенного прокси:
// берется самый правый адрес цепочки, который сам не является доверенным прокси.
func clientIP(r *http.Request, trusted []*net.IPNet) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !isTrusted(remote, trusted) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" || net.ParseIP(hop) == nil {
			break
		}
		if !isTrusted(hop, trusted) {
			return hop
		}
	}
	return remote
}

func isTrusted(addr string, trusted []*net.IPNet) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
