package middleware

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// client 的 lastSeen 为 UnixNano，请求与清理协程并发读写
type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func (c *client) touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

func (c *client) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, c.lastSeen.Load()))
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{r: r, b: b}
	go i.cleanupLoop()
	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch(time.Now())
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch(time.Now())
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.touch(time.Now())
	i.ips.Store(ip, c)
	return c.limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.evictIdle(time.Now(), 3*time.Minute)
	}
}

// evictIdle 删除超过 idle 未访问的客户端
func (i *IPRateLimiter) evictIdle(now time.Time, idle time.Duration) {
	i.ips.Range(func(key, value interface{}) bool {
		if value.(*client).idleSince(now) > idle {
			i.ips.Delete(key)
		}
		return true
	})
}

// redisWindow 固定窗口长度：窗口内最多 burst 次，平均速率约为 rps
func redisWindow(rps float64, burst int) time.Duration {
	seconds := math.Ceil(float64(burst) / rps)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

// allowByRedisRateLimit 多实例共享的固定窗口计数。rps 或 burst 非正时不限流。
func allowByRedisRateLimit(client *redis.Client, scope, ip string, rps float64, burst int) (bool, error) {
	if rps <= 0 || burst <= 0 {
		return true, nil
	}

	window := redisWindow(rps, burst)
	slot := strconv.FormatInt(time.Now().Unix()/int64(window/time.Second), 10)
	key := service.RedisKey("rl", scope, ip, slot)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var incr *redis.IntCmd
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(burst), nil
}

// RateLimitMiddleware 按客户端 IP 限流，参数每次请求从运行时配置读取。
// Redis 可用时使用共享计数，否则使用进程内令牌桶。
func RateLimitMiddleware(settings *service.SettingsService, scope, rpsKey, burstKey string) gin.HandlerFunc {
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		if !settings.GetBool(consts.ConfigRateLimitEnabled) {
			c.Next()
			return
		}

		currentRPS := settings.GetFloat64(rpsKey)
		currentBurst := settings.GetInt(burstKey)
		ip := c.ClientIP()

		if redisClient := service.GetRedisClient(); redisClient != nil {
			allowed, err := allowByRedisRateLimit(redisClient, scope, ip, currentRPS, currentBurst)
			if err == nil {
				if !allowed {
					tooManyRequests(c)
					return
				}
				c.Next()
				return
			}
			log.Printf("⚠️ Redis 限流失败，回退内存限流: %v", err)
		}

		once.Do(func() {
			limiter = NewIPRateLimiter(rate.Limit(currentRPS), currentBurst)
		})

		l := limiter.getLimiter(ip)
		// 配置变更后同步到已有的 limiter
		if l.Limit() != rate.Limit(currentRPS) {
			l.SetLimit(rate.Limit(currentRPS))
		}
		if l.Burst() != currentBurst {
			l.SetBurst(currentBurst)
		}

		if !l.Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
	c.Abort()
}
