package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/service"
	"github.com/TanakaMizukii/photoproject/internal/utils"

	"github.com/gin-gonic/gin"
)

// LoginURL 未登录时跳转的页面
const LoginURL = "/accounts/login/"

// Identity 当前请求的登录用户
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

const userCacheTTL = 1 * time.Minute

type cachedUser struct {
	Admin     bool
	ExpiresAt time.Time
}

func userCacheKey(userID uint) string {
	return service.RedisKey("auth", "user", strconv.FormatUint(uint64(userID), 10))
}

// Authenticator 解析请求身份，并缓存用户是否存在及管理员标记以减少数据库查询
type Authenticator struct {
	sessions *SessionManager
	users    *service.UserService
	// Key: userID (uint), Value: cachedUser
	cache sync.Map
}

func NewAuthenticator(sessions *SessionManager, users *service.UserService) *Authenticator {
	return &Authenticator{sessions: sessions, users: users}
}

// CurrentIdentity 读取 Authenticate 写入的身份
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(consts.ContextIdentityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Forget 清除指定用户的缓存，用户被删除后调用
func (a *Authenticator) Forget(userID uint) {
	a.cache.Delete(userID)

	if redisClient := service.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = redisClient.Del(ctx, userCacheKey(userID)).Err()
	}
}

// Authenticate 从 Authorization 头或会话中解析身份。
// 令牌无效或用户已不存在时按匿名请求处理，不中断请求。
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = a.sessions.Token(c.Request)
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseLoginToken(token)
		if err != nil {
			c.Next()
			return
		}

		admin, ok := a.lookupUser(claims.ID)
		if !ok {
			c.Next()
			return
		}

		c.Set(consts.ContextIdentityKey, Identity{ID: claims.ID, Username: claims.Username, Admin: admin})
		c.Next()
	}
}

// lookupUser 依次查 Redis、本地缓存、数据库，返回管理员标记和用户是否存在
func (a *Authenticator) lookupUser(uid uint) (bool, bool) {
	if redisClient := service.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if val, err := redisClient.Get(ctx, userCacheKey(uid)).Result(); err == nil {
			if admin, parseErr := strconv.ParseBool(val); parseErr == nil {
				a.cache.Store(uid, cachedUser{Admin: admin, ExpiresAt: time.Now().Add(userCacheTTL)})
				return admin, true
			}
		}
	}

	if val, ok := a.cache.Load(uid); ok {
		if cached, typeOk := val.(cachedUser); typeOk {
			if time.Now().Before(cached.ExpiresAt) {
				return cached.Admin, true
			}
			a.cache.Delete(uid)
		}
	}

	user, err := a.users.GetUser(uid)
	if err != nil {
		return false, false
	}

	a.cache.Store(uid, cachedUser{Admin: user.Admin, ExpiresAt: time.Now().Add(userCacheTTL)})
	if redisClient := service.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = redisClient.Set(ctx, userCacheKey(uid), strconv.FormatBool(user.Admin), userCacheTTL).Err()
	}
	return user.Admin, true
}

// wantsJSON API 客户端得到 401 JSON，浏览器被重定向到登录页
func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("Authorization") != "" {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, gin.MIMEJSON) && !strings.Contains(accept, gin.MIMEHTML)
}

// LoginRequired 未登录的浏览器请求跳转到登录页并带上 next
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); ok {
			c.Next()
			return
		}
		if wantsJSON(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录才能访问"})
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录才能访问"})
			c.Abort()
			return
		}
		if !identity.Admin {
			c.JSON(http.StatusForbidden, gin.H{"error": "需要管理员权限才能访问"})
			c.Abort()
			return
		}
		c.Next()
	}
}
