package middleware

import (
	"net/http"

	"github.com/TanakaMizukii/photoproject/internal/config"
	"github.com/TanakaMizukii/photoproject/internal/consts"

	"github.com/gorilla/sessions"
)

// SessionManager 浏览器会话，cookie 中只保存登录令牌
type SessionManager struct {
	store *sessions.CookieStore
	name  string
}

func NewSessionManager(cfg config.SessionConfig) *SessionManager {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	maxAge := cfg.MaxAgeHours * 3600
	if maxAge <= 0 {
		maxAge = 14 * 24 * 3600
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	name := cfg.Name
	if name == "" {
		name = "photo_session"
	}
	return &SessionManager{store: store, name: name}
}

// ProvideSessionManager 从当前配置创建 SessionManager
func ProvideSessionManager() *SessionManager {
	return NewSessionManager(config.Get().Session)
}

// Token 返回会话中的登录令牌，会话不存在或无法解码时返回空字符串
func (m *SessionManager) Token(r *http.Request) string {
	session, err := m.store.Get(r, m.name)
	if err != nil {
		return ""
	}
	token, _ := session.Values[consts.SessionTokenKey].(string)
	return token
}

func (m *SessionManager) SaveToken(w http.ResponseWriter, r *http.Request, token string) error {
	// 旧 cookie 解码失败时 Get 仍返回新会话
	session, _ := m.store.Get(r, m.name)
	session.Values[consts.SessionTokenKey] = token
	return session.Save(r, w)
}

// Clear 让浏览器删除会话 cookie
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, m.name)
	delete(session.Values, consts.SessionTokenKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
