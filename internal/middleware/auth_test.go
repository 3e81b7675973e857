package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/utils"

	"github.com/gin-gonic/gin"
)

func identityEngine(d *testDeps) *gin.Engine {
	r := gin.New()
	r.Use(d.auth.Authenticate())
	r.GET("/whoami", func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, identity)
	})
	r.GET("/login", func(c *gin.Context) {
		token, _ := utils.GenerateLoginToken(1, "alice", false, time.Hour)
		_ = d.sessions.SaveToken(c.Writer, c.Request, token)
		c.Status(http.StatusOK)
	})
	r.GET("/logout", func(c *gin.Context) {
		_ = d.sessions.Clear(c.Writer, c.Request)
		c.Status(http.StatusOK)
	})
	return r
}

// 测试内容：验证没有令牌时按匿名处理。
func TestAuthenticate_Anonymous(t *testing.T) {
	d := setupTestDeps(t)
	r := identityEngine(d)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if !strings.Contains(w.Body.String(), "anonymous") {
		t.Fatalf("期望匿名，实际为 %s", w.Body.String())
	}
}

// 测试内容：验证 Bearer 令牌解析出身份，管理员标记以数据库为准。
func TestAuthenticate_BearerToken(t *testing.T) {
	d := setupTestDeps(t)
	u := d.createUser(t, "alice", true)
	r := identityEngine(d)

	// 令牌中的 admin=false 不影响数据库中的管理员标记
	token, _ := utils.GenerateLoginToken(u.ID, "alice", false, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"username":"alice"`) || !strings.Contains(w.Body.String(), `"admin":true`) {
		t.Fatalf("非预期身份: %s", w.Body.String())
	}
}

// 测试内容：验证令牌无效或用户已删除时按匿名处理。
func TestAuthenticate_InvalidOrDeletedUser(t *testing.T) {
	d := setupTestDeps(t)
	u := d.createUser(t, "alice", false)
	r := identityEngine(d)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "anonymous") {
		t.Fatalf("期望无效令牌为匿名: %s", w.Body.String())
	}

	token, _ := utils.GenerateLoginToken(u.ID, "alice", false, time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if strings.Contains(w.Body.String(), "anonymous") {
		t.Fatalf("期望识别出用户: %s", w.Body.String())
	}

	if err := d.users.DeleteUser(u.ID); err != nil {
		t.Fatalf("删除用户失败: %v", err)
	}
	d.auth.Forget(u.ID)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "anonymous") {
		t.Fatalf("期望已删除用户为匿名: %s", w.Body.String())
	}
}

// 测试内容：验证会话 cookie 中的令牌能识别身份，注销后失效。
func TestAuthenticate_SessionCookie(t *testing.T) {
	d := setupTestDeps(t)
	d.createUser(t, "alice", false)
	r := identityEngine(d)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("期望写入会话 cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"username":"alice"`) {
		t.Fatalf("期望通过会话识别身份: %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	cleared := false
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("期望注销时删除会话 cookie")
	}
}

// 测试内容：验证未登录的浏览器请求被重定向到登录页，API 请求返回 401。
func TestLoginRequired(t *testing.T) {
	d := setupTestDeps(t)
	r := gin.New()
	r.Use(d.auth.Authenticate())
	r.GET("/mypage/", LoginRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mypage/?page=2", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("期望 302，实际为 %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/accounts/login/?next=%2Fmypage%2F%3Fpage%3D2" {
		t.Fatalf("非预期跳转地址: %s", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/mypage/", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}
}

// 测试内容：验证非管理员访问管理接口返回 403。
func TestAdminRequired(t *testing.T) {
	d := setupTestDeps(t)
	user := d.createUser(t, "alice", false)
	admin := d.createUser(t, "root_admin", true)

	r := gin.New()
	r.Use(d.auth.Authenticate())
	r.GET("/admin", AdminRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		token string
		want  int
	}{
		{"", http.StatusUnauthorized},
		{mustToken(t, user.ID, "alice"), http.StatusForbidden},
		{mustToken(t, admin.ID, "root_admin"), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("期望 %d，实际为 %d", tc.want, w.Code)
		}
	}
}

func mustToken(t *testing.T, id uint, username string) string {
	t.Helper()
	token, err := utils.GenerateLoginToken(id, username, false, time.Hour)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}
	return token
}
