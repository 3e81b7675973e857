package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/common/httpx"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

type signupForm struct {
	Username string
	Email    string
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// safeNext 只允许站内跳转
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}

func (h *AccountHandler) renderSignup(c *gin.Context, status int, form signupForm, message string, fields map[string]string) {
	if fields == nil {
		fields = map[string]string{}
	}
	data := pageData(c, h.settings, "注册")
	data["Form"] = form
	data["Errors"] = fields
	data["Message"] = message

	jsonData := gin.H{}
	if message != "" || len(fields) > 0 {
		jsonData = gin.H{"error": message, "fields": fields}
	}
	respond(c, status, "signup.html", data, jsonData)
}

func (h *AccountHandler) SignupForm(c *gin.Context) {
	h.renderSignup(c, http.StatusOK, signupForm{}, "", nil)
}

// Signup 注册成功后跳转到完成页，不自动登录
func (h *AccountHandler) Signup(c *gin.Context) {
	var input service.SignupInput
	if err := c.ShouldBind(&input); err != nil {
		h.renderSignup(c, http.StatusBadRequest, signupForm{}, "请求参数错误", nil)
		return
	}
	form := signupForm{Username: input.Username, Email: input.Email}

	user, err := h.auth.Signup(input)
	if err != nil {
		serviceErr, ok := common.AsServiceError(err)
		if !ok {
			log.Printf("signup failed: %v", err)
			renderError(c, h.settings, err, "注册失败，请稍后重试")
			return
		}
		h.renderSignup(c, httpx.StatusFor(serviceErr.Code), form, serviceErr.Message, serviceErr.Fields)
		return
	}

	if prefersJSON(c) {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.Redirect(http.StatusSeeOther, "/accounts/signup_success/")
}

func (h *AccountHandler) SignupSuccess(c *gin.Context) {
	respond(c, http.StatusOK, "signup_success.html", pageData(c, h.settings, "注册完成"), gin.H{"message": "注册成功"})
}

func (h *AccountHandler) renderLogin(c *gin.Context, status int, username, next, message string) {
	data := pageData(c, h.settings, "登录")
	data["Username"] = username
	data["Next"] = next
	data["Message"] = message

	var jsonData any = gin.H{"next": next}
	if message != "" {
		jsonData = gin.H{"error": message}
	}
	respond(c, status, "login.html", data, jsonData)
}

func (h *AccountHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "", c.Query("next"), "")
}

// Login 浏览器登录，令牌写入会话 Cookie
func (h *AccountHandler) Login(c *gin.Context) {
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, req.Username, next, "请输入用户名和密码")
		return
	}

	token, _, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		message := "登录失败，请稍后重试"
		if serviceErr, ok := common.AsServiceError(err); ok {
			status = httpx.StatusFor(serviceErr.Code)
			message = serviceErr.Message
		}
		h.renderLogin(c, status, req.Username, next, message)
		return
	}

	if err := h.sessions.SaveToken(c.Writer, c.Request, token); err != nil {
		log.Printf("save session failed: %v", err)
		renderError(c, h.settings, err, "登录失败，请稍后重试")
		return
	}
	c.Redirect(http.StatusSeeOther, safeNext(next))
}

// LogoutConfirm 只展示确认表单，GET 不改变登录状态
func (h *AccountHandler) LogoutConfirm(c *gin.Context) {
	data := pageData(c, h.settings, "退出登录")
	_, loggedIn := middleware.CurrentIdentity(c)
	data["Confirm"] = loggedIn
	respond(c, http.StatusOK, "logout.html", data, gin.H{"logged_in": loggedIn, "message": "请使用 POST 退出登录"})
}

// Logout 清除会话
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c.Writer, c.Request); err != nil {
		log.Printf("clear session failed: %v", err)
	}
	// 本次响应中不再显示已登录状态
	data := pageData(c, h.settings, "已退出")
	delete(data, "Identity")
	respond(c, http.StatusOK, "logout.html", data, gin.H{"message": "已退出登录"})
}

// APILogin 返回 Bearer 令牌供 API 客户端使用
func (h *AccountHandler) APILogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请输入用户名和密码"})
		return
	}

	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "登录失败，请稍后重试")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
