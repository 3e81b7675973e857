package admin

import (
	"net/http"
	"strconv"

	"github.com/TanakaMizukii/photoproject/internal/common/httpx"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 管理员接口，仅返回 JSON
type Handler struct {
	categories *service.CategoryService
	users      *service.UserService
	settings   *service.SettingsService
	auth       *middleware.Authenticator
}

func NewHandler(
	categories *service.CategoryService,
	users *service.UserService,
	settings *service.SettingsService,
	auth *middleware.Authenticator,
) *Handler {
	return &Handler{categories: categories, users: users, settings: settings, auth: auth}
}

type createCategoryRequest struct {
	Title string `json:"title" binding:"required"`
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "资源不存在"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories()
	if err != nil {
		httpx.WriteServiceError(c, err, "获取分类失败")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}

	category, err := h.categories.CreateCategory(req.Title)
	if err != nil {
		httpx.WriteServiceError(c, err, "创建分类失败")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory 仍被帖子引用时返回 409
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.categories.DeleteCategory(id); err != nil {
		httpx.WriteServiceError(c, err, "删除分类失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// DeleteUser 级联删除该用户的全部帖子及图片
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if identity, _ := middleware.CurrentIdentity(c); identity.ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不能删除当前登录的账号"})
		return
	}
	if err := h.users.DeleteUser(id); err != nil {
		httpx.WriteServiceError(c, err, "删除用户失败")
		return
	}
	h.auth.Forget(id)
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settings.AdminListSettings()
	if err != nil {
		httpx.WriteServiceError(c, err, "获取设置失败")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req []service.UpdateSettingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误"})
		return
	}
	if err := h.settings.AdminUpdateSettings(req); err != nil {
		httpx.WriteServiceError(c, err, "更新设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "设置已更新"})
}
