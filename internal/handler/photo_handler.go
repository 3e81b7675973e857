package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

// 投稿表单在内存中保留的最大字节数，超出部分写入临时文件
const multipartMemory = 8 << 20

type postView struct {
	model.PhotoPost
	Image1URL string `json:"image1_url"`
	Image2URL string `json:"image2_url,omitempty"`
}

type pageView struct {
	service.Page
	Items []postView `json:"items"`
}

// postForm 重新渲染投稿表单时回填的值
type postForm struct {
	Title      string
	Comment    string
	CategoryID string
}

func (h *PhotoHandler) viewPost(p model.PhotoPost) postView {
	v := postView{PhotoPost: p, Image1URL: h.media.URL(p.Image1)}
	if p.Image2 != nil {
		v.Image2URL = h.media.URL(*p.Image2)
	}
	return v
}

func (h *PhotoHandler) viewPage(page service.Page) pageView {
	items := make([]postView, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, h.viewPost(p))
	}
	return pageView{Page: page, Items: items}
}

// renderListing 首页、分类页、用户页共用
func (h *PhotoHandler) renderListing(c *gin.Context, page service.Page, title, heading string, withCategories bool) {
	data := pageData(c, h.settings, title)
	data["Heading"] = heading
	data["Page"] = page
	if withCategories {
		categories, err := h.categories.ListCategories()
		if err != nil {
			renderError(c, h.settings, err, "获取分类失败")
			return
		}
		data["Categories"] = categories
	}
	respond(c, http.StatusOK, "index.html", data, h.viewPage(page))
}

// pageNumber 读取 ?page=，无效页码直接响应 404
func (h *PhotoHandler) pageNumber(c *gin.Context) (int, bool) {
	number, err := service.ParsePageNumber(c.Query("page"))
	if err != nil {
		notFound(c, h.settings)
		return 0, false
	}
	return number, true
}

// Index 全部帖子，新的在前
func (h *PhotoHandler) Index(c *gin.Context) {
	number, ok := h.pageNumber(c)
	if !ok {
		return
	}
	page, err := h.photos.ListFeed(number)
	if err != nil {
		renderError(c, h.settings, err, "获取帖子列表失败")
		return
	}
	h.renderListing(c, page, "", "最新投稿", true)
}

func (h *PhotoHandler) CategoryPosts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		notFound(c, h.settings)
		return
	}

	number, ok := h.pageNumber(c)
	if !ok {
		return
	}
	page, err := h.photos.ListByCategory(id, number)
	if err != nil {
		renderError(c, h.settings, err, "获取帖子列表失败")
		return
	}

	heading := "分类"
	if category, err := h.categories.GetCategory(id); err == nil {
		heading = "分类：" + category.Title
	}
	h.renderListing(c, page, heading, heading, true)
}

func (h *PhotoHandler) UserPosts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		notFound(c, h.settings)
		return
	}

	number, ok := h.pageNumber(c)
	if !ok {
		return
	}
	page, err := h.photos.ListByUser(id, number)
	if err != nil {
		renderError(c, h.settings, err, "获取帖子列表失败")
		return
	}

	heading := "用户投稿"
	if user, err := h.users.GetUser(id); err == nil {
		heading = user.Username + " 的投稿"
	}
	h.renderListing(c, page, heading, heading, false)
}

func (h *PhotoHandler) MyPage(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	number, ok := h.pageNumber(c)
	if !ok {
		return
	}

	page, err := h.photos.ListByUser(identity.ID, number)
	if err != nil {
		renderError(c, h.settings, err, "获取帖子列表失败")
		return
	}

	data := pageData(c, h.settings, "我的主页")
	data["Page"] = page
	respond(c, http.StatusOK, "mypage.html", data, h.viewPage(page))
}

func (h *PhotoHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		notFound(c, h.settings)
		return
	}

	post, err := h.photos.GetPost(id)
	if err != nil {
		renderError(c, h.settings, err, "获取帖子失败")
		return
	}

	identity, loggedIn := middleware.CurrentIdentity(c)
	data := pageData(c, h.settings, post.Title)
	data["Post"] = post
	data["IsOwner"] = loggedIn && identity.ID == post.UserID
	respond(c, http.StatusOK, "detail.html", data, h.viewPost(*post))
}

func (h *PhotoHandler) renderPostForm(c *gin.Context, status int, form postForm, fields map[string]string) {
	categories, err := h.categories.ListCategories()
	if err != nil {
		renderError(c, h.settings, err, "获取分类失败")
		return
	}
	if fields == nil {
		fields = map[string]string{}
	}
	data := pageData(c, h.settings, "投稿")
	data["Form"] = form
	data["Errors"] = fields
	data["Categories"] = categories

	var jsonData any = gin.H{"categories": categories}
	if len(fields) > 0 {
		jsonData = gin.H{"error": "输入内容有误", "fields": fields}
	}
	respond(c, status, "post_photo.html", data, jsonData)
}

// PostForm 投稿页面
func (h *PhotoHandler) PostForm(c *gin.Context) {
	h.renderPostForm(c, http.StatusOK, postForm{}, nil)
}

func formFile(c *gin.Context, name string) *multipart.FileHeader {
	file, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return file
}

// CreatePost 投稿者始终是当前登录用户，表单中的其他用户字段被忽略
func (h *PhotoHandler) CreatePost(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("请求体不能超过 %d 字节", tooLarge.Limit)})
			return
		}
		renderError(c, h.settings, common.NewValidationError("表单解析失败"), "表单解析失败")
		return
	}
	if c.Request.MultipartForm != nil {
		defer func() { _ = c.Request.MultipartForm.RemoveAll() }()
	}

	form := postForm{
		Title:      c.PostForm("title"),
		Comment:    c.PostForm("comment"),
		CategoryID: c.PostForm("category"),
	}
	post, err := h.photos.CreatePost(identity.ID, service.CreatePostInput{
		Title:      form.Title,
		Comment:    form.Comment,
		CategoryID: form.CategoryID,
		Image1:     formFile(c, "image1"),
		Image2:     formFile(c, "image2"),
	})
	if err != nil {
		if serviceErr, ok := common.AsServiceError(err); ok && serviceErr.Code == common.ErrorCodeValidation && len(serviceErr.Fields) > 0 {
			h.renderPostForm(c, http.StatusBadRequest, form, serviceErr.Fields)
			return
		}
		renderError(c, h.settings, err, "投稿失败，请稍后重试")
		return
	}

	if prefersJSON(c) {
		c.JSON(http.StatusCreated, h.viewPost(*post))
		return
	}
	c.Redirect(http.StatusSeeOther, "/post_done/")
}

func (h *PhotoHandler) PostDone(c *gin.Context) {
	respond(c, http.StatusOK, "post_success.html", pageData(c, h.settings, "投稿完成"), gin.H{"message": "投稿成功"})
}

// DeleteConfirm 删除确认页，只有投稿者本人可见
func (h *PhotoHandler) DeleteConfirm(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	id, ok := parseID(c, "id")
	if !ok {
		notFound(c, h.settings)
		return
	}

	post, err := h.photos.GetOwnedPost(identity.ID, id)
	if err != nil {
		renderError(c, h.settings, err, "获取帖子失败")
		return
	}

	data := pageData(c, h.settings, "删除投稿")
	data["Post"] = post
	respond(c, http.StatusOK, "photo_delete.html", data, h.viewPost(*post))
}

func (h *PhotoHandler) DeletePost(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	id, ok := parseID(c, "id")
	if !ok {
		notFound(c, h.settings)
		return
	}

	if err := h.photos.DeletePost(identity.ID, id); err != nil {
		renderError(c, h.settings, err, "删除失败，请稍后重试")
		return
	}

	if prefersJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/mypage/")
}

// ListCategoriesAPI 供 API 客户端选择分类
func (h *PhotoHandler) ListCategoriesAPI(c *gin.Context) {
	categories, err := h.categories.ListCategories()
	if err != nil {
		renderError(c, h.settings, err, "获取分类失败")
		return
	}
	c.JSON(http.StatusOK, categories)
}
