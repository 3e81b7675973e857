package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/notify"
	"github.com/TanakaMizukii/photoproject/internal/repository"
	"github.com/TanakaMizukii/photoproject/internal/utils"

	"gorm.io/gorm"
)

// CreatePostInput 投稿表单。投稿者只取自请求身份，不接受客户端提交。
type CreatePostInput struct {
	Title      string
	Comment    string
	CategoryID string
	Image1     *multipart.FileHeader
	Image2     *multipart.FileHeader
}

func (s *PhotoService) listPosts(params repository.ListPostsParams, number int) (Page, error) {
	if number != LastPage && (number < 1 || number > math.MaxInt/consts.PageSize) {
		return Page{}, common.NewNotFoundError("页码无效")
	}
	query := number
	if number == LastPage {
		query = 1
	}
	posts, total, err := s.fetchPage(params, query)
	if err != nil {
		return Page{}, err
	}

	numPages := pageCount(total)
	if number == LastPage {
		number = numPages
		if number != query {
			if posts, total, err = s.fetchPage(params, number); err != nil {
				return Page{}, err
			}
			numPages = pageCount(total)
		}
	}
	// 第 1 页总是存在，即使没有任何帖子
	if number > numPages {
		return Page{}, common.NewNotFoundError("页面不存在")
	}
	return newPage(posts, total, number), nil
}

func (s *PhotoService) fetchPage(params repository.ListPostsParams, number int) ([]model.PhotoPost, int64, error) {
	params.Offset = pageOffset(number)
	params.Limit = consts.PageSize
	posts, total, err := s.photoStore.ListPosts(params)
	if err != nil {
		log.Printf("ListPosts error: %v", err)
		return nil, 0, common.NewInternalError("获取帖子列表失败")
	}
	return posts, total, nil
}

// ListFeed 全部帖子，按投稿时间倒序
func (s *PhotoService) ListFeed(page int) (Page, error) {
	return s.listPosts(repository.ListPostsParams{}, page)
}

// ListByCategory 分类不存在时返回空的第 1 页
func (s *PhotoService) ListByCategory(categoryID uint, page int) (Page, error) {
	return s.listPosts(repository.ListPostsParams{CategoryID: &categoryID}, page)
}

func (s *PhotoService) ListByUser(userID uint, page int) (Page, error) {
	return s.listPosts(repository.ListPostsParams{UserID: &userID}, page)
}

func (s *PhotoService) GetPost(id uint) (*model.PhotoPost, error) {
	post, err := s.photoStore.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("帖子不存在")
		}
		log.Printf("GetPost error: %v", err)
		return nil, common.NewInternalError("获取帖子失败")
	}
	return post, nil
}

// GetOwnedPost 返回请求者本人的帖子，用于删除确认页
func (s *PhotoService) GetOwnedPost(requesterID, postID uint) (*model.PhotoPost, error) {
	post, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != requesterID {
		return nil, common.NewForbiddenError("只能删除自己的帖子")
	}
	return post, nil
}

// DeletePost 删除本人的一条帖子并清理其图片
func (s *PhotoService) DeletePost(requesterID, postID uint) error {
	post, err := s.GetOwnedPost(requesterID, postID)
	if err != nil {
		return err
	}

	if err := s.photoStore.Delete(post); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("帖子不存在")
		}
		log.Printf("DeletePost error: %v", err)
		return common.NewInternalError("删除帖子失败")
	}

	s.media.RemoveAll(post.ImagePaths()...)
	return nil
}

// CreatePost 校验表单、保存图片并写入帖子。任何失败都不会留下记录或文件。
func (s *PhotoService) CreatePost(ownerID uint, input CreatePostInput) (*model.PhotoPost, error) {
	title := strings.TrimSpace(input.Title)
	comment := strings.TrimSpace(input.Comment)
	fields := map[string]string{}

	if title == "" {
		fields["title"] = "请输入标题"
	} else if utf8.RuneCountInString(title) > consts.PostTitleMaxRunes {
		fields["title"] = fmt.Sprintf("标题不能超过 %d 个字符", consts.PostTitleMaxRunes)
	}
	if comment == "" {
		fields["comment"] = "请输入评论"
	}

	category, msg := s.resolveCategory(input.CategoryID)
	if msg != "" {
		fields["category"] = msg
	}

	var ext1, ext2 string
	if input.Image1 == nil {
		fields["image1"] = "请选择图片"
	} else if ext, msg := s.validateImageFile(input.Image1); msg != "" {
		fields["image1"] = msg
	} else {
		ext1 = ext
	}
	if input.Image2 != nil {
		if ext, msg := s.validateImageFile(input.Image2); msg != "" {
			fields["image2"] = msg
		} else {
			ext2 = ext
		}
	}

	if len(fields) > 0 {
		return nil, common.NewFieldErrors(fields)
	}

	now := s.now()
	var saved []string
	image1, err := s.media.Save(input.Image1, ext1, now)
	if err != nil {
		log.Printf("CreatePost save image1 error: %v", err)
		return nil, common.NewInternalError("系统错误: 图片保存失败")
	}
	saved = append(saved, image1)

	post := &model.PhotoPost{
		UserID:     ownerID,
		CategoryID: category.ID,
		Title:      title,
		Comment:    comment,
		Image1:     image1,
		PostedAt:   now,
	}
	if input.Image2 != nil {
		image2, err := s.media.Save(input.Image2, ext2, now)
		if err != nil {
			s.media.RemoveAll(saved...)
			log.Printf("CreatePost save image2 error: %v", err)
			return nil, common.NewInternalError("系统错误: 图片保存失败")
		}
		saved = append(saved, image2)
		post.Image2 = &image2
	}

	if err := s.photoStore.Create(post); err != nil {
		s.media.RemoveAll(saved...)
		log.Printf("CreatePost DB error: %v", err)
		return nil, common.NewInternalError("系统错误: 数据库记录失败")
	}
	post.Category = *category

	s.announce(post)
	return post, nil
}

func (s *PhotoService) resolveCategory(raw string) (*model.Category, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "请选择分类"
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, "请选择有效的分类"
	}
	category, err := s.categoryStore.FindByID(uint(id))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("resolveCategory error: %v", err)
		}
		return nil, "请选择有效的分类"
	}
	return category, ""
}

// validateImageFile 校验大小、扩展名和文件内容，返回小写扩展名或错误提示
func (s *PhotoService) validateImageFile(file *multipart.FileHeader) (string, string) {
	maxSizeMB := s.settings.GetInt(consts.ConfigMaxUploadSize)
	if maxSizeMB > 0 && file.Size > int64(maxSizeMB)*1024*1024 {
		return "", fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return "", "无法识别文件类型"
	}
	allowed := false
	for _, allowExt := range strings.Split(s.settings.GetString(consts.ConfigAllowFileExtensions), ",") {
		if strings.TrimSpace(strings.ToLower(allowExt)) == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", "不支持的文件类型: " + ext
	}

	src, err := file.Open()
	if err != nil {
		return "", "无法打开上传的文件"
	}
	defer func() { _ = src.Close() }()

	if valid, msg := utils.ValidateImageContent(src, ext); !valid {
		return "", msg
	}
	return ext, ""
}

func (s *PhotoService) announce(post *model.PhotoPost) {
	event := notify.PostEvent{
		PostID:   post.ID,
		Title:    post.Title,
		Category: post.Category.Title,
	}
	if owner, err := s.userStore.FindByID(post.UserID); err == nil {
		event.Username = owner.Username
	}
	if abs, err := s.media.AbsPath(post.Image1); err == nil {
		event.ImagePath = abs
	}
	s.notifier.PostCreated(event)
}
