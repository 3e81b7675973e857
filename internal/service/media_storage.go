package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/config"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/utils"

	"github.com/google/uuid"
)

// MediaStorage 管理 media root 下的帖子图片
type MediaStorage struct {
	root      string
	urlPrefix string
}

func NewMediaStorage(root, urlPrefix string) *MediaStorage {
	if root == "" {
		root = "uploads/media"
	}
	if urlPrefix == "" {
		urlPrefix = "/media/"
	}
	return &MediaStorage{root: root, urlPrefix: urlPrefix}
}

// ProvideMediaStorage 从当前配置创建 MediaStorage
func ProvideMediaStorage() *MediaStorage {
	cfg := config.Get()
	return NewMediaStorage(cfg.Upload.Path, cfg.Upload.URLPrefix)
}

func (m *MediaStorage) Root() string {
	return m.root
}

func (m *MediaStorage) URLPrefix() string {
	return m.urlPrefix
}

// URL 返回存储路径对应的访问地址
func (m *MediaStorage) URL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return m.urlPrefix + strings.TrimPrefix(relativePath, "/")
}

// AbsPath 返回存储路径在磁盘上的位置
func (m *MediaStorage) AbsPath(relativePath string) (string, error) {
	return utils.SecureJoin(m.root, relativePath)
}

// Save 把上传文件保存为 photos/YYYY/MM/DD/<uuid><ext>，返回相对 media root 的路径
func (m *MediaStorage) Save(file *multipart.FileHeader, ext string, now time.Time) (string, error) {
	relDir := path.Join(consts.PhotoUploadDir, now.Format("2006"), now.Format("01"), now.Format("02"))
	fullDir, err := utils.SecureJoin(m.root, relDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return "", fmt.Errorf("无法创建存储目录: %w", err)
	}

	relativePath := path.Join(relDir, uuid.New().String()+ext)
	dst, err := utils.SecureJoin(m.root, relativePath)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("无法读取上传文件: %w", err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("无法创建文件: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("文件保存失败: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("文件保存失败: %w", err)
	}
	return relativePath, nil
}

// Remove 删除存储文件，文件已不存在时不报错
func (m *MediaStorage) Remove(relativePath string) error {
	fullPath, err := utils.SecureJoin(m.root, relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveAll 尽力删除一组文件，失败只记录日志
func (m *MediaStorage) RemoveAll(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := m.Remove(p); err != nil {
			log.Printf("删除图片文件 %s 失败: %v", filepath.ToSlash(p), err)
		}
	}
}
