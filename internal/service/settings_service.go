package service

import (
	"errors"
	"log"
	"strconv"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/repository"

	"gorm.io/gorm"
)

const DefaultValueNotFound = "||__NOT_FOUND__||"

var DefaultSettings = []model.Setting{
	{Key: consts.ConfigSiteName, Value: "Photo Share", Desc: "网站名称"},
	{Key: consts.ConfigAllowRegister, Value: "true", Desc: "是否开放注册 (true/false)"},
	{Key: consts.ConfigMaxUploadSize, Value: "10", Desc: "单张图片最大大小 (MB)"},
	{Key: consts.ConfigAllowFileExtensions, Value: ".jpg,.jpeg,.png,.gif,.webp", Desc: "允许上传的文件扩展名"},
	{Key: consts.ConfigRateLimitEnabled, Value: "true", Desc: "是否开启接口限流"},
	{Key: consts.ConfigRateLimitAuthRPS, Value: "0.5", Desc: "登录/注册每秒请求限制 (RPS)"},
	{Key: consts.ConfigRateLimitAuthBurst, Value: "5", Desc: "登录/注册突发请求限制"},
	{Key: consts.ConfigRateLimitUploadRPS, Value: "1.0", Desc: "投稿每秒请求限制 (RPS)"},
	{Key: consts.ConfigRateLimitUploadBurst, Value: "5", Desc: "投稿突发请求限制"},
	{Key: consts.ConfigMaxRequestBodySize, Value: "2", Desc: "非投稿接口最大请求体限制 (MB)"},
	{Key: consts.ConfigStaticCacheControl, Value: "public, max-age=31536000", Desc: "媒体文件缓存设置 (Cache-Control)"},
}

type UpdateSettingPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func isKnownSetting(key string) bool {
	for _, def := range DefaultSettings {
		if def.Key == key {
			return true
		}
	}
	return false
}

func (s *SettingsService) ClearCache() {
	s.cache.Range(func(key, value interface{}) bool {
		s.cache.Delete(key)
		return true
	})
}

// InitializeSettings 写入缺失的默认配置
func (s *SettingsService) InitializeSettings() error {
	if err := s.settingStore.InitializeDefaults(DefaultSettings); err != nil {
		return err
	}
	s.ClearCache()
	return nil
}

func (s *SettingsService) GetString(key string) string {
	if val, ok := s.cache.Load(key); ok {
		if strVal, ok := val.(string); ok {
			if strVal == DefaultValueNotFound {
				return ""
			}
			return strVal
		}
		s.cache.Delete(key)
	}

	setting, err := s.settingStore.FindByKey(key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("读取配置 %s 失败: %v", key, err)
		}
		for _, def := range DefaultSettings {
			if def.Key == key {
				newSetting := def
				// 并发写入可能主键冲突，忽略错误
				_ = s.settingStore.Create(&newSetting)
				s.cache.Store(key, newSetting.Value)
				return newSetting.Value
			}
		}
		s.cache.Store(key, DefaultValueNotFound)
		return ""
	}

	s.cache.Store(key, setting.Value)
	return setting.Value
}

func (s *SettingsService) GetInt(key string) int {
	val, err := strconv.Atoi(s.GetString(key))
	if err != nil {
		return 0
	}
	return val
}

func (s *SettingsService) GetInt64(key string) int64 {
	val, err := strconv.ParseInt(s.GetString(key), 10, 64)
	if err != nil {
		return 0
	}
	return val
}

func (s *SettingsService) GetFloat64(key string) float64 {
	val, err := strconv.ParseFloat(s.GetString(key), 64)
	if err != nil {
		return 0
	}
	return val
}

// GetBool 支持 "1", "t", "true" 等 strconv.ParseBool 接受的写法
func (s *SettingsService) GetBool(key string) bool {
	val, err := strconv.ParseBool(s.GetString(key))
	if err != nil {
		return false
	}
	return val
}

// AdminListSettings 获取全部运行时配置
func (s *SettingsService) AdminListSettings() ([]model.Setting, error) {
	settings, err := s.settingStore.FindAll()
	if err != nil {
		log.Printf("AdminListSettings error: %v", err)
		return nil, common.NewInternalError("获取配置失败")
	}
	return settings, nil
}

// AdminUpdateSettings 批量更新配置，成功后清理缓存
func (s *SettingsService) AdminUpdateSettings(items []UpdateSettingPayload) error {
	if len(items) == 0 {
		return common.NewValidationError("没有需要更新的配置")
	}
	repoItems := make([]repository.UpdateSettingItem, 0, len(items))
	for _, item := range items {
		if item.Key == "" {
			return common.NewValidationError("配置键不能为空")
		}
		if !isKnownSetting(item.Key) {
			return common.NewValidationError("未知的配置项: " + item.Key)
		}
		repoItems = append(repoItems, repository.UpdateSettingItem{Key: item.Key, Value: item.Value})
	}

	if err := s.settingStore.UpdateSettings(repoItems); err != nil {
		log.Printf("AdminUpdateSettings error: %v", err)
		return common.NewInternalError("更新失败")
	}

	s.ClearCache()
	return nil
}
