package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// 测试内容：验证初始化配置会设置默认值并记录配置目录。
func TestInitConfig_SetsDefaults(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("PHOTO_SERVER_MODE", "debug")
	t.Setenv("PHOTO_JWT_SECRET", "")
	t.Setenv("PHOTO_SESSION_SECRET", "")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port != "8080" {
		t.Fatalf("期望默认端口 8080，实际为 %q", cfg.Server.Port)
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("期望非 release 模式下 JWT secret 被填充")
	}
	if cfg.Session.Secret != cfg.JWT.Secret {
		t.Fatalf("期望会话密钥回退为 JWT secret")
	}
	if cfg.Upload.URLPrefix != "/media/" {
		t.Fatalf("期望默认 media 前缀 /media/，实际为 %q", cfg.Upload.URLPrefix)
	}
	if GetConfigDir() != dir {
		t.Fatalf("期望 config dir %q，实际为 %q", dir, GetConfigDir())
	}
}

// 测试内容：验证环境变量能覆盖配置文件中的值。
func TestInitConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: \"9000\"\nupload:\n  url_prefix: /files\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	t.Setenv("PHOTO_SERVER_MODE", "debug")
	t.Setenv("PHOTO_JWT_SECRET", "env_secret")
	t.Setenv("PHOTO_SERVER_PORT", "9100")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port != "9100" {
		t.Fatalf("期望环境变量覆盖端口为 9100，实际为 %q", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env_secret" {
		t.Fatalf("期望 JWT secret 来自环境变量，实际为 %q", cfg.JWT.Secret)
	}
	if cfg.Upload.URLPrefix != "/files/" {
		t.Fatalf("期望前缀补齐结尾斜杠，实际为 %q", cfg.Upload.URLPrefix)
	}
}

// 测试内容：验证列表配置的拆分规则。
func TestSplitList(t *testing.T) {
	got := SplitList(" http://a.example ,http://b.example; http://c.example \n")
	want := []string{"http://a.example", "http://b.example", "http://c.example"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v，实际为 %v", want, got)
	}
	if len(SplitList("")) != 0 {
		t.Fatalf("期望空字符串得到空列表")
	}
}
