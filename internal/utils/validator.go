package utils

import (
	"io"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digitsOnlyPattern = regexp.MustCompile(`^[0-9]+$`)
	passwordCharset   = regexp.MustCompile(`^[a-zA-Z0-9[:punct:]]+$`)
	hasLetterPattern  = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitPattern   = regexp.MustCompile(`[0-9]`)
)

// ValidateUsername checks if the username meets the requirements.
func ValidateUsername(username string) (bool, string) {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 150 {
		return false, "用户名长度需在 3 到 150 个字符之间"
	}
	if !usernamePattern.MatchString(username) {
		return false, "用户名只能包含英文大小写、数字和下划线"
	}
	if digitsOnlyPattern.MatchString(username) {
		return false, "用户名不能为纯数字"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
// Returns true if valid, otherwise false and an error message.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "密码最少8位"
	}
	// bcrypt 只使用前 72 字节
	if len(password) > 72 {
		return false, "密码最多72位"
	}
	if !passwordCharset.MatchString(password) {
		return false, "密码只能包含英文大小写、数字和符号"
	}
	if !hasLetterPattern.MatchString(password) || !hasDigitPattern.MatchString(password) {
		return false, "密码必须包含至少一个字母和一个数字"
	}
	return true, ""
}

// ValidateEmail 校验邮箱格式，不接受带显示名的地址
func ValidateEmail(email string) (bool, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, "邮箱不能为空"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false, "邮箱格式不正确"
	}
	return true, ""
}

// allowedImageTypes 嗅探到的 MIME 类型与允许的扩展名
var allowedImageTypes = map[string]map[string]bool{
	"image/jpeg":     {".jpg": true, ".jpeg": true},
	"image/png":      {".png": true},
	"image/gif":      {".gif": true},
	"image/webp":     {".webp": true},
	"image/bmp":      {".bmp": true},
	"image/x-ms-bmp": {".bmp": true},
}

// ValidateImageContent checks if the file content matches the extension.
// The reader is rewound before returning.
func ValidateImageContent(reader io.ReadSeeker, ext string) (bool, string) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return false, "读取文件内容失败"
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return false, "重置文件读取位置失败"
	}

	contentType := http.DetectContentType(buffer[:n])
	if exts, ok := allowedImageTypes[contentType]; ok && exts[ext] {
		return true, ""
	}
	return false, "文件真实类型(" + contentType + ")与扩展名(" + ext + ")不匹配或不支持"
}
