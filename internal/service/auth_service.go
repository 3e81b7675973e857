package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/config"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupInput struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password2" form:"password2"`
}

// Signup 注册普通用户，所有字段错误一次性返回
func (s *AuthService) Signup(input SignupInput) (*model.User, error) {
	if !s.settings.GetBool(consts.ConfigAllowRegister) {
		return nil, common.NewForbiddenError("当前未开放注册")
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	fields := map[string]string{}

	if ok, msg := utils.ValidateUsername(username); !ok {
		fields["username"] = msg
	} else if exists, err := s.userStore.FieldExists(consts.UserFieldUsername, username); err != nil {
		log.Printf("Signup username check error: %v", err)
		return nil, common.NewInternalError("注册失败，请稍后重试")
	} else if exists {
		fields["username"] = "该用户名已被使用"
	}

	if ok, msg := utils.ValidateEmail(email); !ok {
		fields["email"] = msg
	} else if exists, err := s.userStore.FieldExists(consts.UserFieldEmail, email); err != nil {
		log.Printf("Signup email check error: %v", err)
		return nil, common.NewInternalError("注册失败，请稍后重试")
	} else if exists {
		fields["email"] = "该邮箱已被注册"
	}

	if ok, msg := utils.ValidatePassword(input.Password); !ok {
		fields["password"] = msg
	} else if input.Password != input.PasswordConfirm {
		fields["password2"] = "两次输入的密码不一致"
	}

	if len(fields) > 0 {
		return nil, common.NewFieldErrors(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}

	user := &model.User{Username: username, Email: email, Password: string(hashed)}
	if err := s.userStore.Create(user); err != nil {
		log.Printf("Signup create error: %v", err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.NewConflictError("用户名或邮箱已被使用")
		}
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}
	return user, nil
}

// Authenticate 校验用户名和密码
func (s *AuthService) Authenticate(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.NewUnauthorizedError("用户名或密码错误")
	}

	user, err := s.userStore.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewUnauthorizedError("用户名或密码错误")
		}
		log.Printf("Authenticate error: %v", err)
		return nil, common.NewInternalError("登录失败，请稍后重试")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.NewUnauthorizedError("用户名或密码错误")
	}
	return user, nil
}

func (s *AuthService) IssueLoginToken(user *model.User) (string, error) {
	cfg := config.Get()
	token, err := utils.GenerateLoginToken(user.ID, user.Username, user.Admin, time.Hour*time.Duration(cfg.JWT.ExpirationHours))
	if err != nil {
		return "", common.NewInternalError("登录失败，请稍后重试")
	}
	return token, nil
}

// Login 校验凭据并签发登录令牌
func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueLoginToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// EnsureAdmin 确保配置中的管理员账号存在；未配置时跳过
func (s *AuthService) EnsureAdmin(cfg config.AdminConfig) error {
	username := strings.TrimSpace(cfg.Username)
	if username == "" || cfg.Password == "" {
		return nil
	}

	if _, err := s.userStore.FindByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if ok, msg := utils.ValidateUsername(username); !ok {
		return errors.New("管理员用户名不合法: " + msg)
	}
	if ok, msg := utils.ValidatePassword(cfg.Password); !ok {
		return errors.New("管理员密码不合法: " + msg)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	email := strings.TrimSpace(cfg.Email)
	if email == "" {
		email = username + "@localhost"
	}
	admin := &model.User{Username: username, Email: email, Password: string(hashed), Admin: true}
	if err := s.userStore.Create(admin); err != nil {
		return err
	}
	log.Printf("✅ 已创建管理员账号 %s", username)
	return nil
}
