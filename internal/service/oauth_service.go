package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const oauthStateTTL = 10 * time.Minute

// OAuthService Google 授权码登录。state 随机串存 Redis 防 CSRF，
// 回调时按邮箱查找或创建用户后换发本系统 JWT。
type OAuthService struct {
	UserRepo    *repository.UserRepository
	RDB         *redis.Client
	Cfg         *config.Config
	oauthConfig *oauth2.Config
}

func NewOAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *OAuthService {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	return &OAuthService{
		UserRepo:    userRepo,
		RDB:         rdb,
		Cfg:         cfg,
		oauthConfig: oauthConfig,
	}
}

func oauthStateKey(state string) string {
	return "oauth:state:" + state
}

// AuthURL 生成跳转地址并登记 state
func (s *OAuthService) AuthURL(ctx context.Context) (string, error) {
	state := model.GenerateUUID()
	if err := s.RDB.Set(ctx, oauthStateKey(state), "1", oauthStateTTL).Err(); err != nil {
		return "", err
	}
	return s.oauthConfig.AuthCodeURL(state), nil
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// HandleCallback 校验 state、交换授权码、拉取用户信息，返回 JWT
func (s *OAuthService) HandleCallback(ctx context.Context, state, code string) (string, error) {
	deleted, err := s.RDB.Del(ctx, oauthStateKey(state)).Result()
	if err != nil {
		return "", err
	}
	if deleted == 0 {
		return "", util.ErrOAuthStateMismatch
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("oauth code exchange failed: %w", err)
	}

	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return "", fmt.Errorf("fetch userinfo failed: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo response missing email")
	}

	user, err := s.findOrCreateUser(&info)
	if err != nil {
		return "", err
	}
	if user.Disabled {
		return "", util.ErrUserDisabled
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		return "", err
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *OAuthService) findOrCreateUser(info *googleUserInfo) (*model.User, error) {
	user, err := s.UserRepo.FindByEmail(info.Email)
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = &model.User{
		Name:     info.Name,
		Email:    info.Email,
		Avatar:   info.Picture,
		Role:     model.Student,
		Provider: model.ProviderGoogle,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
