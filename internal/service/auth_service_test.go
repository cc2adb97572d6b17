package service

import (
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
		Role:     model.Student,
	}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "password123" {
		t.Error("password must be hashed at rest")
	}

	token, err := svc.Login("zhangsan@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Student {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	first := &model.User{Name: "A", Email: "dup@example.com", Password: "password123"}
	if err := svc.Register(first); err != nil {
		t.Fatalf("register: %v", err)
	}

	second := &model.User{Name: "B", Email: "dup@example.com", Password: "password456"}
	if err := svc.Register(second); err != util.ErrEmailRegistered {
		t.Errorf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Name: "A", Email: "a@example.com", Password: "password123"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login("a@example.com", "wrong"); err != util.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Name: "A", Email: "disabled@example.com", Password: "password123"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.UserRepo.SetDisabled(user.ID, true); err != nil {
		t.Fatalf("disable: %v", err)
	}

	if _, err := svc.Login("disabled@example.com", "password123"); err != util.ErrUserDisabled {
		t.Errorf("expected ErrUserDisabled, got %v", err)
	}
}
