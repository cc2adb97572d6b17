package util

import (
	"testing"
	"time"

	"lms_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		UUIDBase: model.UUIDBase{ID: "user-123"},
		Email:    "test@example.com",
		Role:     model.Admin,
	}

	token, err := GenerateJWT(user, "secret-key", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "secret-key")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-123" || claims.Role != model.Admin || claims.Email != "test@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{UUIDBase: model.UUIDBase{ID: "user-123"}}

	token, err := GenerateJWT(user, "secret-key", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("parsing with the wrong secret must fail")
	}
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{UUIDBase: model.UUIDBase{ID: "user-123"}}

	token, err := GenerateJWT(user, "secret-key", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "secret-key"); err == nil {
		t.Error("expired token must be rejected")
	}
}
