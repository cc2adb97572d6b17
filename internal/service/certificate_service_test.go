package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

func TestGenerateSerialFormat(t *testing.T) {
	issuedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	serial := GenerateSerial(issuedAt)

	pattern := regexp.MustCompile(`^LMS-20260315-[0-9A-F]{8}$`)
	if !pattern.MatchString(serial) {
		t.Errorf("serial %q does not match expected format", serial)
	}

	if GenerateSerial(issuedAt) == serial {
		t.Error("two serials issued at the same time must differ")
	}
}

func newCertService(t *testing.T) (*CertificateService, *repository.ResponseRepository, string, string) {
	t.Helper()
	db := newTestDB(t)

	user := &model.User{Name: "学员", Email: "cert@example.com", Role: model.Student}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	course := &model.Course{Title: "证书课程", Type: model.CourseFree, IsActive: true}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	respRepo := repository.NewResponseRepository(db)
	svc := NewCertificateService(
		repository.NewCertificateRepository(db),
		respRepo,
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		nil, // 未完成路径不会触达存储
		&config.CertificateConfig{Issuer: "Test Academy"},
	)
	return svc, respRepo, user.ID, course.ID
}

func TestIssueRequiresCompletion(t *testing.T) {
	svc, respRepo, userID, courseID := newCertService(t)
	ctx := context.Background()

	// 未报名
	if _, err := svc.IssueOrGet(ctx, userID, courseID); err != util.ErrCourseNotCompleted {
		t.Errorf("expected ErrCourseNotCompleted without enrollment, got %v", err)
	}

	// 已报名但未完成
	if _, err := respRepo.EnsureCourseResponse(userID, courseID, userID); err != nil {
		t.Fatalf("ensure course response: %v", err)
	}
	if _, err := svc.IssueOrGet(ctx, userID, courseID); err != util.ErrCourseNotCompleted {
		t.Errorf("expected ErrCourseNotCompleted before completion, got %v", err)
	}
}

func TestVerifyUnknownSerial(t *testing.T) {
	svc, _, _, _ := newCertService(t)
	if _, err := svc.Verify("LMS-20260101-DEADBEEF"); err != util.ErrCertificateNotFound {
		t.Errorf("expected ErrCertificateNotFound, got %v", err)
	}
}
