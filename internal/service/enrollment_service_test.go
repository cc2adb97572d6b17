package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

func TestEnrollIdempotent(t *testing.T) {
	db := newTestDB(t)

	course := &model.Course{Title: "报名测试", Type: model.CourseFree, IsActive: true}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	svc := NewEnrollmentService(
		repository.NewResponseRepository(db),
		repository.NewCourseRepository(db),
	)

	first, err := svc.Enroll("user-1", course.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if first.AlreadyEnrolled {
		t.Error("first enroll must not report already enrolled")
	}

	second, err := svc.Enroll("user-1", course.ID)
	if err != nil {
		t.Fatalf("repeat enroll: %v", err)
	}
	if !second.AlreadyEnrolled {
		t.Error("repeat enroll must report already enrolled")
	}

	// 重复报名不产生第二行
	var count int64
	db.Model(&model.UserCourseResponse{}).
		Where("user_id = ? AND course_id = ?", "user-1", course.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected a single enrollment row, got %d", count)
	}
}

func TestEnrollInactiveCourse(t *testing.T) {
	db := newTestDB(t)

	course := &model.Course{Title: "已下架", Type: model.CourseFree, IsActive: false}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	svc := NewEnrollmentService(
		repository.NewResponseRepository(db),
		repository.NewCourseRepository(db),
	)

	if _, err := svc.Enroll("user-1", course.ID); err != util.ErrCourseNotFound {
		t.Errorf("expected ErrCourseNotFound for inactive course, got %v", err)
	}
}

func TestGetEnrollmentMissing(t *testing.T) {
	db := newTestDB(t)

	svc := NewEnrollmentService(
		repository.NewResponseRepository(db),
		repository.NewCourseRepository(db),
	)

	resp, err := svc.GetEnrollment("user-1", "no-such-course")
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if resp != nil {
		t.Errorf("expected nil for missing enrollment, got %+v", resp)
	}
}
