package repository

import (
	"fmt"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEnsureCourseResponseIdempotent(t *testing.T) {
	repo := NewResponseRepository(newTestDB(t))

	created, err := repo.EnsureCourseResponse("u1", "c1", "u1")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !created {
		t.Error("first call must create a row")
	}

	created, err = repo.EnsureCourseResponse("u1", "c1", "u1")
	if err != nil {
		t.Fatalf("repeat ensure: %v", err)
	}
	if created {
		t.Error("second call must be a no-op")
	}

	var count int64
	repo.DB.Model(&model.UserCourseResponse{}).Where("user_id = ? AND course_id = ?", "u1", "c1").Count(&count)
	if count != 1 {
		t.Errorf("expected one row, got %d", count)
	}
}

func TestMarkCourseCompletedUpsert(t *testing.T) {
	repo := NewResponseRepository(newTestDB(t))

	// 行不存在：直接建为已完成
	if err := repo.MarkCourseCompleted("u1", "c1", "u1"); err != nil {
		t.Fatalf("mark (insert path): %v", err)
	}
	resp, err := repo.FindCourseResponse("u1", "c1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !resp.IsCompleted {
		t.Error("row must be completed")
	}

	// 行已存在：原地更新，不追加
	if _, err := repo.EnsureCourseResponse("u2", "c1", "u2"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := repo.MarkCourseCompleted("u2", "c1", "u2"); err != nil {
		t.Fatalf("mark (update path): %v", err)
	}

	var count int64
	repo.DB.Model(&model.UserCourseResponse{}).Where("user_id = ? AND course_id = ?", "u2", "c1").Count(&count)
	if count != 1 {
		t.Errorf("expected one row after upsert, got %d", count)
	}
	resp, err = repo.FindCourseResponse("u2", "c1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !resp.IsCompleted {
		t.Error("existing row must be flipped to completed")
	}
}

func TestUpsertLessonResponseOverwritesScore(t *testing.T) {
	repo := NewResponseRepository(newTestDB(t))

	first := &model.UserLessonResponse{
		UserID:          "u1",
		LessonID:        "l1",
		CourseID:        "c1",
		IsCompleted:     true,
		ScorePercentage: 60,
		Status:          model.LessonStatusCompleted,
		CreatedBy:       "u1",
		UpdatedBy:       "u1",
	}
	if err := repo.UpsertLessonResponse(first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// 重考：同键覆盖成绩
	second := &model.UserLessonResponse{
		UserID:          "u1",
		LessonID:        "l1",
		CourseID:        "c1",
		IsCompleted:     true,
		ScorePercentage: 100,
		Status:          model.LessonStatusCompleted,
		CreatedBy:       "u1",
		UpdatedBy:       "u1",
	}
	if err := repo.UpsertLessonResponse(second); err != nil {
		t.Fatalf("repeat upsert: %v", err)
	}

	resp, err := repo.FindLessonResponse("u1", "l1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if resp.ScorePercentage != 100 {
		t.Errorf("expected overwritten score 100, got %v", resp.ScorePercentage)
	}

	var count int64
	repo.DB.Model(&model.UserLessonResponse{}).Where("user_id = ? AND lesson_id = ?", "u1", "l1").Count(&count)
	if count != 1 {
		t.Errorf("expected one row, got %d", count)
	}
}

func TestRankInCourse(t *testing.T) {
	db := newTestDB(t)
	lessonRepo := NewLessonRepository(db)

	course := &model.Course{Title: "排序", IsActive: true}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	var lessons []*model.Lesson
	for i := 1; i <= 3; i++ {
		l := &model.Lesson{CourseID: course.ID, Title: fmt.Sprintf("L%d", i), OrderBy: i, IsActive: true}
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		lessons = append(lessons, l)
	}
	// 非激活课时不参与排序
	inactive := &model.Lesson{CourseID: course.ID, Title: "隐藏", OrderBy: 4, IsActive: false}
	if err := db.Create(inactive).Error; err != nil {
		t.Fatalf("create inactive lesson: %v", err)
	}

	rank, count, err := lessonRepo.RankInCourse(lessons[2])
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if rank != 3 || count != 3 {
		t.Errorf("expected rank 3 of 3, got %d of %d", rank, count)
	}

	rank, _, err = lessonRepo.RankInCourse(lessons[0])
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if rank != 1 {
		t.Errorf("expected rank 1, got %d", rank)
	}
}
