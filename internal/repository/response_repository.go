package repository

import (
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

// EnsureCourseResponse 原子化的"不存在则创建"。冲突目标是
// (user_id, course_id) 唯一索引，两个并发调用只会落一行。
// 返回值表示本次调用是否真正创建了新行。
func (r *ResponseRepository) EnsureCourseResponse(userID, courseID, actorID string) (bool, error) {
	row := &model.UserCourseResponse{
		ID:        model.GenerateUUID(),
		UserID:    userID,
		CourseID:  courseID,
		IsActive:  true,
		CreatedBy: actorID,
		UpdatedBy: actorID,
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(row)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ResponseRepository) FindCourseResponse(userID, courseID string) (*model.UserCourseResponse, error) {
	var resp model.UserCourseResponse
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkCourseCompleted 完成上报：行不存在则创建为已完成，
// 已存在（包括已完成，作为无副作用的幂等情形）则更新完成标记
func (r *ResponseRepository) MarkCourseCompleted(userID, courseID, actorID string) error {
	row := &model.UserCourseResponse{
		ID:          model.GenerateUUID(),
		UserID:      userID,
		CourseID:    courseID,
		IsCompleted: true,
		IsActive:    true,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed": true,
			"updated_by":   actorID,
			"updated_at":   time.Now(),
		}),
	}).Create(row).Error
}

func (r *ResponseRepository) ListCourseResponses(userID string) ([]model.UserCourseResponse, error) {
	var rows []model.UserCourseResponse
	err := r.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpsertLessonResponse 课时测验结果，(user_id, lesson_id) 冲突时覆盖成绩
func (r *ResponseRepository) UpsertLessonResponse(resp *model.UserLessonResponse) error {
	if resp.ID == "" {
		resp.ID = model.GenerateUUID()
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed":     resp.IsCompleted,
			"score_percentage": resp.ScorePercentage,
			"status":           resp.Status,
			"updated_by":       resp.UpdatedBy,
			"updated_at":       time.Now(),
		}),
	}).Create(resp).Error
}

func (r *ResponseRepository) FindLessonResponse(userID, lessonID string) (*model.UserLessonResponse, error) {
	var resp model.UserLessonResponse
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) ListLessonResponses(userID, courseID string) ([]model.UserLessonResponse, error) {
	var rows []model.UserLessonResponse
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&rows).Error
	return rows, err
}
