package model

import "time"

// 响应表不使用软删除：(user_id, course_id) / (user_id, lesson_id)
// 上有唯一索引，upsert 以其为冲突目标

// swagger:model UserCourseResponse
type UserCourseResponse struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID    string    `gorm:"type:varchar(36);uniqueIndex:idx_user_course;not null" json:"courseId"`
	IsCompleted bool      `gorm:"default:false" json:"isCompleted"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedBy   string    `gorm:"type:varchar(36)" json:"createdBy"`
	UpdatedBy   string    `gorm:"type:varchar(36)" json:"updatedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (UserCourseResponse) TableName() string {
	return "user_course_responses"
}

const (
	LessonStatusInProgress = "in_progress"
	LessonStatusCompleted  = "completed"
)

// swagger:model UserLessonResponse
type UserLessonResponse struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string    `gorm:"type:varchar(36);uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID        string    `gorm:"type:varchar(36);uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	CourseID        string    `gorm:"type:varchar(36);index" json:"courseId"`
	IsCompleted     bool      `gorm:"default:false" json:"isCompleted"`
	ScorePercentage float64   `gorm:"default:0" json:"scorePercentage"`
	Status          string    `gorm:"size:20;default:'in_progress'" json:"status"`
	CreatedBy       string    `gorm:"type:varchar(36)" json:"createdBy"`
	UpdatedBy       string    `gorm:"type:varchar(36)" json:"updatedBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (UserLessonResponse) TableName() string {
	return "user_lesson_responses"
}
