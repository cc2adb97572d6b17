package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindActiveByCourse 课程内激活课时，按 order_by 升序
func (r *LessonRepository) FindActiveByCourse(courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ? AND is_active = ?", courseID, true).
		Order("order_by ASC").
		Find(&lessons).Error
	return lessons, err
}

// RankInCourse 返回课时在课程激活课时中的序号（1 起）与总数，
// 按课时 ID 做同一性匹配
func (r *LessonRepository) RankInCourse(lesson *model.Lesson) (rank int, count int, err error) {
	lessons, err := r.FindActiveByCourse(lesson.CourseID)
	if err != nil {
		return 0, 0, err
	}
	for i, l := range lessons {
		if l.ID == lesson.ID {
			rank = i + 1
			break
		}
	}
	return rank, len(lessons), nil
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) Save(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id string) error {
	return r.DB.Delete(&model.Lesson{}, "id = ?", id).Error
}
