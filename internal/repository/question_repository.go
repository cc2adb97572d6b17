package repository

import (
	"lms_backend/internal/model"
	"sort"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// FindActiveByLesson 课时的激活题目。存储层不保证顺序，取回后
// 统一按 order_by 升序重排
func (r *QuestionRepository) FindActiveByLesson(lessonID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("lesson_id = ? AND is_active = ?", lessonID, true).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].OrderBy < questions[j].OrderBy
	})
	return questions, nil
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Save(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id string) error {
	return r.DB.Delete(&model.Question{}, "id = ?", id).Error
}
