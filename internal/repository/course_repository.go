package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CourseFilter 课程列表筛选条件
type CourseFilter struct {
	Type    string
	Tag     string
	Keyword string
	Page    int
	Limit   int
}

func (r *CourseRepository) FindActive(filter CourseFilter) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{}).Where("is_active = ?", true)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.Tag != "" {
		query = query.Joins("JOIN course_tags ct ON ct.course_id = courses.id").
			Joins("JOIN tags t ON t.id = ct.tag_id").
			Where("t.name = ?", filter.Tag)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	err := query.Preload("Tags").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Tags").First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id string) error {
	return r.DB.Delete(&model.Course{}, "id = ?", id).Error
}

func (r *CourseRepository) ReplaceTags(course *model.Course, tags []model.Tag) error {
	return r.DB.Model(course).Association("Tags").Replace(tags)
}

func (r *CourseRepository) FindOrCreateTag(name string) (*model.Tag, error) {
	var tag model.Tag
	err := r.DB.Where("name = ?", name).FirstOrCreate(&tag, model.Tag{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
