package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	ResponseRepo *repository.ResponseRepository
	CourseRepo   *repository.CourseRepository
}

func NewEnrollmentService(responseRepo *repository.ResponseRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		ResponseRepo: responseRepo,
		CourseRepo:   courseRepo,
	}
}

type EnrollResult struct {
	CourseID        string `json:"courseId"`
	AlreadyEnrolled bool   `json:"alreadyEnrolled"`
	Message         string `json:"message"`
}

// Enroll 报名。底层为 ON CONFLICT DO NOTHING 的原子 upsert，
// 重复报名不产生第二行，只返回"已报名"确认。
func (s *EnrollmentService) Enroll(userID, courseID string) (*EnrollResult, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsActive {
		return nil, util.ErrCourseNotFound
	}

	created, err := s.ResponseRepo.EnsureCourseResponse(userID, courseID, userID)
	if err != nil {
		return nil, err
	}

	if !created {
		return &EnrollResult{
			CourseID:        courseID,
			AlreadyEnrolled: true,
			Message:         "已报名该课程",
		}, nil
	}

	return &EnrollResult{
		CourseID: courseID,
		Message:  "报名成功",
	}, nil
}

func (s *EnrollmentService) GetEnrollment(userID, courseID string) (*model.UserCourseResponse, error) {
	resp, err := s.ResponseRepo.FindCourseResponse(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return resp, nil
}
