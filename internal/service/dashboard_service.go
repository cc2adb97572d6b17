package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
)

type DashboardService struct {
	ResponseRepo *repository.ResponseRepository
	CourseRepo   *repository.CourseRepository
	LessonRepo   *repository.LessonRepository
	CertRepo     *repository.CertificateRepository
}

func NewDashboardService(
	responseRepo *repository.ResponseRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	certRepo *repository.CertificateRepository,
) *DashboardService {
	return &DashboardService{
		ResponseRepo: responseRepo,
		CourseRepo:   courseRepo,
		LessonRepo:   lessonRepo,
		CertRepo:     certRepo,
	}
}

type LessonProgress struct {
	LessonID        string  `json:"lessonId"`
	Title           string  `json:"title"`
	OrderBy         int     `json:"orderBy"`
	IsCompleted     bool    `json:"isCompleted"`
	ScorePercentage float64 `json:"scorePercentage"`
	Status          string  `json:"status"`
}

type CourseProgress struct {
	Course            *model.Course    `json:"course"`
	IsCompleted       bool             `json:"isCompleted"`
	CompletionPercent float64          `json:"completionPercent"`
	Lessons           []LessonProgress `json:"lessons"`
	HasCertificate    bool             `json:"hasCertificate"`
}

type Dashboard struct {
	Courses          []CourseProgress `json:"courses"`
	CompletedCourses int              `json:"completedCourses"`
	TotalCourses     int              `json:"totalCourses"`
}

// GetDashboard 学员面板：已报名课程 + 各课时完成情况与总体进度
func (s *DashboardService) GetDashboard(userID string) (*Dashboard, error) {
	enrollments, err := s.ResponseRepo.ListCourseResponses(userID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Courses:      make([]CourseProgress, 0, len(enrollments)),
		TotalCourses: len(enrollments),
	}

	for _, enrollment := range enrollments {
		course, err := s.CourseRepo.FindByID(enrollment.CourseID)
		if err != nil {
			continue // 课程可能已下架，跳过
		}

		progress, err := s.buildCourseProgress(userID, course, &enrollment)
		if err != nil {
			return nil, err
		}

		if progress.IsCompleted {
			dashboard.CompletedCourses++
		}
		dashboard.Courses = append(dashboard.Courses, *progress)
	}

	return dashboard, nil
}

func (s *DashboardService) buildCourseProgress(userID string, course *model.Course, enrollment *model.UserCourseResponse) (*CourseProgress, error) {
	lessons, err := s.LessonRepo.FindActiveByCourse(course.ID)
	if err != nil {
		return nil, err
	}

	lessonResponses, err := s.ResponseRepo.ListLessonResponses(userID, course.ID)
	if err != nil {
		return nil, err
	}

	byLesson := make(map[string]*model.UserLessonResponse, len(lessonResponses))
	for i := range lessonResponses {
		byLesson[lessonResponses[i].LessonID] = &lessonResponses[i]
	}

	progress := &CourseProgress{
		Course:      course,
		IsCompleted: enrollment.IsCompleted,
		Lessons:     make([]LessonProgress, 0, len(lessons)),
	}

	completed := 0
	for _, lesson := range lessons {
		lp := LessonProgress{
			LessonID: lesson.ID,
			Title:    lesson.Title,
			OrderBy:  lesson.OrderBy,
			Status:   model.LessonStatusInProgress,
		}
		if resp, ok := byLesson[lesson.ID]; ok {
			lp.IsCompleted = resp.IsCompleted
			lp.ScorePercentage = resp.ScorePercentage
			lp.Status = resp.Status
			if resp.IsCompleted {
				completed++
			}
		}
		progress.Lessons = append(progress.Lessons, lp)
	}

	if len(lessons) > 0 {
		progress.CompletionPercent = float64(completed) / float64(len(lessons)) * 100
	}

	if _, err := s.CertRepo.FindByUserAndCourse(userID, course.ID); err == nil {
		progress.HasCertificate = true
	}

	return progress, nil
}
