package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	Storage      *StorageService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	storage *StorageService,
) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		Storage:      storage,
	}
}

func (s *CourseService) ListCourses(filter repository.CourseFilter) ([]model.Course, int64, error) {
	return s.CourseRepo.FindActive(filter)
}

// CourseDetail 详情：课程 + 激活课时（升序）
type CourseDetail struct {
	Course  *model.Course  `json:"course"`
	Lessons []model.Lesson `json:"lessons"`
}

func (s *CourseService) GetCourseDetail(courseID string) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := s.LessonRepo.FindActiveByCourse(courseID)
	if err != nil {
		return nil, err
	}

	return &CourseDetail{Course: course, Lessons: lessons}, nil
}

func (s *CourseService) GetLesson(lessonID string) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

// ----- 管理端 -----

type CourseRequest struct {
	Title        string   `json:"title" binding:"required"`
	Type         string   `json:"type"`
	Duration     int      `json:"duration"`
	DurationUnit string   `json:"durationUnit"`
	Detail       string   `json:"detail"`
	ImageURL     string   `json:"imageUrl"`
	VideoURL     string   `json:"videoUrl"`
	IsActive     *bool    `json:"isActive"`
	Tags         []string `json:"tags"`
}

func (s *CourseService) CreateCourse(req CourseRequest, actorID string) (*model.Course, error) {
	course := &model.Course{
		Title:        req.Title,
		Type:         model.CourseType(req.Type),
		Duration:     req.Duration,
		DurationUnit: req.DurationUnit,
		Detail:       req.Detail,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
		IsActive:     true,
		CreatedBy:    actorID,
		UpdatedBy:    actorID,
	}
	if course.Type == "" {
		course.Type = model.CourseFree
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	if len(req.Tags) > 0 {
		if err := s.attachTags(course, req.Tags); err != nil {
			return nil, err
		}
	}
	return s.CourseRepo.FindByID(course.ID)
}

func (s *CourseService) UpdateCourse(courseID string, req CourseRequest, actorID string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = req.Title
	if req.Type != "" {
		course.Type = model.CourseType(req.Type)
	}
	course.Duration = req.Duration
	course.DurationUnit = req.DurationUnit
	course.Detail = req.Detail
	if req.ImageURL != "" {
		course.ImageURL = req.ImageURL
	}
	if req.VideoURL != "" {
		course.VideoURL = req.VideoURL
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	course.UpdatedBy = actorID

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}

	if req.Tags != nil {
		if err := s.attachTags(course, req.Tags); err != nil {
			return nil, err
		}
	}
	return s.CourseRepo.FindByID(course.ID)
}

func (s *CourseService) DeleteCourse(courseID string) error {
	return s.CourseRepo.Delete(courseID)
}

func (s *CourseService) attachTags(course *model.Course, names []string) error {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.CourseRepo.FindOrCreateTag(name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	return s.CourseRepo.ReplaceTags(course, tags)
}

type LessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	OrderBy  int    `json:"orderBy"`
	VideoURL string `json:"videoUrl"`
	IsActive *bool  `json:"isActive"`
}

func (s *CourseService) CreateLesson(courseID string, req LessonRequest, actorID string) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID:  courseID,
		Title:     req.Title,
		Content:   req.Content,
		OrderBy:   req.OrderBy,
		VideoURL:  req.VideoURL,
		IsActive:  true,
		CreatedBy: actorID,
		UpdatedBy: actorID,
	}
	if req.IsActive != nil {
		lesson.IsActive = *req.IsActive
	}

	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) UpdateLesson(lessonID string, req LessonRequest, actorID string) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.OrderBy = req.OrderBy
	if req.VideoURL != "" {
		lesson.VideoURL = req.VideoURL
	}
	if req.IsActive != nil {
		lesson.IsActive = *req.IsActive
	}
	lesson.UpdatedBy = actorID

	if err := s.LessonRepo.Save(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) DeleteLesson(lessonID string) error {
	return s.LessonRepo.Delete(lessonID)
}

type QuestionRequest struct {
	QuestionText  string                 `json:"questionText" binding:"required"`
	Options       []model.QuestionOption `json:"options" binding:"required"`
	CorrectAnswer string                 `json:"correctAnswer" binding:"required"`
	Points        int                    `json:"points"`
	OrderBy       int                    `json:"orderBy"`
	Explanation   string                 `json:"explanation"`
	IsActive      *bool                  `json:"isActive"`
}

// validateQuestion 选项文本题内唯一，正确答案必须与且仅与一个选项相等
func validateQuestion(req *QuestionRequest) error {
	seen := make(map[string]bool, len(req.Options))
	matches := 0
	for _, opt := range req.Options {
		if seen[opt.Text] {
			return fmt.Errorf("duplicate option text: %q", opt.Text)
		}
		seen[opt.Text] = true
		if opt.Text == req.CorrectAnswer {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("correct_answer must match exactly one option, matched %d", matches)
	}
	return nil
}

func (s *CourseService) CreateQuestion(lessonID string, req QuestionRequest) (*model.Question, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if err := validateQuestion(&req); err != nil {
		return nil, err
	}

	question := &model.Question{
		LessonID:      lessonID,
		CourseID:      lesson.CourseID,
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		OrderBy:       req.OrderBy,
		Explanation:   req.Explanation,
		IsActive:      true,
	}
	if question.Points <= 0 {
		question.Points = 1
	}
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *CourseService) UpdateQuestion(questionID string, req QuestionRequest) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	if err := validateQuestion(&req); err != nil {
		return nil, err
	}

	question.QuestionText = req.QuestionText
	question.Options = req.Options
	question.CorrectAnswer = req.CorrectAnswer
	if req.Points > 0 {
		question.Points = req.Points
	}
	question.OrderBy = req.OrderBy
	question.Explanation = req.Explanation
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}

	if err := s.QuestionRepo.Save(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *CourseService) DeleteQuestion(questionID string) error {
	return s.QuestionRepo.Delete(questionID)
}

func (s *CourseService) ListLessonQuestions(lessonID string) ([]model.Question, error) {
	return s.QuestionRepo.FindActiveByLesson(lessonID)
}

// MediaUploadResult 课时媒体上传结果
type MediaUploadResult struct {
	URL          string          `json:"url"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty"`
	VideoInfo    *util.VideoInfo `json:"videoInfo,omitempty"`
}

// UploadLessonMedia 上传课时图片/视频。视频先落临时文件探测元数据并
// 截取封面，封面与视频一并入存储。
func (s *CourseService) UploadLessonMedia(ctx context.Context, lessonID string, file *multipart.FileHeader) (*MediaUploadResult, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage, util.MimeVideo})
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("lessons/%s/%d%s", lessonID, time.Now().UnixNano(), ext)

	if util.IsImage(mimeType) {
		url, err := s.Storage.Upload(ctx, objectName, src, file.Size, mimeType)
		if err != nil {
			return nil, err
		}
		return &MediaUploadResult{URL: url}, nil
	}

	// 视频：写临时文件供 ffmpeg 处理
	tmp, err := os.CreateTemp("", "lesson-video-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return nil, err
	}

	info, err := util.ProbeVideo(tmp.Name())
	if err != nil {
		return nil, err
	}

	result := &MediaUploadResult{VideoInfo: info}

	thumbPath := tmp.Name() + ".jpg"
	if err := util.ExtractThumbnail(tmp.Name(), thumbPath); err != nil {
		// 截帧失败不阻断上传
		logger.Log.Warn("thumbnail extraction failed", zap.String("lessonId", lessonID), zap.Error(err))
	} else {
		defer os.Remove(thumbPath)
		thumbFile, err := os.Open(thumbPath)
		if err == nil {
			defer thumbFile.Close()
			stat, _ := thumbFile.Stat()
			thumbURL, err := s.Storage.Upload(ctx, objectName+".jpg", thumbFile, stat.Size(), "image/jpeg")
			if err == nil {
				result.ThumbnailURL = thumbURL
			}
		}
	}

	videoFile, err := os.Open(tmp.Name())
	if err != nil {
		return nil, err
	}
	defer videoFile.Close()

	url, err := s.Storage.Upload(ctx, objectName, videoFile, file.Size, mimeType)
	if err != nil {
		return nil, err
	}
	result.URL = url

	lesson.VideoURL = url
	lesson.ThumbnailURL = result.ThumbnailURL
	if err := s.LessonRepo.Save(lesson); err != nil {
		return nil, err
	}

	return result, nil
}
