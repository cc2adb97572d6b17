package service

import (
	"context"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizSessionStore 答题会话存储。线上实现为 Redis（带 TTL），
// 测试用内存实现
type QuizSessionStore interface {
	Get(ctx context.Context, userID, lessonID string) (*model.QuizSession, error)
	Save(ctx context.Context, session *model.QuizSession) error
	Delete(ctx context.Context, userID, lessonID string) error
}

type QuizService struct {
	QuestionRepo *repository.QuestionRepository
	LessonRepo   *repository.LessonRepository
	ResponseRepo *repository.ResponseRepository
	Sessions     QuizSessionStore
}

func NewQuizService(
	questionRepo *repository.QuestionRepository,
	lessonRepo *repository.LessonRepository,
	responseRepo *repository.ResponseRepository,
	sessions QuizSessionStore,
) *QuizService {
	return &QuizService{
		QuestionRepo: questionRepo,
		LessonRepo:   lessonRepo,
		ResponseRepo: responseRepo,
		Sessions:     sessions,
	}
}

// QuizQuestionView 下发给前端的题目，不携带正确答案
type QuizQuestionView struct {
	ID           string                 `json:"id"`
	QuestionText string                 `json:"questionText"`
	Options      []model.QuestionOption `json:"options"`
	Points       int                    `json:"points"`
}

// QuizResultView 完成态数据
type QuizResultView struct {
	Score           int     `json:"score"`
	CorrectCount    int     `json:"correctCount"`
	Total           int     `json:"total"`
	ScorePercentage float64 `json:"scorePercentage"`
	CourseCompleted bool    `json:"courseCompleted"`
	// 完成上报写库失败时附带提示，测验结果本身不受影响
	Warning string `json:"warning,omitempty"`
}

// QuizView 会话视图：进行中携带当前题目，完成后携带结果
type QuizView struct {
	LessonID    string            `json:"lessonId"`
	CourseID    string            `json:"courseId"`
	State       model.QuizState   `json:"state"`
	Index       int               `json:"index"`
	Total       int               `json:"total"`
	NoQuestions bool              `json:"noQuestions,omitempty"`
	Question    *QuizQuestionView `json:"question,omitempty"`
	Result      *QuizResultView   `json:"result,omitempty"`
}

// AnswerResult 单题判定结果
type AnswerResult struct {
	QuestionID      string `json:"questionId"`
	Correct         bool   `json:"correct"`
	AlreadyAnswered bool   `json:"alreadyAnswered"`
	PointsAwarded   int    `json:"pointsAwarded"`
	CorrectAnswer   string `json:"correctAnswer"`
	Explanation     string `json:"explanation,omitempty"`
	Score           int    `json:"score"`
	CorrectCount    int    `json:"correctCount"`
}

type AnswerSubmission struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedOption string `json:"selectedOption" binding:"required"`
}

// Start 开始（或恢复）课时测验。进行中的会话原样恢复：
// 索引、得分、已答集合是一个对象，要么全在要么全失效。
func (s *QuizService) Start(ctx context.Context, userID, lessonID string) (*QuizView, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if !lesson.IsActive {
		return nil, util.ErrLessonNotFound
	}

	questions, err := s.QuestionRepo.FindActiveByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	// 题目为空是一个渲染态，不是错误
	if len(questions) == 0 {
		return &QuizView{
			LessonID:    lessonID,
			CourseID:    lesson.CourseID,
			NoQuestions: true,
		}, nil
	}

	// 首次开始即懒创建报名行；失败只记日志，不阻断答题
	if _, err := s.ResponseRepo.EnsureCourseResponse(userID, lesson.CourseID, userID); err != nil {
		logger.Log.Error("failed to ensure course response on quiz start",
			zap.String("userId", userID), zap.String("courseId", lesson.CourseID), zap.Error(err))
	}

	session, err := s.Sessions.Get(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	if session == nil || session.State != model.QuizInProgress || session.TotalQuestions != len(questions) {
		rank, count, err := s.LessonRepo.RankInCourse(lesson)
		if err != nil {
			return nil, err
		}

		session = &model.QuizSession{
			UserID:         userID,
			LessonID:       lessonID,
			CourseID:       lesson.CourseID,
			TotalQuestions: len(questions),
			LessonRank:     rank,
			LessonCount:    count,
		}
		session.Reset()
		session.StartedAt = time.Now()

		if err := s.Sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	return s.viewOf(session, questions), nil
}

// Current 当前会话视图，用于页面刷新后的恢复
func (s *QuizService) Current(ctx context.Context, userID, lessonID string) (*QuizView, error) {
	session, questions, err := s.load(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	return s.viewOf(session, questions), nil
}

// Answer 判题。首次作答计分并记入已答集合，重复作答对得分与
// 正确数一律无效（幂等）。选项之外的值按答错处理，不报错。
func (s *QuizService) Answer(ctx context.Context, userID, lessonID string, sub AnswerSubmission) (*AnswerResult, error) {
	session, questions, err := s.load(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if session.State == model.QuizCompleted {
		return nil, util.ErrQuizAlreadyDone
	}

	var question *model.Question
	for i := range questions {
		if questions[i].ID == sub.QuestionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return nil, util.ErrQuestionNotFound
	}

	correct := sub.SelectedOption == question.CorrectAnswer

	result := &AnswerResult{
		QuestionID:    question.ID,
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
	}

	if session.Answered[question.ID] {
		result.AlreadyAnswered = true
	} else {
		session.Answered[question.ID] = true
		if correct {
			session.Score += question.Points
			session.CorrectCount++
			result.PointsAwarded = question.Points
		}
		if err := s.Sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	result.Score = session.Score
	result.CorrectCount = session.CorrectCount
	return result, nil
}

// Next 推进会话。最后一题上的 next 触发完成上报；已完成的会话
// 不会重复上报，原样返回结果。
func (s *QuizService) Next(ctx context.Context, userID, lessonID string) (*QuizView, error) {
	session, questions, err := s.load(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	if session.State == model.QuizCompleted {
		return s.viewOf(session, questions), nil
	}

	if session.CurrentIndex < session.TotalQuestions-1 {
		session.CurrentIndex++
		if err := s.Sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return s.viewOf(session, questions), nil
	}

	// 终态
	session.State = model.QuizCompleted
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	view := s.viewOf(session, questions)
	s.reportCompletion(session, view.Result)
	return view, nil
}

// Restart 显式重新开始：得分、正确数、已答集合、索引全部归零
func (s *QuizService) Restart(ctx context.Context, userID, lessonID string) (*QuizView, error) {
	session, questions, err := s.load(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	session.Reset()
	session.StartedAt = time.Now()
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.viewOf(session, questions), nil
}

func (s *QuizService) load(ctx context.Context, userID, lessonID string) (*model.QuizSession, []model.Question, error) {
	session, err := s.Sessions.Get(ctx, userID, lessonID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, util.ErrQuizSessionNotFound
	}

	questions, err := s.QuestionRepo.FindActiveByLesson(lessonID)
	if err != nil {
		return nil, nil, err
	}
	return session, questions, nil
}

func (s *QuizService) viewOf(session *model.QuizSession, questions []model.Question) *QuizView {
	view := &QuizView{
		LessonID: session.LessonID,
		CourseID: session.CourseID,
		State:    session.State,
		Index:    session.CurrentIndex,
		Total:    session.TotalQuestions,
	}

	if session.State == model.QuizCompleted {
		pct := 0.0
		if session.TotalQuestions > 0 {
			pct = float64(session.CorrectCount) / float64(session.TotalQuestions) * 100
		}
		view.Result = &QuizResultView{
			Score:           session.Score,
			CorrectCount:    session.CorrectCount,
			Total:           session.TotalQuestions,
			ScorePercentage: pct,
			CourseCompleted: session.LessonRank == session.LessonCount,
		}
		return view
	}

	if session.CurrentIndex < len(questions) {
		q := questions[session.CurrentIndex]
		view.Question = &QuizQuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
			Points:       q.Points,
		}
	}
	return view
}

// reportCompletion 完成上报：写课时成绩，若是课程最后一课则写
// 课程完成。写失败记日志并附带 warning，不回滚已完成的会话。
func (s *QuizService) reportCompletion(session *model.QuizSession, result *QuizResultView) {
	lessonResp := &model.UserLessonResponse{
		UserID:          session.UserID,
		LessonID:        session.LessonID,
		CourseID:        session.CourseID,
		IsCompleted:     true,
		ScorePercentage: result.ScorePercentage,
		Status:          model.LessonStatusCompleted,
		CreatedBy:       session.UserID,
		UpdatedBy:       session.UserID,
	}

	if err := s.ResponseRepo.UpsertLessonResponse(lessonResp); err != nil {
		logger.Log.Error("failed to persist lesson completion",
			zap.String("userId", session.UserID),
			zap.String("lessonId", session.LessonID),
			zap.Error(err))
		result.Warning = "成绩保存失败，请稍后重试"
		result.CourseCompleted = false
		return
	}

	// 课时序号与课程课时总数在开始时已记录，这里只做本地比较
	if session.LessonRank == session.LessonCount {
		if err := s.ResponseRepo.MarkCourseCompleted(session.UserID, session.CourseID, session.UserID); err != nil {
			logger.Log.Error("failed to persist course completion",
				zap.String("userId", session.UserID),
				zap.String("courseId", session.CourseID),
				zap.Error(err))
			result.Warning = "课程完成状态保存失败，请稍后重试"
			return
		}
		result.CourseCompleted = true
		monitoring.QuizCompletions.WithLabelValues("true").Inc()
		return
	}

	result.CourseCompleted = false
	monitoring.QuizCompletions.WithLabelValues("false").Inc()
}
