package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
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

// memorySessionStore 模拟 Redis 的序列化行为：存取都是副本
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.QuizSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]*model.QuizSession{}}
}

func copySession(s *model.QuizSession) *model.QuizSession {
	cp := *s
	cp.Answered = make(map[string]bool, len(s.Answered))
	for k, v := range s.Answered {
		cp.Answered[k] = v
	}
	return &cp
}

func (m *memorySessionStore) Get(_ context.Context, userID, lessonID string) (*model.QuizSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID+":"+lessonID]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

func (m *memorySessionStore) Save(_ context.Context, session *model.QuizSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID+":"+session.LessonID] = copySession(session)
	return nil
}

func (m *memorySessionStore) Delete(_ context.Context, userID, lessonID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID+":"+lessonID)
	return nil
}

type quizFixture struct {
	db       *gorm.DB
	svc      *QuizService
	respRepo *repository.ResponseRepository
	courseID string
	lessons  []string // 按 OrderBy 升序
}

// seedQuiz 建一门三课时课程，每课时 3 道单选题（各 1 分），
// 选项文本为 "a" / "b" / "cde"，正确答案依次为 a, b, cde
func seedQuiz(t *testing.T) *quizFixture {
	t.Helper()
	db := newTestDB(t)

	course := &model.Course{Title: "测试课程", Type: model.CourseFree, IsActive: true}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	answers := []string{"a", "b", "cde"}
	lessonIDs := make([]string, 0, 3)
	for i := 1; i <= 3; i++ {
		lesson := &model.Lesson{
			CourseID: course.ID,
			Title:    fmt.Sprintf("第%d课", i),
			OrderBy:  i,
			IsActive: true,
		}
		if err := db.Create(lesson).Error; err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		lessonIDs = append(lessonIDs, lesson.ID)

		for j, answer := range answers {
			q := &model.Question{
				LessonID:     lesson.ID,
				CourseID:     course.ID,
				QuestionText: fmt.Sprintf("第%d题", j+1),
				Options: []model.QuestionOption{
					{Text: "a"}, {Text: "b"}, {Text: "cde"},
				},
				CorrectAnswer: answer,
				Points:        1,
				OrderBy:       j + 1,
				IsActive:      true,
			}
			if err := db.Create(q).Error; err != nil {
				t.Fatalf("create question: %v", err)
			}
		}
	}

	respRepo := repository.NewResponseRepository(db)
	svc := NewQuizService(
		repository.NewQuestionRepository(db),
		repository.NewLessonRepository(db),
		respRepo,
		newMemorySessionStore(),
	)

	return &quizFixture{
		db:       db,
		svc:      svc,
		respRepo: respRepo,
		courseID: course.ID,
		lessons:  lessonIDs,
	}
}

// completeQuiz 全对答完一课，返回最终视图
func completeQuiz(t *testing.T, f *quizFixture, userID, lessonID string) *QuizView {
	t.Helper()
	ctx := context.Background()

	view, err := f.svc.Start(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}

	for view.State == model.QuizInProgress {
		sub := AnswerSubmission{
			QuestionID:     view.Question.ID,
			SelectedOption: answerFor(t, f.db, view.Question.ID),
		}
		if _, err := f.svc.Answer(ctx, userID, lessonID, sub); err != nil {
			t.Fatalf("answer: %v", err)
		}
		view, err = f.svc.Next(ctx, userID, lessonID)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	return view
}

func answerFor(t *testing.T, db *gorm.DB, questionID string) string {
	t.Helper()
	var q model.Question
	if err := db.First(&q, "id = ?", questionID).Error; err != nil {
		t.Fatalf("load question: %v", err)
	}
	return q.CorrectAnswer
}

func TestStartEmptyLesson(t *testing.T) {
	f := seedQuiz(t)

	lesson := &model.Lesson{CourseID: f.courseID, Title: "空课时", OrderBy: 9, IsActive: true}
	if err := f.db.Create(lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	view, err := f.svc.Start(context.Background(), "user-1", lesson.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !view.NoQuestions {
		t.Error("expected NoQuestions for lesson without questions")
	}
	if view.Question != nil {
		t.Error("expected no question payload")
	}
}

func TestStartUnknownLesson(t *testing.T) {
	f := seedQuiz(t)
	if _, err := f.svc.Start(context.Background(), "user-1", "no-such-lesson"); err != util.ErrLessonNotFound {
		t.Errorf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestFullRunPerfectScore(t *testing.T) {
	f := seedQuiz(t)

	view := completeQuiz(t, f, "user-1", f.lessons[0])

	if view.State != model.QuizCompleted {
		t.Fatalf("expected completed state, got %s", view.State)
	}
	r := view.Result
	if r == nil {
		t.Fatal("expected result payload")
	}
	if r.Score != 3 || r.CorrectCount != 3 || r.Total != 3 {
		t.Errorf("expected 3/3/3, got score=%d correct=%d total=%d", r.Score, r.CorrectCount, r.Total)
	}
	if r.ScorePercentage != 100 {
		t.Errorf("expected 100%%, got %v", r.ScorePercentage)
	}
	// 第一课不是最后一课
	if r.CourseCompleted {
		t.Error("course should not be completed after first lesson")
	}

	resp, err := f.respRepo.FindLessonResponse("user-1", f.lessons[0])
	if err != nil {
		t.Fatalf("find lesson response: %v", err)
	}
	if !resp.IsCompleted || resp.ScorePercentage != 100 {
		t.Errorf("lesson response not persisted correctly: %+v", resp)
	}
}

func TestAnswerIdempotent(t *testing.T) {
	f := seedQuiz(t)
	ctx := context.Background()
	userID, lessonID := "user-1", f.lessons[0]

	view, err := f.svc.Start(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	qid := view.Question.ID

	first, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{QuestionID: qid, SelectedOption: "a"})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !first.Correct || first.PointsAwarded != 1 || first.Score != 1 {
		t.Errorf("first answer should score: %+v", first)
	}

	// 同题重复作答：不再计分
	second, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{QuestionID: qid, SelectedOption: "a"})
	if err != nil {
		t.Fatalf("repeat answer: %v", err)
	}
	if !second.AlreadyAnswered {
		t.Error("expected AlreadyAnswered on repeat")
	}
	if second.Score != 1 || second.CorrectCount != 1 {
		t.Errorf("repeat answer must not change score: %+v", second)
	}
}

func TestAnswerUnknownOptionIsIncorrect(t *testing.T) {
	f := seedQuiz(t)
	ctx := context.Background()
	userID, lessonID := "user-1", f.lessons[0]

	view, err := f.svc.Start(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{
		QuestionID:     view.Question.ID,
		SelectedOption: "zzz",
	})
	if err != nil {
		t.Fatalf("answer with unknown option should not error: %v", err)
	}
	if result.Correct || result.PointsAwarded != 0 {
		t.Errorf("unknown option must be incorrect: %+v", result)
	}
}

func TestAnswerExactTextMatch(t *testing.T) {
	f := seedQuiz(t)
	ctx := context.Background()
	userID, lessonID := "user-1", f.lessons[0]

	view, err := f.svc.Start(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// 推进到第三题（正确答案 "cde"）
	for i := 0; i < 2; i++ {
		view, err = f.svc.Next(ctx, userID, lessonID)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	// 前缀不算命中
	result, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{
		QuestionID:     view.Question.ID,
		SelectedOption: "cd",
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if result.Correct {
		t.Error(`partial text "cd" must not match option "cde"`)
	}
	if result.CorrectAnswer != "cde" {
		t.Errorf("expected revealed answer cde, got %q", result.CorrectAnswer)
	}
}

func TestResumeKeepsProgress(t *testing.T) {
	f := seedQuiz(t)
	ctx := context.Background()
	userID, lessonID := "user-1", f.lessons[0]

	view, err := f.svc.Start(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{QuestionID: view.Question.ID, SelectedOption: "a"}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := f.svc.Next(ctx, userID, lessonID); err != nil {
		t.Fatalf("next: %v", err)
	}

	// 再次 Start 恢复进行中的会话，而不是重建
	resumed, err := f.svc.Start(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("restart start: %v", err)
	}
	if resumed.Index != 1 {
		t.Errorf("expected resumed index 1, got %d", resumed.Index)
	}

	result, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{QuestionID: resumed.Question.ID, SelectedOption: "b"})
	if err != nil {
		t.Fatalf("answer after resume: %v", err)
	}
	if result.Score != 2 {
		t.Errorf("expected accumulated score 2 after resume, got %d", result.Score)
	}
}

func TestRestartResetsEverything(t *testing.T) {
	f := seedQuiz(t)
	ctx := context.Background()
	userID, lessonID := "user-1", f.lessons[0]

	view, err := f.svc.Start(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{QuestionID: view.Question.ID, SelectedOption: "a"}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := f.svc.Next(ctx, userID, lessonID); err != nil {
		t.Fatalf("next: %v", err)
	}

	view, err = f.svc.Restart(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if view.Index != 0 || view.State != model.QuizInProgress {
		t.Errorf("restart must reset index/state: %+v", view)
	}

	// 重开后首题可重新计分
	result, err := f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{QuestionID: view.Question.ID, SelectedOption: "a"})
	if err != nil {
		t.Fatalf("answer after restart: %v", err)
	}
	if result.AlreadyAnswered || result.Score != 1 {
		t.Errorf("restarted quiz behaves like a fresh one: %+v", result)
	}
}

func TestCourseCompletedOnlyOnFinalLesson(t *testing.T) {
	f := seedQuiz(t)
	userID := "user-1"

	// 前两课完成：课程未完成
	for _, lessonID := range f.lessons[:2] {
		view := completeQuiz(t, f, userID, lessonID)
		if view.Result.CourseCompleted {
			t.Fatalf("course completed too early on lesson %s", lessonID)
		}
	}

	resp, err := f.respRepo.FindCourseResponse(userID, f.courseID)
	if err != nil {
		t.Fatalf("find course response: %v", err)
	}
	if resp.IsCompleted {
		t.Fatal("course row must not be completed before final lesson")
	}

	// 最后一课触发课程完成
	view := completeQuiz(t, f, userID, f.lessons[2])
	if !view.Result.CourseCompleted {
		t.Fatal("expected course completed after final lesson")
	}

	resp, err = f.respRepo.FindCourseResponse(userID, f.courseID)
	if err != nil {
		t.Fatalf("find course response: %v", err)
	}
	if !resp.IsCompleted {
		t.Error("course completion not persisted")
	}
}

func TestCompletedQuizIsTerminal(t *testing.T) {
	f := seedQuiz(t)
	ctx := context.Background()
	userID, lessonID := "user-1", f.lessons[0]

	view := completeQuiz(t, f, userID, lessonID)
	score := view.Result.Score

	// 完成后的 Next 幂等返回结果
	again, err := f.svc.Next(ctx, userID, lessonID)
	if err != nil {
		t.Fatalf("next after completion: %v", err)
	}
	if again.State != model.QuizCompleted || again.Result.Score != score {
		t.Errorf("repeated next changed result: %+v", again.Result)
	}

	// 完成后不允许继续作答
	questions, _ := f.svc.QuestionRepo.FindActiveByLesson(lessonID)
	_, err = f.svc.Answer(ctx, userID, lessonID, AnswerSubmission{
		QuestionID:     questions[0].ID,
		SelectedOption: "a",
	})
	if err != util.ErrQuizAlreadyDone {
		t.Errorf("expected ErrQuizAlreadyDone, got %v", err)
	}

	// 课时成绩行只有一条
	var count int64
	f.db.Model(&model.UserLessonResponse{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected a single lesson response row, got %d", count)
	}
}

func TestCurrentWithoutSession(t *testing.T) {
	f := seedQuiz(t)
	if _, err := f.svc.Current(context.Background(), "user-1", f.lessons[0]); err != util.ErrQuizSessionNotFound {
		t.Errorf("expected ErrQuizSessionNotFound, got %v", err)
	}
}
