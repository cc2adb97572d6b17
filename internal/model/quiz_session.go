package model

import "time"

type QuizState string

const (
	QuizInProgress QuizState = "in_progress"
	QuizCompleted  QuizState = "completed"
)

// QuizSession 答题会话，整体存入 Redis（带 TTL），不落库。
// 索引、得分、已答集合作为一个对象同存同失效。
type QuizSession struct {
	UserID         string          `json:"userId"`
	LessonID       string          `json:"lessonId"`
	CourseID       string          `json:"courseId"`
	State          QuizState       `json:"state"`
	CurrentIndex   int             `json:"currentIndex"`
	Score          int             `json:"score"`
	CorrectCount   int             `json:"correctCount"`
	Answered       map[string]bool `json:"answered"` // questionID -> 已计分
	TotalQuestions int             `json:"totalQuestions"`
	// 开始时记录课时在课程内的序号与课程激活课时总数，
	// 完成判定只做本地比较，不再回查
	LessonRank  int       `json:"lessonRank"`
	LessonCount int       `json:"lessonCount"`
	StartedAt   time.Time `json:"startedAt"`
}

// Reset 恢复到初始挂载状态（显式重新开始）
func (s *QuizSession) Reset() {
	s.State = QuizInProgress
	s.CurrentIndex = 0
	s.Score = 0
	s.CorrectCount = 0
	s.Answered = map[string]bool{}
}
