package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"lms_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
)

// QuizSessionRepository 答题会话存 Redis，整个会话对象一个键，
// TTL 到期后索引与得分一起失效
type QuizSessionRepository struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewQuizSessionRepository(rdb *redis.Client, ttl time.Duration) *QuizSessionRepository {
	return &QuizSessionRepository{RDB: rdb, TTL: ttl}
}

func sessionKey(userID, lessonID string) string {
	return fmt.Sprintf("quiz:session:%s:%s", userID, lessonID)
}

func (r *QuizSessionRepository) Get(ctx context.Context, userID, lessonID string) (*model.QuizSession, error) {
	data, err := r.RDB.Get(ctx, sessionKey(userID, lessonID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session model.QuizSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *QuizSessionRepository) Save(ctx context.Context, session *model.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, sessionKey(session.UserID, session.LessonID), data, r.TTL).Err()
}

func (r *QuizSessionRepository) Delete(ctx context.Context, userID, lessonID string) error {
	return r.RDB.Del(ctx, sessionKey(userID, lessonID)).Err()
}
