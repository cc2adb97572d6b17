package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserDisabled        = errors.New("账号已被禁用")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuizSessionNotFound = errors.New("quiz session not found or expired")
	ErrQuizAlreadyDone     = errors.New("quiz already completed")
	ErrCourseNotCompleted  = errors.New("course not completed yet")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrOAuthStateMismatch  = errors.New("oauth state mismatch")
)
