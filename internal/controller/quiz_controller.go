package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 开始测验
// @Description 开始或恢复课时测验，进行中的会话原样恢复
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/quiz/start [post]
func (c *QuizController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.Start(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if err == util.ErrLessonNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 当前测验状态
// @Description 用于刷新后恢复：当前题目索引、得分、完成态
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/quiz [get]
func (c *QuizController) Current(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.Current(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if err == util.ErrQuizSessionNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 提交答案
// @Description 首次作答计分，重复作答幂等
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Param body body service.AnswerSubmission true "答案"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/quiz/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	var sub service.AnswerSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.QuizService.Answer(ctx.Request.Context(), claims.UserID, ctx.Param("id"), sub)
	if err != nil {
		switch err {
		case util.ErrQuizSessionNotFound, util.ErrQuestionNotFound:
			util.NotFound(ctx)
		case util.ErrQuizAlreadyDone:
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// @Summary 下一题
// @Description 推进到下一题；最后一题上触发完成与成绩上报
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/quiz/next [post]
func (c *QuizController) Next(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.Next(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if err == util.ErrQuizSessionNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 重新开始
// @Description 得分、已答集合、索引全部归零
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/quiz/restart [post]
func (c *QuizController) Restart(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.Restart(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if err == util.ErrQuizSessionNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
