package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// @Summary 报名课程
// @Description 幂等报名，重复报名返回已报名确认
// @Tags 报名
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	result, err := c.EnrollmentService.Enroll(claims.UserID, ctx.Param("id"))
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 报名状态
// @Tags 报名
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enrollment [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	resp, err := c.EnrollmentService.GetEnrollment(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if resp == nil {
		util.Success(ctx, gin.H{"enrolled": false})
		return
	}
	util.Success(ctx, gin.H{"enrolled": true, "enrollment": resp})
}
