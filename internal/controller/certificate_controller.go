package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// @Summary 获取课程证书
// @Description 课程完成后按需签发，已有证书直接返回
// @Tags 证书
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/certificate [get]
func (c *CertificateController) GetCourseCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	cert, err := c.CertificateService.IssueOrGet(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		if err == util.ErrCourseNotCompleted {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// @Summary 我的证书
// @Tags 证书
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certs, err := c.CertificateService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// @Summary 证书验真
// @Description 按编号公开查询证书真伪，无需登录
// @Tags 证书
// @Produce json
// @Param serial path string true "证书编号"
// @Success 200 {object} util.Response
// @Router /api/certificates/verify/{serial} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	cert, err := c.CertificateService.Verify(ctx.Param("serial"))
	if err != nil {
		if err == util.ErrCertificateNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}
