package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RoleController struct {
	RoleService *service.RoleService
}

func NewRoleController(roleService *service.RoleService) *RoleController {
	return &RoleController{RoleService: roleService}
}

// @Summary 角色列表
// @Tags 角色管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/roles [get]
func (c *RoleController) ListRoles(ctx *gin.Context) {
	roles, err := c.RoleService.ListRoles()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, roles)
}

// @Summary 权限列表
// @Tags 角色管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/permissions [get]
func (c *RoleController) ListPermissions(ctx *gin.Context) {
	perms, err := c.RoleService.ListPermissions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, perms)
}

// @Summary 创建角色
// @Tags 角色管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RoleRequest true "角色信息"
// @Success 201 {object} util.Response
// @Router /api/admin/roles [post]
func (c *RoleController) CreateRole(ctx *gin.Context) {
	var req service.RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.RoleService.CreateRole(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, role)
}

// @Summary 更新角色
// @Tags 角色管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "角色ID"
// @Param body body service.RoleRequest true "角色信息"
// @Success 200 {object} util.Response
// @Router /api/admin/roles/{id} [put]
func (c *RoleController) UpdateRole(ctx *gin.Context) {
	var req service.RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.RoleService.UpdateRole(ctx.Param("id"), req)
	if err != nil {
		if err == util.ErrRoleNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, role)
}

// @Summary 删除角色
// @Tags 角色管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "角色ID"
// @Success 200 {object} util.Response
// @Router /api/admin/roles/{id} [delete]
func (c *RoleController) DeleteRole(ctx *gin.Context) {
	if err := c.RoleService.DeleteRole(ctx.Param("id")); err != nil {
		if err == util.ErrRoleNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
