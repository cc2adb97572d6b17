package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type RoleService struct {
	RoleRepo *repository.RoleRepository
}

func NewRoleService(roleRepo *repository.RoleRepository) *RoleService {
	return &RoleService{RoleRepo: roleRepo}
}

func (s *RoleService) ListRoles() ([]model.Role, error) {
	return s.RoleRepo.ListRoles()
}

func (s *RoleService) ListPermissions() ([]model.Permission, error) {
	return s.RoleRepo.ListPermissions()
}

type RoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"` // permission code 列表
}

func (s *RoleService) CreateRole(req RoleRequest) (*model.Role, error) {
	perms, err := s.RoleRepo.FindPermissionsByCodes(req.Permissions)
	if err != nil {
		return nil, err
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: perms,
	}
	if err := s.RoleRepo.CreateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) UpdateRole(roleID string, req RoleRequest) (*model.Role, error) {
	role, err := s.RoleRepo.FindRoleByID(roleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrRoleNotFound
		}
		return nil, err
	}

	role.Name = req.Name
	role.Description = req.Description
	if err := s.RoleRepo.SaveRole(role); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		perms, err := s.RoleRepo.FindPermissionsByCodes(req.Permissions)
		if err != nil {
			return nil, err
		}
		if err := s.RoleRepo.ReplacePermissions(role, perms); err != nil {
			return nil, err
		}
	}
	return s.RoleRepo.FindRoleByID(roleID)
}

func (s *RoleService) DeleteRole(roleID string) error {
	if _, err := s.RoleRepo.FindRoleByID(roleID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrRoleNotFound
		}
		return err
	}
	return s.RoleRepo.DeleteRole(roleID)
}
