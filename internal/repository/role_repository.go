package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type RoleRepository struct {
	DB *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) ListRoles() ([]model.Role, error) {
	var roles []model.Role
	err := r.DB.Preload("Permissions").Order("created_at ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) FindRoleByID(id string) (*model.Role, error) {
	var role model.Role
	err := r.DB.Preload("Permissions").First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) CreateRole(role *model.Role) error {
	return r.DB.Create(role).Error
}

func (r *RoleRepository) SaveRole(role *model.Role) error {
	return r.DB.Save(role).Error
}

func (r *RoleRepository) DeleteRole(id string) error {
	return r.DB.Delete(&model.Role{}, "id = ?", id).Error
}

func (r *RoleRepository) ReplacePermissions(role *model.Role, perms []model.Permission) error {
	return r.DB.Model(role).Association("Permissions").Replace(perms)
}

func (r *RoleRepository) ListPermissions() ([]model.Permission, error) {
	var perms []model.Permission
	err := r.DB.Order("code ASC").Find(&perms).Error
	return perms, err
}

func (r *RoleRepository) FindPermissionsByCodes(codes []string) ([]model.Permission, error) {
	var perms []model.Permission
	err := r.DB.Where("code IN ?", codes).Find(&perms).Error
	return perms, err
}
