package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	RoleRepo *repository.RoleRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		RoleRepo: roleRepo,
		Storage:  storage,
	}
}

type ProfileUpdateRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *UserService) UpdateProfile(userID string, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	user.Name = req.Name
	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("avatars/%s/%d%s", userID, time.Now().UnixNano(), filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, objectName, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.UserRepo.Save(user); err != nil {
		return "", err
	}
	return url, nil
}

// ----- 管理端 -----

func (s *UserService) ListUsers(page, limit int, keyword string) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.UserRepo.List(page, limit, keyword)
}

func (s *UserService) SetDisabled(userID string, disabled bool) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return util.ErrUserNotFound
	}
	return s.UserRepo.SetDisabled(userID, disabled)
}

// AssignAccessRole roleID 为空串时解除分配
func (s *UserService) AssignAccessRole(userID, roleID string) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return util.ErrUserNotFound
	}

	if roleID == "" {
		return s.UserRepo.AssignAccessRole(userID, nil)
	}

	if _, err := s.RoleRepo.FindRoleByID(roleID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrRoleNotFound
		}
		return err
	}
	return s.UserRepo.AssignAccessRole(userID, &roleID)
}
