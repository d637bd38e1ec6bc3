package service

import (
	"github.com/giftcert-next/internal/constants"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/repository"

	"gorm.io/gorm"
)

// UserService 用户业务服务
type UserService struct {
	userRepo repository.UserRepository
	audit    *AuditService
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, audit *AuditService) *UserService {
	return &UserService{userRepo: userRepo, audit: audit}
}

// GetAll 分页获取全部用户
func (s *UserService) GetAll(limit, offset int) ([]models.User, error) {
	if err := checkPagination(limit, offset); err != nil {
		return nil, err
	}
	return s.userRepo.GetAll(limit, offset)
}

// GetByID 获取单个用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Create 创建用户
func (s *UserService) Create() (*models.User, error) {
	user := &models.User{}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityUser, user.ID, constants.AuditOperationCreate)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("user_created", "user_id", user.ID)
	return user, nil
}

// Delete 删除用户
func (s *UserService) Delete(id uint) error {
	existing, err := s.userRepo.GetByID(id)
	if err != nil {
		return mapRowConflict(err)
	}
	if existing == nil {
		return ErrUserNotFound
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityUser, id, constants.AuditOperationDelete)
	})
	if err != nil {
		return err
	}

	logger.Infow("user_deleted", "user_id", id)
	return nil
}
