package repository

import (
	"errors"

	"desitasty_backend/internal/domain/user/model"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository 接口定义
type UserRepository interface {
	Create(user *model.User) error
	GetByUID(uid string) (*model.User, error)
	GetList(offset, limit int) ([]model.User, int64, error)
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// GetByUID 根据客户端UID获取用户
func (r *userRepository) GetByUID(uid string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("uid = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetList 获取用户列表（分页）
func (r *userRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
