package service

import (
	"errors"

	"desitasty_backend/internal/domain/user/model"
	"desitasty_backend/internal/domain/user/repository"
)

type UserService interface {
	// GetOrCreate 按 UID 查找用户，不存在则创建
	GetOrCreate(uid, phone string) (*model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetOrCreate(uid, phone string) (*model.User, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}

	user, err := s.repo.GetByUID(uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user = &model.User{
		UID:   uid,
		Phone: phone,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetList((page-1)*limit, limit)
}
