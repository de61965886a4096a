package service

import (
	"errors"

	"desitasty_backend/internal/domain/address/model"
	"desitasty_backend/internal/domain/address/repository"
	userRepo "desitasty_backend/internal/domain/user/repository"
)

var ErrUserNotRegistered = errors.New("user not registered")

type AddressService interface {
	// Submit 提交地址，已有记录则覆盖更新
	// 返回 created=true 表示新建
	Submit(address *model.Address) (created bool, err error)
	GetByUID(uid string) (*model.Address, error)
}

type addressService struct {
	repo  repository.AddressRepository
	users userRepo.UserRepository
}

func NewAddressService(repo repository.AddressRepository, users userRepo.UserRepository) AddressService {
	return &addressService{repo: repo, users: users}
}

func (s *addressService) Submit(address *model.Address) (bool, error) {
	// 地址必须挂在已注册用户下
	if _, err := s.users.GetByUID(address.UID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return false, ErrUserNotRegistered
		}
		return false, err
	}

	existing, err := s.repo.GetByUID(address.UID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return true, s.repo.Create(address)
		}
		return false, err
	}

	address.ID = existing.ID
	address.CreatedAt = existing.CreatedAt
	return false, s.repo.Update(address)
}

func (s *addressService) GetByUID(uid string) (*model.Address, error) {
	return s.repo.GetByUID(uid)
}
