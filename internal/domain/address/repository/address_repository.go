package repository

import (
	"errors"

	"desitasty_backend/internal/domain/address/model"

	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressRepository interface {
	GetByUID(uid string) (*model.Address, error)
	Create(address *model.Address) error
	Update(address *model.Address) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) GetByUID(uid string) (*model.Address, error) {
	var address model.Address
	if err := r.db.Where("uid = ?", uid).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) Create(address *model.Address) error {
	return r.db.Create(address).Error
}

func (r *addressRepository) Update(address *model.Address) error {
	return r.db.Save(address).Error
}
