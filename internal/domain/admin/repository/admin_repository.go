package repository

import (
	"errors"

	"desitasty_backend/internal/domain/admin/model"
	orderModel "desitasty_backend/internal/domain/order/model"
	userModel "desitasty_backend/internal/domain/user/model"

	"gorm.io/gorm"
)

var ErrAdminNotFound = errors.New("admin not found")

type AdminRepository interface {
	GetByUsername(username string) (*model.Admin, error)
	// GetDashboardStats 聚合订单与用户统计
	GetDashboardStats() (*model.DashboardStats, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByUsername(username string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetDashboardStats() (*model.DashboardStats, error) {
	var stats model.DashboardStats

	if err := r.db.Model(&orderModel.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&orderModel.Order{}).
		Where("status = ?", orderModel.OrderStatusPaid).
		Count(&stats.PaidOrders).Error; err != nil {
		return nil, err
	}

	// COALESCE 避免无已支付订单时 SUM 返回 NULL
	if err := r.db.Model(&orderModel.Order{}).
		Where("status = ?", orderModel.OrderStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&userModel.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
