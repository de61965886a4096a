package model

import (
	baseModel "desitasty_backend/pkg/model"
)

// Admin 后台管理员账号
type Admin struct {
	baseModel.BaseModel
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"` // bcrypt
}

func (Admin) TableName() string {
	return "admins"
}

// DashboardStats 后台首页聚合数据
type DashboardStats struct {
	TotalOrders int64 `json:"totalOrders"`
	PaidOrders  int64 `json:"paidOrders"`
	Revenue     int64 `json:"revenue"` // 已支付订单金额合计 (paise)
	TotalUsers  int64 `json:"totalUsers"`
}
