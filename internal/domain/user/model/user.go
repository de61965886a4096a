package model

import (
	baseModel "desitasty_backend/pkg/model"
)

// User 商城用户
// UID 由客户端登录体系（Firebase）下发，服务端只做归档与关联
type User struct {
	baseModel.BaseModel
	UID   string `gorm:"uniqueIndex;not null" json:"uid"`
	Phone string `gorm:"not null" json:"phone"`
}

func (User) TableName() string {
	return "users"
}
