package model

import (
	baseModel "desitasty_backend/pkg/model"
)

// Address 收货地址，每个用户一条，重复提交走更新
// 下单时会把地址内容快照进订单，后续修改不影响历史订单
type Address struct {
	baseModel.BaseModel
	UID          string `gorm:"uniqueIndex;not null" json:"uid"`
	FirstName    string `gorm:"not null" json:"firstName"`
	LastName     string `json:"lastName"`
	HouseDetails string `json:"houseDetails"`
	AreaDetails  string `json:"areaDetails"`
	Landmark     string `json:"landmark"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `gorm:"not null" json:"pincode"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

func (Address) TableName() string {
	return "addresses"
}
