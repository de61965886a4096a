package model

import (
	"time"
)

// BaseModel 基础模型，自增整型主键 + 创建/更新时间
// 与线上 orders/users 等表结构保持一致，不启用软删除
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
