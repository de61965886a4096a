package model

import (
	baseModel "desitasty_backend/pkg/model"
)

// Feedback 用户反馈
type Feedback struct {
	baseModel.BaseModel
	UID     string `gorm:"not null;index" json:"uid"`
	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `json:"comment"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
