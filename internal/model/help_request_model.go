package model

import (
	"time"
)

type HelpRequest struct {
	Id                 uint    `gorm:"primaryKey;autoIncrement"`
	Question           string  `gorm:"type:text;not null"`
	Status             string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	SupervisorResponse *string `gorm:"type:text"`
	CreatedAt          time.Time
	AnsweredAt         *time.Time
}

func (HelpRequest) TableName() string {
	return "help_requests"
}
