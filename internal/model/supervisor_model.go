package model

import (
	"time"

	"github.com/google/uuid"
)

type Supervisor struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	FullName     string    `gorm:"type:varchar(100)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    *time.Time
}

func (Supervisor) TableName() string {
	return "supervisors"
}
