package entity

import (
	"time"

	"github.com/google/uuid"
)

type Supervisor struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
