package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification stores the alert history shown to supervisors, so an alert
// raised while nobody was connected is still visible later.
type Notification struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TypeCode   string         `gorm:"type:varchar(50);not null;index:idx_notifications_type" json:"type_code"`
	EntityType string         `gorm:"type:varchar(50)" json:"entity_type,omitempty"`
	EntityID   *uint          `json:"entity_id,omitempty"` // help request ledger id, when applicable
	Title      string         `gorm:"type:varchar(200);not null" json:"title"`
	Message    string         `gorm:"type:text;not null" json:"message"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsRead     bool           `gorm:"default:false;index:idx_notifications_unread" json:"is_read"`
	ReadAt     *time.Time     `json:"read_at,omitempty"`
	CreatedAt  time.Time      `gorm:"default:CURRENT_TIMESTAMP;index:idx_notifications_created" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
