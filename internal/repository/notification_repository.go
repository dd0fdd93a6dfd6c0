package repository

import (
	"context"

	"ai-frontdesk-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotifications(ctx context.Context, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context) error
}
