package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/model"
	"ai-frontdesk-be/internal/pkg/logger"
	"ai-frontdesk-be/internal/pkg/mailer"
	"ai-frontdesk-be/internal/repository"
	"ai-frontdesk-be/pkg/events"
	pktNats "ai-frontdesk-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo         repository.NotificationRepository
	subscriber   *pktNats.Subscriber
	delivery     NotificationDelivery
	emailService mailer.IEmailService
	alertEmail   string
	logger       logger.ILogger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
	alertEmail string,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		repo:         repo,
		subscriber:   sub,
		delivery:     delivery,
		emailService: emailService,
		alertEmail:   alertEmail,
		logger:       log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber configured, supervisor alerts disabled", nil)
		return
	}
	err := s.subscriber.Subscribe("events.>", "supervisor-alerts", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	switch event.EventType() {
	case constant.EventHelpRequested:
		return s.handleHelpRequested(ctx, event)
	case constant.EventHelpResolved:
		// Resolutions don't need a supervisor alert.
		return nil
	default:
		return nil
	}
}

func (s *NotificationService) handleHelpRequested(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	question, _ := payload["question"].(string)

	var entityId *uint
	if raw, ok := payload["request_id"].(float64); ok {
		id := uint(raw)
		entityId = &id
	}

	metaJSON, _ := json.Marshal(payload)

	notification := model.Notification{
		ID:         uuid.New(),
		TypeCode:   constant.EventHelpRequested,
		EntityType: "help_request",
		EntityID:   entityId,
		Title:      "New help request",
		Message:    fmt.Sprintf("A caller needs help with: %q", question),
		Metadata:   datatypes.JSON(metaJSON),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, &notification); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{"error": err.Error()})
		// Returning the error Nacks the event so the alert is retried.
		return err
	}

	if s.delivery != nil {
		s.delivery.Broadcast(notification)
	}

	// Email is best-effort; a dead SMTP server must not requeue the event.
	if s.emailService != nil && s.alertEmail != "" {
		var requestId uint
		if entityId != nil {
			requestId = *entityId
		}
		if err := s.emailService.SendHelpRequestAlert(s.alertEmail, question, requestId); err != nil {
			s.logger.Warn("NotificationService", "Failed to email supervisor alert", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetNotifications(ctx, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context) (int64, error) {
	return s.repo.GetUnreadCount(ctx)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	return s.repo.MarkAllAsRead(ctx)
}
