package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, cfg: cfg}
}

// Handlers maps each library event to its notification handler.
func (n *NotificationService) Handlers() map[events.EventType]events.EventHandler {
	return map[events.EventType]events.EventHandler{
		events.EventAccountRegistered: n.handleAccountRegistered,
		events.EventPasswordChanged:   n.handlePasswordChanged,
		events.EventBookCreated:       n.handleCatalogChange,
		events.EventBookDeleted:       n.handleCatalogChange,
		events.EventReviewAdded:       n.handleReviewAdded,
	}
}

func (n *NotificationService) handleAccountRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountRegistered", zap.String("actor", event.Actor), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordChanged", zap.String("actor", event.Actor))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCatalogChange(ctx context.Context, event events.Event) error {
	n.logger.Info("CatalogChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleReviewAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("ReviewAdded", zap.String("actor", event.Actor), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", event.Actor),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
