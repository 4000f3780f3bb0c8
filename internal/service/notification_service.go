package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/internship-service/internal/config"
	"github.com/spec-kit/internship-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPaymentSubmitted, n.handlePaymentSubmitted)
	n.dispatcher.Subscribe(events.EventPaymentReviewed, n.handlePaymentReviewed)
	n.dispatcher.Subscribe(events.EventCodeCreated, n.handleCodeCreated)
	n.dispatcher.Subscribe(events.EventAccountActivated, n.handleAccountActivated)
	n.dispatcher.Subscribe(events.EventTaskAssigned, n.handleTaskAssigned)
	n.dispatcher.Subscribe(events.EventWorkSubmitted, n.handleWorkSubmitted)
}

func (n *NotificationService) handlePaymentSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentSubmitted", zap.String("profile_id", event.ProfileID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePaymentReviewed(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentReviewed", zap.String("profile_id", event.ProfileID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCodeCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CodeCreated", zap.String("profile_id", event.ProfileID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAccountActivated(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountActivated", zap.String("profile_id", event.ProfileID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTaskAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("TaskAssigned", zap.String("profile_id", event.ProfileID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWorkSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("WorkSubmitted", zap.String("profile_id", event.ProfileID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("profile_id", event.ProfileID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("profile_id", event.ProfileID),
		zap.String("event_type", string(event.Type)))
}
