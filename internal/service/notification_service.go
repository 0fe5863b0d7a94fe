package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/notify"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	email      notify.EmailSender
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, email notify.EmailSender, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if email == nil {
		email = notify.LogSender{Logger: logger}
	}
	return &NotificationService{
		dispatcher: dispatcher,
		email:      email,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLicenseIssued, n.handleLicenseIssued)
	n.dispatcher.Subscribe(events.EventLicenseChanged, n.handleLicenseChanged)
	n.dispatcher.Subscribe(events.EventLeadStatusChanged, n.handleLeadStatusChanged)
	n.dispatcher.Subscribe(events.EventLeadActionRequest, n.handleLeadActionRequested)
	n.dispatcher.Subscribe(events.EventResumeSubmitted, n.handleResumeSubmitted)
}

func (n *NotificationService) handleLicenseIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("LicenseIssued", zap.String("license_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLicenseChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("LicenseChanged", zap.String("license_id", event.SubjectID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.LicenseChangedPayload)
	if ok && payload.Command == events.LicenseCommandNotify {
		if err := n.sendRenewalReminder(ctx, payload); err != nil {
			return err
		}
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeadStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadStatusChanged", zap.String("lead_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeadActionRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadActionRequested", zap.String("lead_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleResumeSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ResumeSubmitted", zap.String("application_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendRenewalReminder(ctx context.Context, payload events.LicenseChangedPayload) error {
	if strings.TrimSpace(n.cfg.RenewalsTo) == "" {
		return nil
	}
	msg := notify.EmailMessage{
		To:      n.cfg.RenewalsTo,
		Subject: fmt.Sprintf("Renewal reminder: %s", payload.Company),
		Body: fmt.Sprintf("License %s for %s (%s) ends on %s. Please reach out about renewal.",
			payload.LicenseID, payload.Company, payload.CustomerName, payload.EndDate.Format(domain.DateLayout)),
	}
	return n.email.Send(ctx, msg)
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
