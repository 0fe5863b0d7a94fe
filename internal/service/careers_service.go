package service

import (
	"context"
	"fmt"
	"net/mail"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/storage"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util/errorutil"
)

// ResumeStore persists accepted résumé files.
type ResumeStore interface {
	Enabled() bool
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ApplicationInput is a careers form submission.
type ApplicationInput struct {
	Name        string
	Email       string
	Position    string
	Filename    string
	ContentType string
	Data        []byte
}

// ApplicationReceipt acknowledges a submission.
type ApplicationReceipt struct {
	ApplicationID string    `json:"application_id"`
	Position      string    `json:"position"`
	Filename      string    `json:"filename"`
	SizeBytes     int       `json:"size_bytes"`
	StorageKey    string    `json:"storage_key,omitempty"`
	Stored        bool      `json:"stored"`
	ReceivedAt    time.Time `json:"received_at"`
}

// CareersService validates and stores job applications.
type CareersService struct {
	store      ResumeStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxBytes   int64
	allowed    map[string]struct{}
	now        func() time.Time
}

// NewCareersService constructs the service.
func NewCareersService(cfg config.CareersConfig, store ResumeStore, dispatcher events.Dispatcher, logger *zap.Logger) *CareersService {
	if logger == nil {
		logger = zap.NewNop()
	}
	types := cfg.AllowedMIMETypes
	if len(types) == 0 {
		types = config.DefaultResumeMIMETypes
	}
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &CareersService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		maxBytes:   cfg.MaxResumeBytes,
		allowed:    allowed,
		now:        time.Now,
	}
}

// ValidateResume applies the MIME allow-list and size limit.
func (s *CareersService) ValidateResume(contentType string, size int64) error {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if _, ok := s.allowed[mediaType]; !ok {
		return apperrors.NewValidationError("resume must be a PDF or Word document", map[string]any{
			"field":        "resume",
			"content_type": contentType,
		})
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return apperrors.NewValidationError(fmt.Sprintf("resume exceeds %d bytes", s.maxBytes), map[string]any{
			"field":     "resume",
			"size":      size,
			"max_bytes": s.maxBytes,
		})
	}
	return nil
}

// Submit validates the application and uploads the résumé when storage is configured.
func (s *CareersService) Submit(ctx context.Context, input ApplicationInput) (*ApplicationReceipt, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(input.Email)); err != nil {
		details["email"] = "must be a valid address"
	}
	if strings.TrimSpace(input.Position) == "" {
		details["position"] = "is required"
	}
	if len(input.Data) == 0 {
		details["resume"] = "is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid application", details)
	}
	if err := s.ValidateResume(input.ContentType, int64(len(input.Data))); err != nil {
		return nil, err
	}

	receipt := &ApplicationReceipt{
		ApplicationID: uuid.NewString(),
		Position:      strings.TrimSpace(input.Position),
		Filename:      safeFilename(input.Filename),
		SizeBytes:     len(input.Data),
		ReceivedAt:    s.now().UTC(),
	}

	if s.store != nil && s.store.Enabled() {
		key, err := s.store.Put(ctx, storage.ResumeKey(receipt.ApplicationID, receipt.Filename), input.ContentType, input.Data)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		receipt.StorageKey = key
		receipt.Stored = true
	}

	if s.dispatcher != nil {
		if _, err := s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventResumeSubmitted,
			SubjectID: receipt.ApplicationID,
			Payload: events.ResumeSubmittedPayload{
				ApplicationID: receipt.ApplicationID,
				Position:      receipt.Position,
				StorageKey:    receipt.StorageKey,
			},
		}); err != nil {
			s.logger.Warn("resume event handlers failed", zap.Error(err))
		}
	}

	s.logger.Info("application received",
		zap.String("application_id", receipt.ApplicationID),
		zap.String("position", receipt.Position),
		zap.Bool("stored", receipt.Stored))
	return receipt, nil
}

func safeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "resume"
	}
	return strings.ReplaceAll(name, " ", "_")
}
