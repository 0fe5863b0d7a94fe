package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailMessage is a plain-text outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers email messages.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SESAPI is the subset of the SES v2 client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends emails via AWS SES.
type SESSender struct {
	client    SESAPI
	fromEmail string
	logger    *zap.Logger
}

// NewSESClient loads the default AWS configuration for region.
func NewSESClient(ctx context.Context, region string) (*sesv2.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify: load aws config: %w", err)
	}
	return sesv2.NewFromConfig(cfg), nil
}

// NewSESSender creates a new AWS SES email sender.
func NewSESSender(client SESAPI, fromEmail string, logger *zap.Logger) *SESSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SESSender{client: client, fromEmail: fromEmail, logger: logger}
}

// Send sends an email via AWS SES.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(msg.Body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("ses send failed", zap.Error(err), zap.String("to", msg.To))
		return fmt.Errorf("notify: SES send failed: %w", err)
	}

	s.logger.Info("email sent via SES",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", aws.ToString(output.MessageId)))
	return nil
}

// LogSender only logs messages. Used when SES delivery is disabled.
type LogSender struct {
	Logger *zap.Logger
}

// Send logs msg at debug level.
func (l LogSender) Send(_ context.Context, msg EmailMessage) error {
	if l.Logger != nil {
		l.Logger.Debug("email delivery disabled", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	}
	return nil
}

var (
	_ EmailSender = (*SESSender)(nil)
	_ EmailSender = LogSender{}
)
