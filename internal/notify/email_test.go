package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSES struct {
	sendFn func(ctx context.Context, params *sesv2.SendEmailInput) (*sesv2.SendEmailOutput, error)
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	return f.sendFn(ctx, params)
}

func TestSESSenderBuildsSimpleMessage(t *testing.T) {
	var captured *sesv2.SendEmailInput
	client := &fakeSES{sendFn: func(_ context.Context, params *sesv2.SendEmailInput) (*sesv2.SendEmailOutput, error) {
		captured = params
		return &sesv2.SendEmailOutput{MessageId: aws.String("m-1")}, nil
	}}

	sender := NewSESSender(client, "billing@example.com", zap.NewNop())
	err := sender.Send(context.Background(), EmailMessage{To: "sarah@greenwood.edu", Subject: "Renewal", Body: "Your license expires soon"})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "billing@example.com", aws.ToString(captured.FromEmailAddress))
	assert.Equal(t, []string{"sarah@greenwood.edu"}, captured.Destination.ToAddresses)
	assert.Equal(t, "Renewal", aws.ToString(captured.Content.Simple.Subject.Data))
	assert.Equal(t, "Your license expires soon", aws.ToString(captured.Content.Simple.Body.Text.Data))
}

func TestSESSenderWrapsErrors(t *testing.T) {
	client := &fakeSES{sendFn: func(context.Context, *sesv2.SendEmailInput) (*sesv2.SendEmailOutput, error) {
		return nil, errors.New("throttled")
	}}
	err := NewSESSender(client, "billing@example.com", nil).Send(context.Background(), EmailMessage{To: "x@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSESSenderWithoutClient(t *testing.T) {
	err := NewSESSender(nil, "billing@example.com", nil).Send(context.Background(), EmailMessage{To: "x@example.com"})
	assert.Error(t, err)
}
