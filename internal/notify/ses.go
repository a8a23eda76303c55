package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/config"
)

// SESSender sends mail through AWS SESv2.
type SESSender struct {
	client *sesv2.Client
	sender string
}

// NewSESSender builds a sender from static credentials and a region.
func NewSESSender(ctx context.Context, cfg config.SESConfig) (*SESSender, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Region == "" {
		return nil, fmt.Errorf("ses credentials and region are required")
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("ses sender is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESSender{
		client: sesv2.NewFromConfig(awsCfg),
		sender: cfg.Sender,
	}, nil
}

func (s *SESSender) Send(ctx context.Context, recipient, subject, body string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("ses client is not initialized")
	}
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
		FromEmailAddress: aws.String(s.sender),
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		log.Error().
			Err(err).
			Str("recipient", recipient).
			Str("subject", subject).
			Time("timestamp", time.Now().UTC()).
			Msg("Failed to send SES email")
		return fmt.Errorf("send ses email: %w", err)
	}
	return nil
}

// FromConfig returns the log reporter, plus SES e-mail delivery when
// notifications are configured. wait flushes pending e-mail.
func FromConfig(ctx context.Context, cfg config.NotificationsConfig) (reporter Reporter, wait func(), err error) {
	if !cfg.Enabled() {
		return LogReporter{}, func() {}, nil
	}
	sender, err := NewSESSender(ctx, cfg.SES)
	if err != nil {
		return nil, nil, err
	}
	mail := NewEmailReporter(sender, cfg.Recipients)
	return Multi{LogReporter{}, mail}, mail.Wait, nil
}
