package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/config"
)

const charset = "UTF-8"

var (
	ErrNotConfigured  = errors.New("ses client is not configured")
	ErrMissingAddress = errors.New("recipient address is required")
)

// sesAPI is the slice of the SESv2 client used for delivery.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESClient sends booking notices through Amazon SES.
type SESClient struct {
	api    sesAPI
	sender string
}

// NewSESClient builds a client from the email section of the config. The
// access keys come from the environment, never from the YAML file.
func NewSESClient(ctx context.Context, cfg config.EmailConfig) (*SESClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: region, sender and access keys are required", ErrNotConfigured)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESClient{api: sesv2.NewFromConfig(awsCfg), sender: cfg.Sender}, nil
}

// Send delivers a plain-text message to recipient.
func (c *SESClient) Send(ctx context.Context, recipient, subject, body string) error {
	if c == nil || c.api == nil {
		return ErrNotConfigured
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return ErrMissingAddress
	}

	out, err := c.api.SendEmail(ctx, newSendInput(c.sender, recipient, subject, body))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("subject", subject).Msg("SES rejected booking email")
		return fmt.Errorf("send ses email: %w", err)
	}
	log.Ctx(ctx).Debug().Str("message_id", aws.ToString(out.MessageId)).Msg("SES accepted booking email")
	return nil
}

func newSendInput(from, to, subject, body string) *sesv2.SendEmailInput {
	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String(charset)},
				},
			},
		},
	}
}
