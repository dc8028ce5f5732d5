package mail

import (
	"context"
	"fmt"

	"report-mailer/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESSender delivers messages through AWS SES as raw MIME, so the PDF
// attachment travels byte for byte.
type SESSender struct {
	client *sesv2.Client
	from   string
	logger domain.Logger
}

// NewSESSender builds the SES client from the application config. Static
// credentials come from the environment-backed settings, matching how the
// rest of the configuration is supplied.
func NewSESSender(ctx context.Context, config domain.Config, logger domain.Logger) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.GetAWSRegion()),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.GetAWSAccessKeyID(), config.GetAWSSecretAccessKey(), "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &SESSender{
		client: sesv2.NewFromConfig(awsCfg),
		from:   config.GetEmailFrom(),
		logger: logger,
	}, nil
}

// Send builds the raw message and submits it, returning the SES message ID.
func (s *SESSender) Send(ctx context.Context, msg *domain.MailMessage) (string, error) {
	raw, err := BuildRaw(s.from, msg)
	if err != nil {
		return "", err
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send failed: %w", err)
	}

	s.logger.Debug("SES accepted message", "recipient", msg.To, "message_id", aws.ToString(out.MessageId))
	return aws.ToString(out.MessageId), nil
}
