package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends streak milestone mail via Amazon SES. When no from
// address is configured the service runs disabled and every send becomes a
// logged no-op, so local setups need no AWS credentials.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// SendStreakMilestone congratulates a player on reaching a streak milestone.
func (s *EmailService) SendStreakMilestone(toEmail, name string, days int) error {
	if !s.enabled {
		log.Printf("Email disabled, skipping milestone mail to %s (%d days)", toEmail, days)
		return nil
	}

	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("%d-day streak! Keep it going", days)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nYou've completed every daily challenge %d days in a row. Come back tomorrow to keep the streak alive: %s\n",
		name, days, s.appBaseURL,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>You've completed every daily challenge <strong>%d days in a row</strong>.</p><p><a href="%s">Come back tomorrow</a> to keep the streak alive.</p>`,
		name, days, s.appBaseURL,
	)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(context.TODO(), input); err != nil {
		return fmt.Errorf("failed to send milestone email: %w", err)
	}

	log.Printf("Sent %d-day streak milestone email to %s", days, toEmail)
	return nil
}
