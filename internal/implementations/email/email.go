package email

import (
	"context"
	"encoding/json"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/subscription"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type sesAPI interface {
	SendTemplatedEmail(ctx context.Context, params *ses.SendTemplatedEmailInput, optFns ...func(*ses.Options)) (*ses.SendTemplatedEmailOutput, error)
}

type EmailSender struct {
	ses sesAPI
	// This address must be verified with Amazon SES.
	sender           string
	reminderTemplate string
}

func NewEmailSender(awsConfig aws.Config, sender string, reminderTemplate string) *EmailSender {
	return &EmailSender{
		ses:              ses.NewFromConfig(awsConfig),
		sender:           sender,
		reminderTemplate: reminderTemplate,
	}
}

func (s *EmailSender) SendEmail(
	ctx context.Context,
	settings *subscription.EmailSettings,
	payload notification.Payload,
) error {
	templateParamsBytes, err := json.Marshal(
		reminderTemplateParams{
			Title:      payload.Title,
			Body:       payload.Body,
			ReminderID: string(payload.ReminderID),
		},
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(settings.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.reminderTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type reminderTemplateParams struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ReminderID string `json:"reminderId,omitempty"`
}
