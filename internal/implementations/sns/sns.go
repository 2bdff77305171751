package sns

import (
	"context"
	"errors"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/subscription"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender publishes notifications to Amazon SNS mobile push endpoints.
type Sender struct {
	sns snsAPI
}

func New(awsConfig aws.Config) *Sender {
	return &Sender{sns: sns.NewFromConfig(awsConfig)}
}

func (s *Sender) SendSNS(
	ctx context.Context,
	settings *subscription.SNSSettings,
	payload notification.Payload,
) error {
	message, err := payload.Marshal()
	if err != nil {
		return err
	}

	_, err = s.sns.Publish(ctx, &sns.PublishInput{
		TargetArn: aws.String(settings.TargetARN),
		Subject:   aws.String(payload.Title),
		Message:   aws.String(string(message)),
	})
	if err == nil {
		return nil
	}

	var disabled *types.EndpointDisabledException
	if errors.As(err, &disabled) {
		return notification.NewEndpointGoneError(disabled.ErrorMessage())
	}
	var notFound *types.NotFoundException
	if errors.As(err, &notFound) {
		return notification.NewEndpointGoneError(notFound.ErrorMessage())
	}
	return err
}
