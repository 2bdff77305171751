package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	reminderSubject  = "{{title}}"
	reminderHtmlPart = "<h2>{{title}}</h2><p>{{body}}</p>"
	reminderTextPart = "{{title}}\n\n{{body}}"
)

type settings struct {
	AwsRegion                string `env:"AWS_REGION,notEmpty"`
	AwsAccessKey             string `env:"AWS_ACCESS_KEY,notEmpty"`
	AwsSecretKey             string `env:"AWS_SECRET_KEY,notEmpty"`
	AwsEmailSender           string `env:"AWS_EMAIL_SENDER"`
	AwsEmailReminderTemplate string `env:"AWS_EMAIL_REMINDER_TEMPLATE" envDefault:"reminder"`
}

// Manages the SES template used for reminder emails.
//
//	aws create-template
//	aws delete-template
//	aws send -to someone@example.com
func main() {
	if len(os.Args) < 2 {
		exit(fmt.Errorf("usage: aws create-template | delete-template | send -to <email>"))
	}

	_ = godotenv.Load()
	cfg := settings{}
	if err := env.Parse(&cfg); err != nil {
		exit(err)
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		exit(err)
	}
	svc := ses.NewFromConfig(awsCfg)

	switch os.Args[1] {
	case "create-template":
		createReminderTemplate(svc, cfg.AwsEmailReminderTemplate)
	case "delete-template":
		deleteReminderTemplate(svc, cfg.AwsEmailReminderTemplate)
	case "send":
		flags := flag.NewFlagSet("send", flag.ExitOnError)
		to := flags.String("to", "", "recipient email address")
		flags.Parse(os.Args[2:])
		if *to == "" || cfg.AwsEmailSender == "" {
			exit(fmt.Errorf("-to and AWS_EMAIL_SENDER must be set"))
		}
		sendReminderTemplate(svc, cfg.AwsEmailSender, *to, cfg.AwsEmailReminderTemplate)
	default:
		exit(fmt.Errorf("unknown command %q", os.Args[1]))
	}
}

func createReminderTemplate(svc *ses.Client, name string) {
	result, err := svc.CreateTemplate(context.Background(), &ses.CreateTemplateInput{
		Template: &types.Template{
			SubjectPart:  aws.String(reminderSubject),
			HtmlPart:     aws.String(reminderHtmlPart),
			TextPart:     aws.String(reminderTextPart),
			TemplateName: &name,
		},
	})
	if err != nil {
		exit(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func deleteReminderTemplate(svc *ses.Client, name string) {
	result, err := svc.DeleteTemplate(context.Background(), &ses.DeleteTemplateInput{TemplateName: &name})
	if err != nil {
		exit(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func sendReminderTemplate(svc *ses.Client, sender string, to string, name string) {
	result, err := svc.SendTemplatedEmail(context.Background(), &ses.SendTemplatedEmailInput{
		Source: aws.String(sender),
		Destination: &types.Destination{
			CcAddresses: []string{},
			ToAddresses: []string{to},
		},
		Template:     &name,
		TemplateData: aws.String(`{"title": "Test Reminder", "body": "This is a test notification"}`),
	})
	if err != nil {
		exit(err)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
