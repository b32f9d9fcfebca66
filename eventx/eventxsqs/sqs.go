// Package eventxsqs publishes events as JSON messages on an SQS queue.
package eventxsqs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/Abraxas-365/mockup2html/eventx"
)

// API is the part of the SQS client the publisher needs
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher sends each event as one message
type Publisher struct {
	client   API
	queueURL string
}

var _ eventx.Publisher = (*Publisher)(nil)

// New wraps an existing client
func New(client API, queueURL string) *Publisher {
	return &Publisher{client: client, queueURL: queueURL}
}

// NewFromConfig builds a client from the default AWS credential chain
func NewFromConfig(ctx context.Context, queueURL string) (*Publisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, eventx.ErrorRegistry.NewWithCause(eventx.ErrPublishFailed, err).
			WithDetail("queue", queueURL)
	}
	return New(sqs.NewFromConfig(cfg), queueURL), nil
}

func (p *Publisher) Publish(ctx context.Context, event eventx.Event) error {
	body, err := eventx.ToJSON(event)
	if err != nil {
		return err
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(event.Type())},
			"event_id":   {DataType: aws.String("String"), StringValue: aws.String(event.ID())},
		},
	})
	if err != nil {
		return eventx.ErrorRegistry.NewWithCause(eventx.ErrPublishFailed, err).
			WithDetail("queue", p.queueURL).
			WithDetail("event_type", event.Type())
	}
	return nil
}
