// Package sqs adapts an AWS SQS queue (or an ElasticMQ stand-in) as the
// event source for the ingestion pipeline
package sqs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"

	perr "forumlake/internal/platform/errors"
	"forumlake/internal/platform/logger"
)

// Config selects the queue and, for local development, the endpoint override
type Config struct {
	Region   string
	QueueURL string

	// Endpoint is set only for local development against ElasticMQ or
	// LocalStack; empty means real AWS
	Endpoint string
}

// Message is one received queue entry pending acknowledgement
type Message struct {
	Body          []byte
	ReceiptHandle string
}

// Client wraps the AWS SQS client for one queue
type Client struct {
	cli      *awssqs.Client
	queueURL string
	log      *logger.Logger
}

// New builds a Client from Config
func New(ctx context.Context, cfg Config) (*Client, error) {
	log := logger.Named("sqs")

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	var cliOpts []func(*awssqs.Options)

	if cfg.Endpoint != "" {
		log.Info().Str("endpoint", cfg.Endpoint).Msg("using local sqs endpoint")
		loadOpts = append(loadOpts,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")))
		cliOpts = append(cliOpts, func(o *awssqs.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "load aws config")
	}

	return &Client{
		cli:      awssqs.NewFromConfig(awsCfg, cliOpts...),
		queueURL: cfg.QueueURL,
		log:      log,
	}, nil
}

// Receive long-polls the queue once and returns up to max messages
func (c *Client) Receive(ctx context.Context, max int32, waitSeconds int32) ([]Message, error) {
	out, err := c.cli.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     waitSeconds,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "sqs receive")
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, Message{
			Body:          []byte(aws.ToString(m.Body)),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
		})
	}
	return msgs, nil
}

// Delete acknowledges one message so the queue will not redeliver it
func (c *Client) Delete(ctx context.Context, receiptHandle string) error {
	_, err := c.cli.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "sqs delete")
	}
	return nil
}
