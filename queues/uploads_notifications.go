package queues

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/chatstack/uploads-service/internal/logging"
)

// UploadNotify publishes upload-completion events for downstream consumers
// (the chat service attaches the finalized file to its document).
type UploadNotify interface {
	NotifyUploadComplete(ctx context.Context, uploadID, objectName, url string) error

	IsReady(ctx context.Context) error
	Name() string
}

type UploadCompleteMessage struct {
	UploadID   string `json:"uploadId"`
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
}

type SQSUploadNotify struct {
	client    *sqs.Client
	queueName string
	accountID string
	region    string

	logger logging.Logger
}

func NewSQSUploadNotify(client *sqs.Client, queueName, accountID, region string, l logging.Logger) *SQSUploadNotify {
	return &SQSUploadNotify{
		client:    client,
		queueName: queueName,
		accountID: accountID,
		region:    region,
		logger:    l,
	}
}

func (q *SQSUploadNotify) queueURL() string {
	return fmt.Sprintf("https://sqs.%s.amazonaws.com/%s/%s.fifo", q.region, q.accountID, q.queueName)
}

func (q *SQSUploadNotify) IsReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	_, err := q.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(q.queueName + ".fifo"),
	})
	return err
}

func (q *SQSUploadNotify) Name() string {
	return "SQS[uploadsNotifications]"
}

func (q *SQSUploadNotify) NotifyUploadComplete(ctx context.Context, uploadID, objectName, url string) error {
	body, err := json.Marshal(&UploadCompleteMessage{
		UploadID:   uploadID,
		ObjectName: objectName,
		URL:        url,
	})
	if err != nil {
		return err
	}

	res, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL()),
		MessageBody: aws.String(string(body)),

		MessageGroupId:         aws.String(uploadID),
		MessageDeduplicationId: aws.String(fmt.Sprintf("complete-%s", uploadID)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	q.logger.Debug("completion notification sent",
		"upload_id", uploadID,
		"message_id", aws.ToString(res.MessageId),
	)
	return nil
}

// NoopUploadNotify is used when no notification queue is configured.
type NoopUploadNotify struct{}

func (NoopUploadNotify) NotifyUploadComplete(context.Context, string, string, string) error {
	return nil
}

func (NoopUploadNotify) IsReady(context.Context) error { return nil }

func (NoopUploadNotify) Name() string { return "Noop[uploadsNotifications]" }
