package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/yezz123/rain-go/pkg/models"
)

// SQSDispatcher implements the Dispatcher interface using AWS SQS.
type SQSDispatcher struct {
	Client   *sqs.Client
	QueueURL string
}

// NewSQSDispatcher creates a new SQSDispatcher.
func NewSQSDispatcher(client *sqs.Client, queueURL string) *SQSDispatcher {
	return &SQSDispatcher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Dispatcher = (*SQSDispatcher)(nil)

// DispatchBatch sends the shipment batch to an SQS queue for fulfillment.
// Batch IDs are deterministic, so a redelivered message is caught by the
// consumer's conditional write rather than producing a duplicate shipment.
func (d *SQSDispatcher) DispatchBatch(ctx context.Context, batch *models.ShipmentBatch) error {
	// Marshal the batch to JSON.
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal shipment batch for SQS: %w", err)
	}

	// Send the message to SQS.
	_, err = d.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.QueueURL),
		MessageBody: aws.String(string(body)),
	})

	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
