package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage"
)

// PutShipmentBatch records a batch as dispatched. Batch ids are derived
// deterministically from the grouping key, so a redelivered dispatch message
// hits the condition check and surfaces as ErrBatchAlreadyDispatched.
func (s *Store) PutShipmentBatch(ctx context.Context, batch *models.ShipmentBatch) error {
	batchAV, err := attributevalue.MarshalMap(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal shipment batch: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.BatchesTableName),
		Item:                batchAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrBatchAlreadyDispatched
		}
		return fmt.Errorf("failed to record shipment batch: %w", err)
	}

	return nil
}
