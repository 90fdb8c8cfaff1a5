package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yezz123/rain-go/pkg/storage"
)

// GetApplicationStatus retrieves a user's compliance application status.
func (s *Store) GetApplicationStatus(ctx context.Context, userID string) (string, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal user ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.UsersTableName),
		Key:       key,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get user from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return "", storage.ErrUserNotFound
	}

	var record struct {
		ApplicationStatus string `dynamodbav:"application_status"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return "", fmt.Errorf("failed to unmarshal user record: %w", err)
	}

	return record.ApplicationStatus, nil
}

// SetApplicationStatus upserts a user's compliance application status.
// Repeated deliveries of the same status are harmless.
func (s *Store) SetApplicationStatus(ctx context.Context, userID, status string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.UsersTableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: aws.String("SET application_status = :status"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("failed to set application status: %w", err)
	}

	return nil
}
