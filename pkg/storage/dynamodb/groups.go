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

// CreateShippingGroup creates a new shipping group record in DynamoDB.
func (s *Store) CreateShippingGroup(ctx context.Context, group *models.ShippingGroup) (*models.ShippingGroup, error) {
	groupAV, err := attributevalue.MarshalMap(group)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shipping group: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.GroupsTableName),
		Item:                groupAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("shipping group with ID %s already exists", group.ID)
		}
		return nil, fmt.Errorf("failed to create shipping group in DynamoDB: %w", err)
	}

	return group, nil
}

// GetShippingGroup retrieves a shipping group from DynamoDB by its ID.
func (s *Store) GetShippingGroup(ctx context.Context, groupID string) (*models.ShippingGroup, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shipping group ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.GroupsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping group from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrGroupNotFound
	}

	var group models.ShippingGroup
	if err := attributevalue.UnmarshalMap(result.Item, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping group: %w", err)
	}

	return &group, nil
}
