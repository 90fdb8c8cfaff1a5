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

const (
	cardsByUserGSI  = "user_id-index"
	cardsByGroupGSI = "bulk_shipping_group_id-index"
)

// CreateCard creates a new card record in DynamoDB.
func (s *Store) CreateCard(ctx context.Context, card *models.Card) (*models.Card, error) {
	cardAV, err := attributevalue.MarshalMap(card)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.CardsTableName),
		Item:                cardAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // Prevent overwriting existing cards.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("card with ID %s already exists", card.ID)
		}
		return nil, fmt.Errorf("failed to create card in DynamoDB: %w", err)
	}

	return card, nil
}

// GetCard retrieves a card from DynamoDB by its ID.
func (s *Store) GetCard(ctx context.Context, cardID string) (*models.Card, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": cardID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.CardsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get card from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrCardNotFound
	}

	var card models.Card
	if err := attributevalue.UnmarshalMap(result.Item, &card); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card: %w", err)
	}

	return &card, nil
}

// ListCardsByUserID retrieves all cards owned by a user via the user GSI.
func (s *Store) ListCardsByUserID(ctx context.Context, userID string) ([]models.Card, error) {
	return s.queryCards(ctx, cardsByUserGSI, "user_id", userID)
}

// ListCardsByShippingGroup retrieves all cards referencing a bulk shipping
// group via the group GSI.
func (s *Store) ListCardsByShippingGroup(ctx context.Context, groupID string) ([]models.Card, error) {
	return s.queryCards(ctx, cardsByGroupGSI, "bulk_shipping_group_id", groupID)
}

func (s *Store) queryCards(ctx context.Context, index, attr, value string) ([]models.Card, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.CardsTableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#attr = :value"),
		ExpressionAttributeNames: map[string]string{
			"#attr": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards by %s: %w", attr, err)
	}

	var cards []models.Card
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cards: %w", err)
	}

	return cards, nil
}

// UpdateCard persists a mutated card. The update is conditional on the
// version the caller read, so a concurrent mutation surfaces as
// ErrVersionConflict instead of a silent overwrite. The bulk shipping group
// id is deliberately absent from the update expression: it is immutable.
func (s *Store) UpdateCard(ctx context.Context, card *models.Card) (*models.Card, error) {
	statusAV, err := attributevalue.Marshal(card.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card status: %w", err)
	}
	updatedAtAV, err := attributevalue.Marshal(card.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal updated_at: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.CardsTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: card.ID},
		},
		UpdateExpression:    aws.String("SET #status = :status, spend_limit = :limit, display_name = :display_name, updated_at = :updated_at, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(id) AND version = :version"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":       statusAV,
			":limit":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", card.Limit)},
			":display_name": &types.AttributeValueMemberS{Value: card.DisplayName},
			":updated_at":   updatedAtAV,
			":version":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", card.Version)},
			":inc":          &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update card in DynamoDB: %w", err)
	}

	var updated models.Card
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated card: %w", err)
	}

	return &updated, nil
}
