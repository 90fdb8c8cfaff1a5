package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage"
)

// RecordCharge atomically appends an immutable charge event and bumps the
// card's version. The write commits only while the card is active and its
// version still equals the one the caller read, so a charge can never land
// on a locked or canceled card and two writers racing on the same limit
// check cannot both commit.
func (s *Store) RecordCharge(ctx context.Context, event *models.ChargeEvent, expectedVersion int64) (*models.ChargeEvent, error) {
	// Timestamps are range-queried as strings; store them in UTC so the
	// lexicographic order matches the instant order across DST shifts.
	ev := *event
	ev.Timestamp = ev.Timestamp.UTC()

	eventAV, err := attributevalue.MarshalMap(&ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge event: %w", err)
	}

	activeAV, err := attributevalue.Marshal(models.CardActive)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal active status: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Create the immutable charge event.
				Put: &types.Put{
					TableName:           aws.String(s.ChargesTableName),
					Item:                eventAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 2: Bump the card version, only while active and
				// unchanged since the caller's read.
				Update: &types.Update{
					TableName: aws.String(s.CardsTableName),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: event.CardID},
					},
					UpdateExpression:    aws.String("SET version = version + :inc"),
					ConditionExpression: aws.String("attribute_exists(id) AND #status = :active AND version = :version"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":inc":     &types.AttributeValueMemberN{Value: "1"},
						":active":  activeAV,
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var txc *types.TransactionCanceledException
		if errors.As(err, &txc) && len(txc.CancellationReasons) == 2 {
			reason := txc.CancellationReasons[1]
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				// The returned item tells us which predicate failed: a card
				// that left the active state is final for this charge, a
				// version mismatch just means the caller must re-read.
				var card models.Card
				if reason.Item != nil && attributevalue.UnmarshalMap(reason.Item, &card) == nil && card.Status != models.CardActive {
					return nil, storage.ErrCardNotCharging
				}
				return nil, storage.ErrVersionConflict
			}
		}
		return nil, fmt.Errorf("failed to record charge: %w", err)
	}

	out := ev
	return &out, nil
}

// ListChargesInWindow queries a card's charge events with timestamps in
// (since, until]. Events are never deleted; the window filter is applied on
// every read.
func (s *Store) ListChargesInWindow(ctx context.Context, cardID string, since, until time.Time) ([]models.ChargeEvent, error) {
	// Bounds are compared lexicographically against the stored UTC strings,
	// so they must be UTC too; a local-offset bound mis-orders across DST.
	sinceText, err := since.UTC().MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal window start: %w", err)
	}
	untilText, err := until.UTC().MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal window end: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.ChargesTableName),
		KeyConditionExpression: aws.String("card_id = :card_id AND #ts BETWEEN :since AND :until"),
		// BETWEEN is inclusive on both ends; the open lower bound is
		// enforced with a filter on the exact boundary value.
		FilterExpression: aws.String("#ts <> :since"),
		ExpressionAttributeNames: map[string]string{
			"#ts": "timestamp",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":card_id": &types.AttributeValueMemberS{Value: cardID},
			":since":   &types.AttributeValueMemberS{Value: string(sinceText)},
			":until":   &types.AttributeValueMemberS{Value: string(untilText)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query charges for card %s: %w", cardID, err)
	}

	var events []models.ChargeEvent
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal charge events: %w", err)
	}

	return events, nil
}
