package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage"
	dydbstore "github.com/yezz123/rain-go/pkg/storage/dynamodb"
)

var store storage.Storage

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	cardsTable := os.Getenv("DYNAMODB_CARDS_TABLE_NAME")
	chargesTable := os.Getenv("DYNAMODB_CHARGES_TABLE_NAME")
	groupsTable := os.Getenv("DYNAMODB_GROUPS_TABLE_NAME")
	usersTable := os.Getenv("DYNAMODB_USERS_TABLE_NAME")
	batchesTable := os.Getenv("DYNAMODB_BATCHES_TABLE_NAME")

	if cardsTable == "" || chargesTable == "" || groupsTable == "" || usersTable == "" || batchesTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store = dydbstore.New(dbClient, cardsTable, chargesTable, groupsTable, usersTable, batchesTable)
}

// HandleRequest processes SQS messages and records shipment batches as
// dispatched. Batch IDs are deterministic for a given group and cutoff, so a
// redelivered message hits the conditional write and is simply skipped.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var batch models.ShipmentBatch
		if err := json.Unmarshal([]byte(message.Body), &batch); err != nil {
			log.Printf("ERROR: failed to unmarshal shipment batch from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Attempting to dispatch batch %s (%d cards)", batch.ID, len(batch.CardIDs))

		if err := store.PutShipmentBatch(ctx, &batch); err != nil {
			if errors.Is(err, storage.ErrBatchAlreadyDispatched) {
				log.Printf("Batch %s already dispatched, skipping", batch.ID)
				continue
			}
			log.Printf("ERROR: failed to dispatch batch %s: %v", batch.ID, err)
			// In a production system, persistent failures would be sent to a DLQ.
			return err
		}

		log.Printf("Successfully dispatched batch %s", batch.ID)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
