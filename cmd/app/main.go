package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/dispatch"
	"github.com/yezz123/rain-go/pkg/middleware"
	"github.com/yezz123/rain-go/pkg/shipping"
	dydbstore "github.com/yezz123/rain-go/pkg/storage/dynamodb"
	"github.com/yezz123/rain-go/pkg/webhooks"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// AWS Session
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

	// Create our storage implementation
	store := dydbstore.New(dbClient, cardsTable, chargesTable, groupsTable, usersTable, batchesTable)

	// SQS client and shipment dispatcher
	sqsClient := sqs.NewFromConfig(cfg)
	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	dispatcher := dispatch.NewSQSDispatcher(sqsClient, sqsQueueURL)

	batcher, err := shipping.NewBatcher()
	if err != nil {
		log.Fatalf("failed to load business timezone: %v", err)
	}
	realClock, err := clock.NewReal()
	if err != nil {
		log.Fatalf("failed to initialize clock: %v", err)
	}
	shippingService := shipping.NewService(batcher, store, dispatcher, realClock)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)

	// Mount the webhook consumer. Application status events gate card
	// issuance, so this is the one inbound surface the integration exposes.
	router.Mount("/webhooks", webhooks.NewHandler(store).Routes())

	// Trigger dispatch of a group's due shipment batches. Batches are
	// recomputed on every call, so repeated triggers are harmless.
	router.Post("/shipping-groups/{groupID}/dispatch", func(w http.ResponseWriter, r *http.Request) {
		groupID := chi.URLParam(r, "groupID")
		dispatched, err := shippingService.DispatchGroup(r.Context(), groupID)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to dispatch group: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(dispatched); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
		}
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	// Start the server
	err = http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
