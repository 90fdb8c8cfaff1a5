// Package dynamodb implements the storage interfaces using AWS DynamoDB.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/yezz123/rain-go/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses, extracted
// for mocking.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client           DynamoDBAPI
	CardsTableName   string
	ChargesTableName string
	GroupsTableName  string
	UsersTableName   string
	BatchesTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, cardsTable, chargesTable, groupsTable, usersTable, batchesTable string) *Store {
	return &Store{
		Client:           client,
		CardsTableName:   cardsTable,
		ChargesTableName: chargesTable,
		GroupsTableName:  groupsTable,
		UsersTableName:   usersTable,
		BatchesTableName: batchesTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
