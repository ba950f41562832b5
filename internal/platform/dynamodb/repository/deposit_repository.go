package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/hausbuch/hausbuch/internal/domain/deposit"
	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
)

// DynamoDBDepositRepository implements the deposit.Repository interface. The
// whole ledger is one document; it only ever holds a handful of counters.
type DynamoDBDepositRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBDepositRepository creates a new DynamoDBDepositRepository
func NewDynamoDBDepositRepository(client client.Client, table string) *DynamoDBDepositRepository {
	return &DynamoDBDepositRepository{
		client: client,
		table:  table,
	}
}

type ledgerDocument struct {
	Counts map[string]int `json:"counts"`
}

// Load returns the ledger, empty when the store holds none
func (r *DynamoDBDepositRepository) Load(ctx context.Context) (deposit.Ledger, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(pkDeposits, skLedger),
	})
	if err != nil {
		return nil, commonErrors.NewStorageError("failed to get deposit ledger", err)
	}
	if len(result.Item) == 0 {
		return make(deposit.Ledger), nil
	}

	var doc ledgerDocument
	if err := attributevalue.UnmarshalMap(result.Item, &doc); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal deposit ledger", err)
	}
	if doc.Counts == nil {
		return make(deposit.Ledger), nil
	}
	return deposit.Ledger(doc.Counts), nil
}

// Save rewrites the ledger
func (r *DynamoDBDepositRepository) Save(ctx context.Context, ledger deposit.Ledger) error {
	av, err := attributevalue.MarshalMap(ledgerDocument{Counts: ledger})
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal deposit ledger", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      withKeys(av, pkDeposits, skLedger, "deposit_ledger"),
	})
	if err != nil {
		return commonErrors.NewStorageError("failed to put deposit ledger", err)
	}
	return nil
}
