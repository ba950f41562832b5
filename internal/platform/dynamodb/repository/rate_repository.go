package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
	"github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
)

// DynamoDBRateRepository implements the rates.Repository interface. Each
// snapshot is one record whose sequence-numbered sort key preserves append
// order, which the fallback lookup relies on.
type DynamoDBRateRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBRateRepository creates a new DynamoDBRateRepository
func NewDynamoDBRateRepository(client client.Client, table string) *DynamoDBRateRepository {
	return &DynamoDBRateRepository{
		client: client,
		table:  table,
	}
}

type rateRow struct {
	Month string             `json:"month"`
	Rates map[string]float64 `json:"rates"`
}

// Load returns the full snapshot table, or an empty table when the store
// holds none
func (r *DynamoDBRateRepository) Load(ctx context.Context) (rates.Table, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(pkRates))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return rates.Table{}, commonErrors.NewInternalError("failed to build expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})
	if err != nil {
		return rates.Table{}, commonErrors.NewStorageError("failed to query rate snapshots", err)
	}

	rows := make([]rateRow, 0, len(result.Items))
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &rows); err != nil {
		return rates.Table{}, commonErrors.NewInternalError("failed to unmarshal rate snapshots", err)
	}

	table := rates.Table{Snapshots: make([]rates.Snapshot, 0, len(rows))}
	for _, row := range rows {
		table.Snapshots = append(table.Snapshots, rates.Snapshot{
			Month: row.Month,
			Rates: row.Rates,
		})
	}
	return table, nil
}

// Save rewrites the snapshot table: stale rows past the new length are
// deleted, then every row is written under its sequence key
func (r *DynamoDBRateRepository) Save(ctx context.Context, table rates.Table) error {
	existing, err := r.Load(ctx)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(table.Snapshots))
	for seq := len(table.Snapshots); seq < len(existing.Snapshots); seq++ {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: key(pkRates, rateSK(seq)),
			},
		})
	}
	for seq, snap := range table.Snapshots {
		av, err := attributevalue.MarshalMap(rateRow{Month: snap.Month, Rates: snap.Rates})
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal rate snapshot", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{
				Item: withKeys(av, pkRates, rateSK(seq), "rate_snapshot"),
			},
		})
	}

	for start := 0; start < len(requests); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(requests) {
			end = len(requests)
		}
		_, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				r.table: requests[start:end],
			},
		})
		if err != nil {
			return commonErrors.NewStorageError("failed to batch write rate snapshots", err)
		}
	}
	return nil
}
