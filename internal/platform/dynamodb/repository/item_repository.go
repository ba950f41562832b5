package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
)

// batchWriteLimit is the DynamoDB cap on items per BatchWriteItem call
const batchWriteLimit = 25

// DynamoDBItemRepository implements the item.Repository interface
type DynamoDBItemRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBItemRepository creates a new DynamoDBItemRepository
func NewDynamoDBItemRepository(client client.Client, table string) *DynamoDBItemRepository {
	return &DynamoDBItemRepository{
		client: client,
		table:  table,
	}
}

// ListInventory returns all items currently in inventory
func (r *DynamoDBItemRepository) ListInventory(ctx context.Context) ([]item.Item, error) {
	items := make([]item.Item, 0)
	if err := r.queryPartition(ctx, pkInventory, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetInventoryItem returns a single inventory item by ID
func (r *DynamoDBItemRepository) GetInventoryItem(ctx context.Context, id string) (item.Item, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(pkInventory, itemSK(id)),
	})
	if err != nil {
		return item.Item{}, commonErrors.NewStorageError("failed to get inventory item", err)
	}
	if len(result.Item) == 0 {
		return item.Item{}, commonErrors.NewNotFoundError("item not found in inventory").
			WithDetail("id", id)
	}

	var it item.Item
	if err := attributevalue.UnmarshalMap(result.Item, &it); err != nil {
		return item.Item{}, commonErrors.NewInternalError("failed to unmarshal inventory item", err)
	}
	return it, nil
}

// AppendInventory adds items to the inventory collection
func (r *DynamoDBItemRepository) AppendInventory(ctx context.Context, items ...item.Item) error {
	requests := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		av, err := attributevalue.MarshalMap(it)
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal inventory item", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{
				Item: withKeys(av, pkInventory, itemSK(it.ID), "item"),
			},
		})
	}
	return r.batchWrite(ctx, requests)
}

// DeleteInventoryItem removes an item from inventory without archiving
func (r *DynamoDBItemRepository) DeleteInventoryItem(ctx context.Context, id string) error {
	result, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          key(pkInventory, itemSK(id)),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return commonErrors.NewStorageError("failed to delete inventory item", err)
	}
	if len(result.Attributes) == 0 {
		return commonErrors.NewNotFoundError("item not found in inventory").
			WithDetail("id", id)
	}
	return nil
}

// ListHistory returns all checked-out records
func (r *DynamoDBItemRepository) ListHistory(ctx context.Context) ([]item.HistoryRecord, error) {
	records := make([]item.HistoryRecord, 0)
	if err := r.queryPartition(ctx, pkHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AppendHistory adds records to the checkout archive. Each record gets a
// fresh ulid sort key, so append order survives as scan order.
func (r *DynamoDBItemRepository) AppendHistory(ctx context.Context, records ...item.HistoryRecord) error {
	requests := make([]types.WriteRequest, 0, len(records))
	for _, rec := range records {
		av, err := attributevalue.MarshalMap(rec)
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal history record", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{
				Item: withKeys(av, pkHistory, recordSK(ulid.Make().String()), "history"),
			},
		})
	}
	return r.batchWrite(ctx, requests)
}

// ListLost returns all lost records
func (r *DynamoDBItemRepository) ListLost(ctx context.Context) ([]item.LostRecord, error) {
	records := make([]item.LostRecord, 0)
	if err := r.queryPartition(ctx, pkLost, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetLostItem returns a single lost record by ID
func (r *DynamoDBItemRepository) GetLostItem(ctx context.Context, id string) (item.LostRecord, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(pkLost, itemSK(id)),
	})
	if err != nil {
		return item.LostRecord{}, commonErrors.NewStorageError("failed to get lost record", err)
	}
	if len(result.Item) == 0 {
		return item.LostRecord{}, commonErrors.NewNotFoundError("item not found in lost collection").
			WithDetail("id", id)
	}

	var rec item.LostRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return item.LostRecord{}, commonErrors.NewInternalError("failed to unmarshal lost record", err)
	}
	return rec, nil
}

// AppendLost adds records to the lost collection
func (r *DynamoDBItemRepository) AppendLost(ctx context.Context, records ...item.LostRecord) error {
	requests := make([]types.WriteRequest, 0, len(records))
	for _, rec := range records {
		av, err := attributevalue.MarshalMap(rec)
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal lost record", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{
				Item: withKeys(av, pkLost, itemSK(rec.ID), "lost"),
			},
		})
	}
	return r.batchWrite(ctx, requests)
}

// DeleteLostItem removes a record from the lost collection
func (r *DynamoDBItemRepository) DeleteLostItem(ctx context.Context, id string) error {
	result, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          key(pkLost, itemSK(id)),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return commonErrors.NewStorageError("failed to delete lost record", err)
	}
	if len(result.Attributes) == 0 {
		return commonErrors.NewNotFoundError("item not found in lost collection").
			WithDetail("id", id)
	}
	return nil
}

// ListSold returns all sold records
func (r *DynamoDBItemRepository) ListSold(ctx context.Context) ([]item.SoldRecord, error) {
	records := make([]item.SoldRecord, 0)
	if err := r.queryPartition(ctx, pkSold, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AppendSold adds records to the sold archive
func (r *DynamoDBItemRepository) AppendSold(ctx context.Context, records ...item.SoldRecord) error {
	requests := make([]types.WriteRequest, 0, len(records))
	for _, rec := range records {
		av, err := attributevalue.MarshalMap(rec)
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal sold record", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{
				Item: withKeys(av, pkSold, recordSK(ulid.Make().String()), "sold"),
			},
		})
	}
	return r.batchWrite(ctx, requests)
}

// queryPartition queries all items of one partition, following pagination,
// and unmarshals into out
func (r *DynamoDBItemRepository) queryPartition(ctx context.Context, pk string, out interface{}) error {
	keyCondition := expression.Key("PK").Equal(expression.Value(pk))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return commonErrors.NewInternalError("failed to build expression", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return commonErrors.NewStorageError("failed to query collection", err).
				WithDetail("partition", pk)
		}
		items = append(items, result.Items...)
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return commonErrors.NewInternalError("failed to unmarshal collection", err)
	}
	return nil
}

// batchWrite writes requests in chunks of the DynamoDB batch limit
func (r *DynamoDBItemRepository) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
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
			return commonErrors.NewStorageError("failed to batch write items", err)
		}
	}
	return nil
}
