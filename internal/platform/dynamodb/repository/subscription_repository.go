package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/subscription"
	"github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
)

// DynamoDBSubscriptionRepository implements the subscription.Repository
// interface
type DynamoDBSubscriptionRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBSubscriptionRepository creates a new DynamoDBSubscriptionRepository
func NewDynamoDBSubscriptionRepository(client client.Client, table string) *DynamoDBSubscriptionRepository {
	return &DynamoDBSubscriptionRepository{
		client: client,
		table:  table,
	}
}

// List returns all subscriptions, name-ordered by the sort key
func (r *DynamoDBSubscriptionRepository) List(ctx context.Context) ([]subscription.Subscription, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(pkSubscriptions))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, commonErrors.NewStorageError("failed to query subscriptions", err)
	}

	subs := make([]subscription.Subscription, 0, len(result.Items))
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &subs); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal subscriptions", err)
	}
	return subs, nil
}

// Get returns a subscription by product name, or a not-found error
func (r *DynamoDBSubscriptionRepository) Get(ctx context.Context, name string) (subscription.Subscription, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(pkSubscriptions, subscriptionSK(name)),
	})
	if err != nil {
		return subscription.Subscription{}, commonErrors.NewStorageError("failed to get subscription", err)
	}
	if len(result.Item) == 0 {
		return subscription.Subscription{}, commonErrors.NewNotFoundError("subscription not found").
			WithDetail("name", name)
	}

	var sub subscription.Subscription
	if err := attributevalue.UnmarshalMap(result.Item, &sub); err != nil {
		return subscription.Subscription{}, commonErrors.NewInternalError("failed to unmarshal subscription", err)
	}
	return sub, nil
}

// Put creates or replaces a subscription
func (r *DynamoDBSubscriptionRepository) Put(ctx context.Context, sub subscription.Subscription) error {
	av, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal subscription", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      withKeys(av, pkSubscriptions, subscriptionSK(sub.Name), "subscription"),
	})
	if err != nil {
		return commonErrors.NewStorageError("failed to put subscription", err)
	}
	return nil
}

// Delete removes a subscription
func (r *DynamoDBSubscriptionRepository) Delete(ctx context.Context, name string) error {
	result, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          key(pkSubscriptions, subscriptionSK(name)),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return commonErrors.NewStorageError("failed to delete subscription", err)
	}
	if len(result.Attributes) == 0 {
		return commonErrors.NewNotFoundError("subscription not found").
			WithDetail("name", name)
	}
	return nil
}
