package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/hausbuch/hausbuch/internal/domain/catalog"
	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
)

// DynamoDBCatalogRepository implements the catalog.Repository interface.
// Products are one record each; the category and account label sets are
// single documents, small enough to rewrite whole.
type DynamoDBCatalogRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBCatalogRepository creates a new DynamoDBCatalogRepository
func NewDynamoDBCatalogRepository(client client.Client, table string) *DynamoDBCatalogRepository {
	return &DynamoDBCatalogRepository{
		client: client,
		table:  table,
	}
}

// labelSet is the persisted form of an append-only label list
type labelSet struct {
	Labels []string `json:"labels"`
}

// ListProducts returns all catalog products. The sort key is the product
// name, so the query comes back name-ordered.
func (r *DynamoDBCatalogRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(pkCatalog)).
		And(expression.Key("SK").BeginsWith("PRODUCT#"))
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
		return nil, commonErrors.NewStorageError("failed to query products", err)
	}

	products := make([]catalog.Product, 0, len(result.Items))
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &products); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal products", err)
	}
	return products, nil
}

// GetProduct returns a product by name, or a not-found error
func (r *DynamoDBCatalogRepository) GetProduct(ctx context.Context, name string) (catalog.Product, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(pkCatalog, productSK(name)),
	})
	if err != nil {
		return catalog.Product{}, commonErrors.NewStorageError("failed to get product", err)
	}
	if len(result.Item) == 0 {
		return catalog.Product{}, commonErrors.NewNotFoundError("product not found").
			WithDetail("name", name)
	}

	var product catalog.Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return catalog.Product{}, commonErrors.NewInternalError("failed to unmarshal product", err)
	}
	return product, nil
}

// PutProduct creates or replaces a product
func (r *DynamoDBCatalogRepository) PutProduct(ctx context.Context, product catalog.Product) error {
	av, err := attributevalue.MarshalMap(product)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal product", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      withKeys(av, pkCatalog, productSK(product.Name), "product"),
	})
	if err != nil {
		return commonErrors.NewStorageError("failed to put product", err)
	}
	return nil
}

// ListCategories returns all category labels in insertion order. A fresh
// table starts from the default category set.
func (r *DynamoDBCatalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	labels, found, err := r.loadLabels(ctx, skCategories)
	if err != nil {
		return nil, err
	}
	if !found {
		return append([]string{}, catalog.DefaultCategories...), nil
	}
	return labels, nil
}

// AddCategory appends a category label; adding an existing label is a no-op
func (r *DynamoDBCatalogRepository) AddCategory(ctx context.Context, name string) error {
	labels, err := r.ListCategories(ctx)
	if err != nil {
		return err
	}
	return r.appendLabel(ctx, skCategories, labels, name)
}

// ListAccounts returns all account labels in insertion order
func (r *DynamoDBCatalogRepository) ListAccounts(ctx context.Context) ([]string, error) {
	labels, _, err := r.loadLabels(ctx, skAccounts)
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// AddAccount appends an account label; adding an existing label is a no-op
func (r *DynamoDBCatalogRepository) AddAccount(ctx context.Context, name string) error {
	labels, err := r.ListAccounts(ctx)
	if err != nil {
		return err
	}
	return r.appendLabel(ctx, skAccounts, labels, name)
}

func (r *DynamoDBCatalogRepository) loadLabels(ctx context.Context, sk string) ([]string, bool, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(pkCatalog, sk),
	})
	if err != nil {
		return nil, false, commonErrors.NewStorageError("failed to get label set", err).
			WithDetail("set", sk)
	}
	if len(result.Item) == 0 {
		return []string{}, false, nil
	}

	var set labelSet
	if err := attributevalue.UnmarshalMap(result.Item, &set); err != nil {
		return nil, false, commonErrors.NewInternalError("failed to unmarshal label set", err)
	}
	return set.Labels, true, nil
}

func (r *DynamoDBCatalogRepository) appendLabel(ctx context.Context, sk string, labels []string, name string) error {
	for _, label := range labels {
		if label == name {
			return nil
		}
	}

	av, err := attributevalue.MarshalMap(labelSet{Labels: append(labels, name)})
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal label set", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      withKeys(av, pkCatalog, sk, "labels"),
	})
	if err != nil {
		return commonErrors.NewStorageError("failed to put label set", err).
			WithDetail("set", sk)
	}
	return nil
}
