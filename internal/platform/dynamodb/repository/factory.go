package repository

import (
	"github.com/hausbuch/hausbuch/internal/domain/catalog"
	"github.com/hausbuch/hausbuch/internal/domain/deposit"
	"github.com/hausbuch/hausbuch/internal/domain/item"
	"github.com/hausbuch/hausbuch/internal/domain/rates"
	"github.com/hausbuch/hausbuch/internal/domain/subscription"
	"github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
)

// Factory creates repository instances
type Factory struct {
	client    client.Client
	tableName string
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
	}
}

// ItemRepository returns an implementation of the item.Repository interface
func (f *Factory) ItemRepository() item.Repository {
	return NewDynamoDBItemRepository(f.client, f.tableName)
}

// CatalogRepository returns an implementation of the catalog.Repository interface
func (f *Factory) CatalogRepository() catalog.Repository {
	return NewDynamoDBCatalogRepository(f.client, f.tableName)
}

// DepositRepository returns an implementation of the deposit.Repository interface
func (f *Factory) DepositRepository() deposit.Repository {
	return NewDynamoDBDepositRepository(f.client, f.tableName)
}

// RateRepository returns an implementation of the rates.Repository interface
func (f *Factory) RateRepository() rates.Repository {
	return NewDynamoDBRateRepository(f.client, f.tableName)
}

// SubscriptionRepository returns an implementation of the subscription.Repository interface
func (f *Factory) SubscriptionRepository() subscription.Repository {
	return NewDynamoDBSubscriptionRepository(f.client, f.tableName)
}
