package repository

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hausbuch/hausbuch/internal/domain/deposit"
	"github.com/hausbuch/hausbuch/internal/platform/dynamodb/client"
)

func TestDepositRepository_LoadEmpty(t *testing.T) {
	repo := NewDynamoDBDepositRepository(client.NewMockDynamoDBClient(), testTable)

	ledger, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ledger)
	assert.Empty(t, ledger)
}

func TestDepositRepository_SaveAndLoad(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	var stored map[string]types.AttributeValue
	mock.PutItemFn = func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
		stored = params.Item
		return &dynamodb.PutItemOutput{}, nil
	}
	mock.GetItemFn = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
		assert.Equal(t, "DEPOSITS", stringAttr(params.Key, "PK"))
		assert.Equal(t, "LEDGER", stringAttr(params.Key, "SK"))
		return &dynamodb.GetItemOutput{Item: stored}, nil
	}
	repo := NewDynamoDBDepositRepository(mock, testTable)
	ctx := context.Background()

	want := deposit.Ledger{"Wasser Pfand": 3}
	require.NoError(t, repo.Save(ctx, want))
	assert.Equal(t, "DEPOSITS", stringAttr(stored, "PK"))
	assert.Equal(t, "LEDGER", stringAttr(stored, "SK"))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDepositRepository_LoadLedgerWithoutCounts(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	mock.GetItemFn = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
		av, err := attributevalue.MarshalMap(ledgerDocument{})
		require.NoError(t, err)
		return &dynamodb.GetItemOutput{Item: withKeys(av, pkDeposits, skLedger, "deposit_ledger")}, nil
	}
	repo := NewDynamoDBDepositRepository(mock, testTable)

	ledger, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ledger)
	assert.Empty(t, ledger)
}
