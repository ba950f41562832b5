// Package repository implements the domain repositories over one DynamoDB
// table. Every collection hangs off a fixed partition key:
//
//	INVENTORY     / ITEM#<id>      active items
//	HISTORY       / REC#<ulid>     checkout archive
//	LOST          / ITEM#<id>      lost items
//	SOLD          / REC#<ulid>     sale archive
//	CATALOG       / PRODUCT#<name> product catalog
//	CATALOG       / CATEGORIES     category label set (single document)
//	CATALOG       / ACCOUNTS       account label set (single document)
//	DEPOSITS      / LEDGER         deposit ledger (single document)
//	SUBSCRIPTIONS / SUB#<name>     subscription definitions
//	RATES         / ROW#<seq>      exchange-rate snapshots in append order
package repository

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	pkInventory     = "INVENTORY"
	pkHistory       = "HISTORY"
	pkLost          = "LOST"
	pkSold          = "SOLD"
	pkCatalog       = "CATALOG"
	pkDeposits      = "DEPOSITS"
	pkSubscriptions = "SUBSCRIPTIONS"
	pkRates         = "RATES"

	skCategories = "CATEGORIES"
	skAccounts   = "ACCOUNTS"
	skLedger     = "LEDGER"
)

func itemSK(id string) string {
	return "ITEM#" + id
}

func recordSK(id string) string {
	return "REC#" + id
}

func productSK(name string) string {
	return "PRODUCT#" + name
}

func subscriptionSK(name string) string {
	return "SUB#" + name
}

func rateSK(seq int) string {
	return fmt.Sprintf("ROW#%05d", seq)
}

// withKeys stamps partition key, sort key and record type onto a marshalled
// item
func withKeys(av map[string]types.AttributeValue, pk, sk, recordType string) map[string]types.AttributeValue {
	av["PK"] = &types.AttributeValueMemberS{Value: pk}
	av["SK"] = &types.AttributeValueMemberS{Value: sk}
	av["Type"] = &types.AttributeValueMemberS{Value: recordType}
	return av
}

func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}
