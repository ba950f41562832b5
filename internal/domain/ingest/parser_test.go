package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hausbuch/hausbuch/internal/domain/rates"
)

func testEngine() *rates.Engine {
	return rates.NewEngine("EUR", rates.Table{Snapshots: []rates.Snapshot{
		{Month: "2025-09", Rates: map[string]float64{"EUR": 1.0, "CNY": 7.8}},
	}})
}

func testParser() *Parser {
	return NewParser(testEngine(), "Pfand", time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC))
}

func TestParsePurchases_FullBlock(t *testing.T) {
	text := `
---
日期：2025-09-20
入金：Rewe
出金：EC
---
## 饮料
Milch >> 1.29 :: 1.19
Wasser Pfand >> 0.25
## 水果
rewe09 :: Apfel >> 2.49
`

	block, err := testParser().ParsePurchases(text)
	require.NoError(t, err)
	require.Len(t, block.Items, 3)

	milch := block.Items[0]
	assert.Equal(t, "Milch", milch.Name)
	assert.Equal(t, "饮料", milch.Category)
	assert.Equal(t, 1.29, milch.StandardPrice)
	assert.Equal(t, 1.19, milch.ActualPrice)
	assert.InDelta(t, 0.1, milch.Discount, 1e-9)
	assert.Equal(t, "2025-09-20", milch.PurchaseDate)
	assert.Equal(t, "Rewe", milch.Source)
	assert.Equal(t, "EC", milch.Account)
	assert.Equal(t, "EUR", milch.Currency)
	assert.Equal(t, 1.0, milch.PurchaseRate)
	assert.NotEmpty(t, milch.ID)

	// Single-price lines have no discount
	wasser := block.Items[1]
	assert.Equal(t, 0.25, wasser.StandardPrice)
	assert.Equal(t, 0.25, wasser.ActualPrice)
	assert.Equal(t, 0.0, wasser.Discount)

	// invoice :: name keeps the invoice label, prefixed with the merchant
	apfel := block.Items[2]
	assert.Equal(t, "Apfel", apfel.Name)
	assert.Equal(t, "水果", apfel.Category)
	assert.Equal(t, "Rewe_rewe09", apfel.InvoiceName)

	assert.Equal(t, []string{"Wasser Pfand"}, block.DepositNames)
	assert.Empty(t, block.Returns)
}

func TestParsePurchases_DefaultsDateAndCurrency(t *testing.T) {
	block, err := testParser().ParsePurchases("Milch >> 1.29")
	require.NoError(t, err)
	require.Len(t, block.Items, 1)
	assert.Equal(t, "2025-10-01", block.Items[0].PurchaseDate)
	assert.Equal(t, "EUR", block.Items[0].Currency)
	assert.Equal(t, "", block.Items[0].Category)
}

func TestParsePurchases_ForeignCurrencyRate(t *testing.T) {
	text := `
---
日期：2025-09-20
币种：CNY
---
奶茶 >> 15.6
`
	block, err := testParser().ParsePurchases(text)
	require.NoError(t, err)
	require.Len(t, block.Items, 1)
	assert.Equal(t, "CNY", block.Items[0].Currency)
	assert.Equal(t, 7.8, block.Items[0].PurchaseRate)
}

func TestParsePurchases_MissingRateRejectsBlock(t *testing.T) {
	text := `
---
币种：JPY
---
拉面 >> 980
`
	_, err := testParser().ParsePurchases(text)
	var missing *rates.MissingRateError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "JPY", missing.Currency)
}

func TestParsePurchases_DepositReturn(t *testing.T) {
	text := `
---
日期：2025-09-20
---
Pfand (3) << 0.75
`
	block, err := testParser().ParsePurchases(text)
	require.NoError(t, err)
	assert.Empty(t, block.Items)
	require.Len(t, block.Returns, 1)
	assert.Equal(t, 3, block.Returns[0].Count)
	assert.Equal(t, 0.75, block.Returns[0].Amount)
	assert.Equal(t, "2025-09-20", block.Returns[0].Date)
}

func TestParsePurchases_DepositReturnWithoutCountIsSkipped(t *testing.T) {
	block, err := testParser().ParsePurchases("Pfand << 0.75")
	require.NoError(t, err)
	assert.Empty(t, block.Returns)
}

func TestParsePurchases_MalformedNumberRejectsBlock(t *testing.T) {
	_, err := testParser().ParsePurchases("Milch >> 1,29")
	var malformed *MalformedNumberError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "1,29", malformed.Value)

	_, err = testParser().ParsePurchases("Pfand (2) << viel")
	assert.True(t, errors.As(err, &malformed))
}

func TestParsePurchases_NegativeDiscountRejectsBlock(t *testing.T) {
	_, err := testParser().ParsePurchases("Milch >> 1.19 :: 1.29")
	var negative *NegativeDiscountError
	require.True(t, errors.As(err, &negative))
	assert.Equal(t, "Milch", negative.Name)
}

func TestParsePurchases_SkipsUnclassifiableLines(t *testing.T) {
	text := `
irgendwas ohne preis
# kein header
Milch >> 1.29
`
	block, err := testParser().ParsePurchases(text)
	require.NoError(t, err)
	assert.Len(t, block.Items, 1)
}

func TestParsePurchases_EmptyInput(t *testing.T) {
	block, err := testParser().ParsePurchases("   \n  \n")
	require.NoError(t, err)
	assert.Empty(t, block.Items)
	assert.Empty(t, block.Returns)
}
