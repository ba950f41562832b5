package ingest

import (
	"strings"
)

// Metadata keys of the mini-language, written with a full-width colon:
// 日期 (date), 入金 (source/merchant), 出金 (account/payment method),
// 币种 (currency), 类型 (category, subscription blocks only).
const (
	metadataColon = "："

	keyDate     = "日期"
	keySource   = "入金"
	keyAccount  = "出金"
	keyCurrency = "币种"
	keyCategory = "类型"
)

// Metadata is the parsed header section of a block
type Metadata struct {
	Date     string
	Source   string
	Account  string
	Currency string
	Category string
}

// withDefaults fills in the block-level fallbacks: today's date and the base
// currency
func (m Metadata) withDefaults(today, baseCurrency string) Metadata {
	if m.Date == "" {
		m.Date = today
	}
	if m.Currency == "" {
		m.Currency = baseCurrency
	}
	return m
}

// isSeparator reports whether a line toggles the metadata section: three or
// more dashes and nothing else
func isSeparator(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != '-' {
			return false
		}
	}
	return true
}

// parseMetadataLine applies one key：value line to the metadata. Unknown
// keys are ignored.
func parseMetadataLine(line string, md *Metadata) {
	key, value, found := strings.Cut(line, metadataColon)
	if !found {
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case keyDate:
		md.Date = value
	case keySource:
		md.Source = value
	case keyAccount:
		md.Account = value
	case keyCurrency:
		md.Currency = value
	case keyCategory:
		md.Category = value
	}
}
