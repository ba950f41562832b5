package deposit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_IncrementAndOutstanding(t *testing.T) {
	ledger := Ledger{}
	ledger.Increment("Wasser 1L")
	ledger.Increment("Wasser 1L")
	ledger.Increment("Cola 0.5L")

	assert.Equal(t, 2, ledger["Wasser 1L"])
	assert.Equal(t, 3, ledger.Outstanding())
}

func TestLedger_DecrementClampsAtZero(t *testing.T) {
	ledger := Ledger{"Wasser 1L": 2}

	ledger.Decrement("Wasser 1L", 1)
	assert.Equal(t, 1, ledger["Wasser 1L"])

	// Returning more units than tracked never goes negative
	ledger.Decrement("Wasser 1L", 5)
	assert.Equal(t, 0, ledger["Wasser 1L"])

	ledger.Decrement("unknown", 3)
	assert.Equal(t, 0, ledger["unknown"])
}
