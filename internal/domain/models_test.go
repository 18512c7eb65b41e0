// internal/domain/models_test.go
package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountsMarshalAsJSONNumbers(t *testing.T) {
	b := Budget{
		ID:    7,
		Value: decimal.RequireFromString("500.00"),
		Month: NewYearMonth(2025, time.June),
	}
	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":500.00`)
	assert.NotContains(t, string(out), `"value":"500.00"`)

	tx := Transaction{
		ID:     3,
		Amount: decimal.RequireFromString("19.99"),
		Type:   Expense,
		Date:   NewDate(2025, time.June, 10),
	}
	out, err = json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"amount":19.99`)
}
