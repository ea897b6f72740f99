package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"standard", FormatStandard},
		{"MODERN_BANK", FormatModernBank},
		{" bank_layout_c ", FormatBankLayoutC},
		{"unicredit", FormatBankLayoutB},
		{"intesa_sanpaolo", FormatBankLayoutA},
		{"poste_italiane", FormatBankLayoutC},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, "ParseFormat(%q)", tt.in)
	}

	_, err := ParseFormat("chase")
	assert.Error(t, err)
}

func TestTransactionSigned(t *testing.T) {
	tx := Transaction{Amount: decimal.RequireFromString("45.30"), Type: TypeExpense}
	assert.True(t, tx.Signed().Equal(decimal.RequireFromString("-45.30")))

	tx.Type = TypeIncome
	assert.True(t, tx.Signed().Equal(decimal.RequireFromString("45.30")))
}

func TestTransactionJSON(t *testing.T) {
	tx := Transaction{
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "COOP SUPERMERCATO",
		Amount:      decimal.RequireFromString("45.30"),
		Type:        TypeExpense,
		Category:    "Groceries",
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"transaction_date":"2024-03-15"`)
	assert.Contains(t, string(data), `"type":"expense"`)
	assert.NotContains(t, string(data), "external_id")

	var back Transaction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tx.Date, back.Date)
	assert.True(t, tx.Amount.Equal(back.Amount))
	assert.Equal(t, tx.Category, back.Category)
}

func TestRejectError(t *testing.T) {
	r := Reject{Row: 4, Reason: RejectMissingAmount}
	assert.Equal(t, "row 4: missing_or_zero_amount", r.Error())

	r.Detail = `"abc"`
	assert.Equal(t, `row 4: missing_or_zero_amount ("abc")`, r.Error())
}
