package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracker-spend/spendtrack/internal/model"
)

func TestParseDate_Generic(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"15/03/2024", "2024-03-15"},
		{"15-03-2024", "2024-03-15"},
		{"15/03/24", "2024-03-15"},
		{"15-03-24", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"5/3/2024", "2024-03-05"},
		{" 2024-03-15 ", "2024-03-15"},
		{"2024-03-15 00:00:00", "2024-03-15"},
		{"2024-03-15T10:30:00Z", "2024-03-15"},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.raw, VariantGeneric)
		require.True(t, ok, "NormalizeDate(%q)", tt.raw)
		assert.Equal(t, tt.want, got, "NormalizeDate(%q)", tt.raw)
	}
}

func TestParseDate_Idempotent(t *testing.T) {
	inputs := []string{"2024-03-15", "15/03/2024", "15-03-2024", "15/03/24", "15-03-24", "2024/03/15", "03/15/2024"}
	for _, v := range []Variant{VariantGeneric, VariantModernBank} {
		for _, raw := range inputs {
			once, ok := NormalizeDate(raw, v)
			if !ok {
				continue
			}
			twice, ok := NormalizeDate(once, v)
			require.True(t, ok, "re-parsing %q", once)
			assert.Equal(t, once, twice, "idempotence of %q", raw)
		}
	}
}

func TestParseDate_ModernBankPrefersMonthFirst(t *testing.T) {
	got, ok := NormalizeDate("03/04/2024", VariantModernBank)
	require.True(t, ok)
	assert.Equal(t, "2024-03-04", got)

	got, ok = NormalizeDate("03/04/2024", VariantGeneric)
	require.True(t, ok)
	assert.Equal(t, "2024-04-03", got)

	// Month 15 is impossible, so the generic day-first path applies.
	got, ok = NormalizeDate("15/03/2024", VariantModernBank)
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", got)
}

func TestParseDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "yesterday", "31/02/2024", "2024-13-01", "nan"} {
		_, ok := ParseDate(raw, VariantGeneric)
		assert.False(t, ok, "ParseDate(%q) should fail", raw)
	}
}

func TestParseDate_UTC(t *testing.T) {
	got, ok := ParseDate("15/03/2024", VariantGeneric)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestVariantFor(t *testing.T) {
	assert.Equal(t, VariantModernBank, VariantFor(model.FormatModernBank))
	assert.Equal(t, VariantGeneric, VariantFor(model.FormatStandard))
	assert.Equal(t, VariantGeneric, VariantFor(model.FormatBankLayoutB))
}
