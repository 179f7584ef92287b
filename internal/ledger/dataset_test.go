package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPackagedLedger(t *testing.T) {
	records, skipped, err := Load()
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Greater(t, len(records), 200)

	for _, rec := range records {
		assert.NotEmpty(t, rec.ClientName)
		assert.Equal(t, 1, rec.Month.Day(), "months must be first-of-month")
		assert.False(t, rec.Amount.IsNegative())
	}
}

func TestFromRowsSkipsMalformed(t *testing.T) {
	rows := [][]string{
		{"client_name", "month", "amount", "status", "notes"},
		{"Acme", "1/1/2025", "100", "Paid", ""},
		{"Acme", "not-a-date", "100", "Paid", ""},
		{"Acme", "2/1/2025", "abc", "Paid", ""},
		{"", "3/1/2025", "100", "Paid", ""},
		{"Short", "4/1/2025"},
	}
	records, skipped := FromRows(rows)
	assert.Len(t, records, 1)
	assert.Equal(t, 4, skipped)
}

func TestParseMonthLayouts(t *testing.T) {
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"1/1/2025", "1/15/2025", "01/01/2025", "2025-01-01", "2025-01", "Jan 2025"} {
		got, ok := ParseMonth(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
	_, ok := ParseMonth("")
	assert.False(t, ok)
}

func TestMonthsBetween(t *testing.T) {
	jan := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, MonthsBetween(jan, jan))
	assert.Equal(t, 24, MonthsBetween(jan, jan.AddDate(2, 0, 0)))
	assert.Equal(t, -3, MonthsBetween(jan, jan.AddDate(0, -3, 0)))
	// mid-month days don't matter
	assert.Equal(t, 1, MonthsBetween(jan.AddDate(0, 0, 27), jan.AddDate(0, 1, 2)))
}
