package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func rec(name string, y int, m time.Month, amount, status string) Record {
	return Record{
		ClientName: name,
		Month:      month(y, m),
		Amount:     decimal.RequireFromString(amount),
		Status:     status,
	}
}

func newProcessor() *Processor {
	return NewProcessor(NewNormalizer(map[string]string{
		"X": "Z",
		"Y": "Z",
	}))
}

func TestProcessSingleClientTwoMonths(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("Acme", 2025, time.January, "100", "Paid"),
		rec("Acme", 2025, time.February, "100", "Unpaid"),
	})

	require.Len(t, out.Clients, 1)
	c := out.Clients[0]
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, month(2025, time.January), c.StartDate)
	assert.Equal(t, ClientStatusActive, c.Status)

	require.Len(t, out.Payments, 2)
	assert.Equal(t, StatusPaid, out.Payments[0].Status)
	assert.Equal(t, StatusUnpaid, out.Payments[1].Status)
}

func TestProcessFoldsAliasesInSameMonth(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("X", 2025, time.March, "200", "Paid"),
		rec("Y", 2025, time.March, "300", "Paid"),
	})

	require.Len(t, out.Payments, 1)
	p := out.Payments[0]
	assert.Equal(t, "Z", p.ClientName)
	assert.Equal(t, month(2025, time.March), p.Month)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("500")), "folded amount %s", p.Amount)
	assert.Equal(t, StatusPaid, p.Status)
}

func TestProcessFoldedStartDateIsMinimumAcrossAliases(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("Y", 2024, time.June, "300", "Paid"),
		rec("X", 2023, time.January, "200", "Paid"),
	})

	require.Len(t, out.Clients, 1)
	assert.Equal(t, month(2023, time.January), out.Clients[0].StartDate)
}

func TestProcessFoldMixedStatusFallsToUnpaid(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("X", 2025, time.March, "200", "Paid"),
		rec("Y", 2025, time.March, "300", "Unpaid"),
	})

	require.Len(t, out.Payments, 1)
	assert.Equal(t, StatusUnpaid, out.Payments[0].Status)
}

func TestProcessAcceptsEitherOrdering(t *testing.T) {
	records := []Record{
		rec("Acme", 2025, time.January, "100", "Paid"),
		rec("Acme", 2025, time.February, "120", "Paid"),
		rec("Acme", 2025, time.March, "150", "Unpaid"),
	}
	reversed := []Record{records[2], records[1], records[0]}

	forward := newProcessor().Process(records)
	backward := newProcessor().Process(reversed)

	require.Len(t, forward.Clients, 1)
	require.Len(t, backward.Clients, 1)
	assert.Equal(t, forward.Clients[0], backward.Clients[0])
	// snapshot follows the latest month, not input position
	assert.True(t, forward.Clients[0].Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, month(2025, time.January), forward.Clients[0].StartDate)
	require.Len(t, backward.Payments, 3)
	assert.Equal(t, month(2025, time.January), backward.Payments[0].Month)
	assert.Equal(t, month(2025, time.March), backward.Payments[2].Month)
}

func TestProcessPausedAndZeroAmountMarkClientPaused(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("Acme", 2025, time.January, "100", "Paid"),
		rec("Acme", 2025, time.February, "0", "Paused"),
	})
	require.Len(t, out.Clients, 1)
	assert.Equal(t, ClientStatusPaused, out.Clients[0].Status)

	// a later month overrides the pause
	out = newProcessor().Process([]Record{
		rec("Acme", 2025, time.January, "100", "Paid"),
		rec("Acme", 2025, time.February, "0", "Paused"),
		rec("Acme", 2025, time.March, "100", "Paid"),
	})
	require.Len(t, out.Clients, 1)
	assert.Equal(t, ClientStatusActive, out.Clients[0].Status)
}

func TestProcessPausedRowBecomesUnpaidPayment(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("Acme", 2025, time.February, "0", "Paused"),
	})
	require.Len(t, out.Payments, 1)
	assert.Equal(t, StatusUnpaid, out.Payments[0].Status)
}

func TestProcessNAMapsToUnpaid(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("Acme", 2025, time.January, "100", "N/A"),
	})
	require.Len(t, out.Payments, 1)
	assert.Equal(t, StatusUnpaid, out.Payments[0].Status)
}

func TestProcessNotesConcatenatedOnFold(t *testing.T) {
	a := rec("X", 2025, time.March, "200", "Paid")
	a.Notes = "wire"
	b := rec("Y", 2025, time.March, "300", "Paid")
	b.Notes = "check"

	out := newProcessor().Process([]Record{a, b})
	require.Len(t, out.Payments, 1)
	assert.Equal(t, "wire | check", out.Payments[0].Notes)
}

func TestProcessAbsentMonthHasNoPayment(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("Acme", 2025, time.January, "100", "Paid"),
		rec("Acme", 2025, time.March, "100", "Paid"),
	})
	require.Len(t, out.Payments, 2)
	for _, p := range out.Payments {
		assert.NotEqual(t, month(2025, time.February), p.Month)
	}
}

func TestProcessAtMostOnePaymentPerClientMonth(t *testing.T) {
	out := newProcessor().Process([]Record{
		rec("X", 2024, time.May, "100", "Paid"),
		rec("Y", 2024, time.May, "150", "Paid"),
		rec("Z", 2024, time.May, "50", "Paid"),
		rec("X", 2024, time.June, "100", "Paid"),
	})
	seen := map[string]bool{}
	for _, p := range out.Payments {
		key := p.ClientName + p.Month.Format("2006-01")
		assert.False(t, seen[key], "duplicate payment for %s", key)
		seen[key] = true
	}
	// all three May aliases folded into one row of 300
	require.Len(t, out.Payments, 2)
	assert.True(t, out.Payments[0].Amount.Equal(decimal.RequireFromString("300")))
}
