package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPayments(t *testing.T) *MemStore {
	t.Helper()
	m := NewMemStore()
	ctx := context.Background()
	months := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	rows := []Row{}
	for i, mo := range months {
		rows = append(rows, Row{"id": string(rune('a' + i)), "client_id": "c1", "month": mo, "status": "paid", "notes": ""})
	}
	require.NoError(t, m.Insert(ctx, TablePayments, rows))
	return m
}

func TestMemStoreRangeFilter(t *testing.T) {
	m := seedPayments(t)
	ctx := context.Background()

	rows, err := m.Query(ctx, TablePayments, Filter{
		"month >=": time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		"month <=": time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}, "month asc")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0]["id"])
	assert.Equal(t, "c", rows[1]["id"])
}

func TestMemStoreDeleteByFilter(t *testing.T) {
	m := seedPayments(t)
	ctx := context.Background()

	require.NoError(t, m.Delete(ctx, TablePayments, Filter{
		"month >=": time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}))
	rows, err := m.Query(ctx, TablePayments, nil, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0]["id"])
}

func TestMemStoreUpdatePatchesMatches(t *testing.T) {
	m := seedPayments(t)
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, TablePayments,
		Filter{"id": "b"}, Row{"status": "unpaid", "payment_date": nil}))

	rows, err := m.Query(ctx, TablePayments, Filter{"id": "b"}, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "unpaid", rows[0]["status"])

	// others untouched
	rows, err = m.Query(ctx, TablePayments, Filter{"status": "paid"}, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMemStoreNumericCompareAcrossTypes(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()
	require.NoError(t, m.Insert(ctx, TableClients, []Row{
		{"id": "c1", "name": "A", "amount": 100.0, "status": "active"},
		{"id": "c2", "name": "B", "amount": 250.0, "status": "active"},
	}))

	rows, err := m.Query(ctx, TableClients, Filter{"amount >": 150}, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c2", rows[0]["id"])
}

func TestMemStoreQueryReturnsCopies(t *testing.T) {
	m := seedPayments(t)
	ctx := context.Background()

	rows, err := m.Query(ctx, TablePayments, Filter{"id": "a"}, "")
	require.NoError(t, err)
	rows[0]["status"] = "mutated"

	again, err := m.Query(ctx, TablePayments, Filter{"id": "a"}, "")
	require.NoError(t, err)
	assert.Equal(t, "paid", again[0]["status"])
}

func TestMemStoreOrderDesc(t *testing.T) {
	m := seedPayments(t)
	rows, err := m.Query(context.Background(), TablePayments, nil, "month desc")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0]["id"])
}
