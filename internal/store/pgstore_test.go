package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFilterKey(t *testing.T) {
	cases := []struct {
		key, col, op string
	}{
		{"month", "month", "="},
		{"month >=", "month", ">="},
		{"amount <", "amount", "<"},
		{"status <>", "status", "<>"},
	}
	for _, tc := range cases {
		col, op, err := splitFilterKey(tc.key)
		require.NoError(t, err, tc.key)
		assert.Equal(t, tc.col, col)
		assert.Equal(t, tc.op, op)
	}

	_, _, err := splitFilterKey("month like")
	assert.Error(t, err)
	_, _, err = splitFilterKey("a b c")
	assert.Error(t, err)
}

func TestBuildWhereOrdersClausesDeterministically(t *testing.T) {
	where, args, err := buildWhere(Filter{
		"month >=": "2025-01-01",
		"month <=": "2025-06-01",
		"status":   "paid",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, " WHERE month <= $1 AND month >= $2 AND status = $3", where)
	assert.Equal(t, []any{"2025-06-01", "2025-01-01", "paid"}, args)
}

func TestBuildWhereExpandsInLists(t *testing.T) {
	where, args, err := buildWhere(Filter{
		"status": []any{"active", "paused"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, " WHERE status IN ($1, $2)", where)
	assert.Len(t, args, 2)
}

func TestBuildWhereEmptyFilter(t *testing.T) {
	where, args, err := buildWhere(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Nil(t, args)
}
