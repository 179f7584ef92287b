package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemStore is an in-memory Store with the same filter semantics as PgxStore.
// The engines are written against the Store interface so they can be tested
// against this implementation with fixture data.
type MemStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

func NewMemStore() *MemStore {
	return &MemStore{tables: map[string][]Row{}}
}

func (m *MemStore) Query(_ context.Context, table string, filter Filter, order string) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Row{}
	for _, row := range m.tables[table] {
		ok, err := matches(row, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, cloneRow(row))
		}
	}
	if order != "" {
		if err := sortRows(out, order); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *MemStore) Insert(_ context.Context, table string, rows []Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.tables[table] = append(m.tables[table], cloneRow(row))
	}
	return nil
}

func (m *MemStore) Update(_ context.Context, table string, filter Filter, patch Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.tables[table] {
		ok, err := matches(row, filter)
		if err != nil {
			return err
		}
		if ok {
			for k, v := range patch {
				row[k] = v
			}
		}
	}
	return nil
}

func (m *MemStore) Delete(_ context.Context, table string, filter Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tables[table][:0]
	for _, row := range m.tables[table] {
		ok, err := matches(row, filter)
		if err != nil {
			return err
		}
		if !ok {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

func cloneRow(row Row) Row {
	c := make(Row, len(row))
	for k, v := range row {
		c[k] = v
	}
	return c
}

func matches(row Row, filter Filter) (bool, error) {
	for key, want := range filter {
		col, op, err := splitFilterKey(key)
		if err != nil {
			return false, err
		}
		have, ok := row[col]
		if !ok {
			return false, nil
		}
		if list, isList := want.([]any); isList {
			found := false
			for _, item := range list {
				if compare(have, item) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
			continue
		}
		c := compare(have, want)
		switch op {
		case "=":
			if c != 0 {
				return false, nil
			}
		case "<>":
			if c == 0 {
				return false, nil
			}
		case "<":
			if c >= 0 {
				return false, nil
			}
		case "<=":
			if c > 0 {
				return false, nil
			}
		case ">":
			if c <= 0 {
				return false, nil
			}
		case ">=":
			if c < 0 {
				return false, nil
			}
		}
	}
	return true, nil
}

// compare orders two cell values, coercing across the numeric and temporal
// representations the row maps carry.
func compare(a, b any) int {
	if at, aok := asTime(a); aok {
		if bt, bok := asTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	if ad, aok := asDecimal(a); aok {
		if bd, bok := asDecimal(b); bok {
			return ad.Cmp(bd)
		}
	}
	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	return strings.Compare(as, bs)
}

func asTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func sortRows(rows []Row, order string) error {
	parts := strings.Fields(order)
	if len(parts) == 0 || len(parts) > 2 {
		return fmt.Errorf("bad order %q", order)
	}
	col := parts[0]
	desc := len(parts) == 2 && strings.EqualFold(parts[1], "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i][col], rows[j][col])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}
