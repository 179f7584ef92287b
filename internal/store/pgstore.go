package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore implements Store over a pgx connection pool. Table names are
// validated against the known set; column predicates become parameterized SQL.
type PgxStore struct {
	pool *pgxpool.Pool
}

func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

var allowedTables = map[string]bool{
	TableClients:  true,
	TablePayments: true,
	TableMonthly:  true,
}

var filterOps = map[string]bool{"=": true, "<": true, "<=": true, ">": true, ">=": true, "<>": true}

func checkTable(table string) error {
	if !allowedTables[table] {
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}

// splitFilterKey separates "month >=" into column and operator.
func splitFilterKey(key string) (col, op string, err error) {
	parts := strings.Fields(key)
	switch len(parts) {
	case 1:
		return parts[0], "=", nil
	case 2:
		if !filterOps[parts[1]] {
			return "", "", fmt.Errorf("unsupported operator %q", parts[1])
		}
		return parts[0], parts[1], nil
	}
	return "", "", fmt.Errorf("bad filter key %q", key)
}

func buildWhere(filter Filter, args []any) (string, []any, error) {
	if len(filter) == 0 {
		return "", args, nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	clauses := make([]string, 0, len(keys))
	for _, k := range keys {
		col, op, err := splitFilterKey(k)
		if err != nil {
			return "", nil, err
		}
		v := filter[k]
		if list, ok := v.([]any); ok {
			ph := make([]string, len(list))
			for i, item := range list {
				args = append(args, item)
				ph[i] = fmt.Sprintf("$%d", len(args))
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ", ")))
			continue
		}
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (s *PgxStore) Query(ctx context.Context, table string, filter Filter, order string) ([]Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	q := "SELECT * FROM " + table
	where, args, err := buildWhere(filter, nil)
	if err != nil {
		return nil, err
	}
	q += where
	if order != "" {
		q += " ORDER BY " + order
	}
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := Row{}
		for i, fd := range fields {
			row[string(fd.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *PgxStore) Insert(ctx context.Context, table string, rows []Row) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	// column set from the first row; every row must supply the same columns
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(ph, ", "))

	batch := &pgx.Batch{}
	for _, row := range rows {
		args := make([]any, len(cols))
		for i, c := range cols {
			v, ok := row[c]
			if !ok {
				return fmt.Errorf("row missing column %q", c)
			}
			args[i] = v
		}
		batch.Queue(q, args...)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *PgxStore) Update(ctx context.Context, table string, filter Filter, patch Row) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(patch) == 0 {
		return errors.New("empty patch")
	}
	cols := make([]string, 0, len(patch))
	for c := range patch {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	args := make([]any, 0, len(cols)+len(filter))
	sets := make([]string, len(cols))
	for i, c := range cols {
		args = append(args, patch[c])
		sets[i] = fmt.Sprintf("%s = $%d", c, len(args))
	}
	where, args, err := buildWhere(filter, args)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ", "), where)
	_, err = s.pool.Exec(ctx, q, args...)
	return err
}

func (s *PgxStore) Delete(ctx context.Context, table string, filter Filter) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(filter) == 0 {
		return errors.New("refusing unfiltered delete")
	}
	where, args, err := buildWhere(filter, nil)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, "DELETE FROM "+table+where, args...)
	return err
}
