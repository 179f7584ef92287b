package store

import "context"

// Row is one record keyed by column name.
type Row map[string]any

// Filter selects rows by column predicates. A plain column name means
// equality; a key may carry a trailing comparison operator, e.g.
// "month >=" or "amount <". A slice value means IN.
type Filter map[string]any

// Store is the record-store collaborator: a schema-agnostic
// query/insert/update/delete surface over named tables.
type Store interface {
	Query(ctx context.Context, table string, filter Filter, order string) ([]Row, error)
	Insert(ctx context.Context, table string, rows []Row) error
	Update(ctx context.Context, table string, filter Filter, patch Row) error
	Delete(ctx context.Context, table string, filter Filter) error
}

// Tables this system reads and writes.
const (
	TableClients  = "clients"
	TablePayments = "monthly_payments"
	TableMonthly  = "monthly_data"
)
