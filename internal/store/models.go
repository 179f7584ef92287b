package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client statuses. Paused overrides the display state of the client's payment
// rows; hidden clients are excluded from backfill; churned clients no longer
// count toward expected revenue.
const (
	ClientActive  = "active"
	ClientPaused  = "paused"
	ClientHidden  = "hidden"
	ClientChurned = "churned"
)

// Payment row statuses. Paused is never stored on a payment row; it is
// derived from the owning client at display time.
const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

// Client is a canonical billed entity in the live store.
type Client struct {
	ID        string
	Name      string
	Amount    decimal.Decimal
	Status    string
	StartDate time.Time
}

// PaymentRecord is one month's payment state for a client. At most one row
// exists per (client, month).
type PaymentRecord struct {
	ID          string
	ClientID    string
	Month       time.Time
	Status      string
	PaymentDate *time.Time
	Notes       string
}

// MonthlyData is one row of the operating cost/revenue series.
type MonthlyData struct {
	Month   time.Time
	Costs   decimal.Decimal
	Revenue decimal.Decimal
	Margin  decimal.Decimal
}

func (c Client) Row() Row {
	return Row{
		"id":         c.ID,
		"name":       c.Name,
		"amount":     c.Amount.InexactFloat64(),
		"status":     c.Status,
		"start_date": c.StartDate,
	}
}

func ClientFromRow(row Row) (Client, error) {
	c := Client{
		ID:     cellString(row["id"]),
		Name:   cellString(row["name"]),
		Status: cellString(row["status"]),
	}
	if c.ID == "" || c.Name == "" {
		return Client{}, fmt.Errorf("client row missing id or name: %v", row)
	}
	amount, ok := asDecimal(row["amount"])
	if !ok {
		return Client{}, fmt.Errorf("client %s has unreadable amount %v", c.Name, row["amount"])
	}
	c.Amount = amount
	if t, ok := asTime(row["start_date"]); ok {
		c.StartDate = t
	}
	return c, nil
}

func (p PaymentRecord) Row() Row {
	row := Row{
		"id":        p.ID,
		"client_id": p.ClientID,
		"month":     p.Month,
		"status":    p.Status,
		"notes":     p.Notes,
	}
	if p.PaymentDate != nil {
		row["payment_date"] = *p.PaymentDate
	} else {
		row["payment_date"] = nil
	}
	return row
}

func PaymentFromRow(row Row) (PaymentRecord, error) {
	p := PaymentRecord{
		ID:       cellString(row["id"]),
		ClientID: cellString(row["client_id"]),
		Status:   cellString(row["status"]),
		Notes:    cellString(row["notes"]),
	}
	month, ok := asTime(row["month"])
	if !ok {
		return PaymentRecord{}, fmt.Errorf("payment row missing month: %v", row)
	}
	p.Month = month
	if p.ClientID == "" {
		return PaymentRecord{}, fmt.Errorf("payment row missing client_id: %v", row)
	}
	if t, ok := asTime(row["payment_date"]); ok {
		p.PaymentDate = &t
	}
	return p, nil
}

func MonthlyDataFromRow(row Row) (MonthlyData, error) {
	m := MonthlyData{}
	month, ok := asTime(row["month"])
	if !ok {
		return MonthlyData{}, fmt.Errorf("monthly_data row missing month: %v", row)
	}
	m.Month = month
	if d, ok := asDecimal(row["costs"]); ok {
		m.Costs = d
	}
	if d, ok := asDecimal(row["revenue"]); ok {
		m.Revenue = d
	}
	if d, ok := asDecimal(row["margin"]); ok {
		m.Margin = d
	}
	return m, nil
}

func (m MonthlyData) Row() Row {
	return Row{
		"month":   m.Month,
		"costs":   m.Costs.InexactFloat64(),
		"revenue": m.Revenue.InexactFloat64(),
		"margin":  m.Margin.InexactFloat64(),
	}
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
