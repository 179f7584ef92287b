package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Derived client states a ledger can produce. Hidden and churned exist in the
// live store but are only ever set by operator actions, never by the ledger.
const (
	ClientStatusActive = "active"
	ClientStatusPaused = "paused"
)

// CanonicalClient is the deduplicated roster entry for one billed entity:
// the amount and status reflect the most recent ledger month seen, the start
// date the earliest across all folded aliases.
type CanonicalClient struct {
	Name      string
	Amount    decimal.Decimal
	Status    string
	StartDate time.Time
}

// NormalizedPayment is one payment row per canonical client per month. When
// several raw aliases bill in the same month their amounts are summed into a
// single row.
type NormalizedPayment struct {
	ClientName string
	Month      time.Time
	Amount     decimal.Decimal
	Status     string
	Notes      string
}

// Output is the result of a ledger processing pass.
type Output struct {
	Clients  []CanonicalClient
	Payments []NormalizedPayment
	Skipped  int
}

// Processor turns raw ledger records into a canonical roster and a
// per-client-per-month payment list.
type Processor struct {
	norm *Normalizer
}

func NewProcessor(norm *Normalizer) *Processor {
	return &Processor{norm: norm}
}

type foldedPayment struct {
	NormalizedPayment
	order      int
	allPaid    bool
	lastPaused bool
}

// Process accepts the full record sequence in either chronological or
// reverse-chronological order. Rows with an unparsable month are skipped and
// counted, never fatal.
func (p *Processor) Process(records []Record) Output {
	byKey := map[string]*foldedPayment{}
	order := 0
	skipped := 0

	for _, rec := range records {
		name := p.norm.Canonical(rec.ClientName)
		if name == "" {
			skipped++
			continue
		}
		month := MonthStart(rec.Month)
		if month.IsZero() {
			skipped++
			continue
		}
		status := NormalizeStatus(rec.Status)
		rawPaused := status == StatusPaused || rec.Amount.IsZero()
		// paused is a client-level state; the payment row itself is unpaid
		rowStatus := status
		if rowStatus == StatusPaused {
			rowStatus = StatusUnpaid
		}

		key := name + "|" + month.Format("2006-01")
		fp, ok := byKey[key]
		if !ok {
			byKey[key] = &foldedPayment{
				NormalizedPayment: NormalizedPayment{
					ClientName: name,
					Month:      month,
					Amount:     rec.Amount,
					Status:     rowStatus,
					Notes:      rec.Notes,
				},
				order:      order,
				allPaid:    rowStatus == StatusPaid,
				lastPaused: rawPaused,
			}
			order++
			continue
		}
		// fold: sum amounts, concatenate notes, one row per canonical month
		fp.Amount = fp.Amount.Add(rec.Amount)
		if rec.Notes != "" {
			if fp.Notes != "" {
				fp.Notes = fp.Notes + " | " + rec.Notes
			} else {
				fp.Notes = rec.Notes
			}
		}
		fp.allPaid = fp.allPaid && rowStatus == StatusPaid
		// same-month ties resolve by input order: last row wins the pause flag
		fp.lastPaused = rawPaused
	}

	folded := make([]*foldedPayment, 0, len(byKey))
	for _, fp := range byKey {
		if fp.allPaid {
			fp.Status = StatusPaid
		} else if fp.Status != StatusUnpaid {
			fp.Status = StatusUnpaid
		}
		folded = append(folded, fp)
	}
	sort.Slice(folded, func(i, j int) bool {
		if !folded[i].Month.Equal(folded[j].Month) {
			return folded[i].Month.Before(folded[j].Month)
		}
		return folded[i].order < folded[j].order
	})

	// roster: earliest month is the start date, latest month is the snapshot
	type snapshot struct {
		start  time.Time
		latest time.Time
		amount decimal.Decimal
		paused bool
	}
	snaps := map[string]*snapshot{}
	names := []string{}
	for _, fp := range folded {
		s, ok := snaps[fp.ClientName]
		if !ok {
			snaps[fp.ClientName] = &snapshot{start: fp.Month, latest: fp.Month, amount: fp.Amount, paused: fp.lastPaused}
			names = append(names, fp.ClientName)
			continue
		}
		if fp.Month.Before(s.start) {
			s.start = fp.Month
		}
		if !fp.Month.Before(s.latest) {
			s.latest = fp.Month
			s.amount = fp.Amount
			s.paused = fp.lastPaused
		}
	}
	sort.Strings(names)

	out := Output{Skipped: skipped}
	for _, name := range names {
		s := snaps[name]
		status := ClientStatusActive
		if s.paused {
			status = ClientStatusPaused
		}
		out.Clients = append(out.Clients, CanonicalClient{
			Name:      name,
			Amount:    s.amount,
			Status:    status,
			StartDate: s.start,
		})
	}
	for _, fp := range folded {
		out.Payments = append(out.Payments, fp.NormalizedPayment)
	}
	return out
}
