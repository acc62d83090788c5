package taxlots

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/etnz/taxlots/date"
)

// Term classifies an obligation by holding period.
type Term int

const (
	Short Term = iota // held 365 days or less
	Long              // held strictly more than 365 days
)

func (t Term) String() string {
	if t == Long {
		return "long"
	}
	return "short"
}

// MarshalText implements encoding.TextMarshaler.
func (t Term) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// termOf classifies a lot held from entry and disposed on exit.
func termOf(entry, exit time.Time) Term {
	if date.HeldLongTerm(entry, exit) {
		return Long
	}
	return Short
}

// AuditEntry records one lot consumption: which slice of which lot funded
// which disposal, and the obligation it realized.
type AuditEntry struct {
	Asset        string
	EntryDate    time.Time
	EntryBasis   Money
	EntrySize    Quantity
	EntryTradeID string
	ExitDate     time.Time
	ExitBasis    Money
	ExitSize     Quantity
	ExitTradeID  string
	Obligation   Money
	Term         Term
}

// auditHeader is the first line of the audit CSV export.
var auditHeader = []string{
	"asset",
	"entry_date", "entry_basis", "entry_size", "entry_trade_id",
	"exit_date", "exit_basis", "exit_size", "exit_trade_id",
	"obligation", "term",
}

// record returns the entry as CSV fields, in auditHeader order.
// Amounts are written with all their digits so that the file sums exactly.
func (e AuditEntry) record() []string {
	return []string{
		e.Asset,
		e.EntryDate.UTC().Format(time.RFC3339),
		e.EntryBasis.Decimal().String(),
		e.EntrySize.String(),
		e.EntryTradeID,
		e.ExitDate.UTC().Format(time.RFC3339),
		e.ExitBasis.Decimal().String(),
		e.ExitSize.String(),
		e.ExitTradeID,
		e.Obligation.Decimal().String(),
		e.Term.String(),
	}
}

// EncodeAuditCSV writes the audit trail as CSV, one line per lot consumption.
func EncodeAuditCSV(w io.Writer, entries []AuditEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(auditHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(e.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// verifyTemporalOrder checks that every matched lot was acquired strictly before its disposal.
func verifyTemporalOrder(entries []AuditEntry) error {
	for _, e := range entries {
		if !e.EntryDate.Before(e.ExitDate) {
			return &TemporalOrderingError{
				Asset:           e.Asset,
				LotTradeID:      e.EntryTradeID,
				LotDate:         e.EntryDate,
				DisposalTradeID: e.ExitTradeID,
				DisposalDate:    e.ExitDate,
			}
		}
	}
	return nil
}
