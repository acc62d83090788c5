package taxlots

import (
	"encoding/json"
	"sort"
	"time"
)

// DefaultMateriality is the value below which residuals and leftovers are not reported.
var DefaultMateriality = M(0.01, DefaultCurrency)

// Residual is a disposed quantity no eligible lot could fund.
type Residual struct {
	Date    time.Time // date of the disposal
	Basis   Money     // exit unit basis of the disposal
	Size    Quantity  // unmatched units
	TradeID string    // the disposal
}

// Value is the consideration received for the unmatched units.
func (r Residual) Value() Money { return r.Basis.Mul(r.Size) }

// Disposal summarizes how one SELL or BURN was resolved.
type Disposal struct {
	TradeID   string
	Asset     string
	Action    Action
	Date      time.Time
	Size      Quantity
	Matched   Quantity
	Unmatched Quantity
}

// Report is the outcome of a run: obligation totals, fees, residuals, leftover
// inventory and the full audit trail.
type Report struct {
	Currency  string
	Strategy  Strategy
	ShortTerm Money
	LongTerm  Money
	Fees      Money

	NoBasis  map[string][]Residual // per asset, material assets only
	Leftover map[string]Inventory  // per asset, material assets only

	Audit     []AuditEntry // every lot consumption, in processing order
	Disposals []Disposal   // every disposal, in processing order
}

// Total is the sum of short and long term obligations.
func (r *Report) Total() Money { return r.ShortTerm.Add(r.LongTerm) }

// AuditTotal is the sum of every audit entry obligation.
func (r *Report) AuditTotal() Money {
	total := M(0, r.Currency)
	for _, e := range r.Audit {
		total = total.Add(e.Obligation)
	}
	return total
}

// Reconcile checks that the audit trail sums to the reported totals, both rounded
// to the currency minor unit. It returns a *ReconciliationError otherwise.
func (r *Report) Reconcile() error {
	audit := r.AuditTotal().Round()
	totals := r.Total().Round()
	if !audit.Decimal().Equal(totals.Decimal()) {
		return &ReconciliationError{Audit: audit, Totals: totals}
	}
	return nil
}

// NoBasisAssets returns the assets with residuals, in alphabetical order.
func (r *Report) NoBasisAssets() []string { return sortedKeys(r.NoBasis) }

// LeftoverAssets returns the assets with leftover lots, in alphabetical order.
func (r *Report) LeftoverAssets() []string { return sortedKeys(r.Leftover) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AuditBetween returns the audit entries whose disposal happened in [from, to).
func (r *Report) AuditBetween(from, to time.Time) []AuditEntry {
	var entries []AuditEntry
	for _, e := range r.Audit {
		if !e.ExitDate.Before(from) && e.ExitDate.Before(to) {
			entries = append(entries, e)
		}
	}
	return entries
}

func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", r.Currency)
	w.Append("strategy", r.Strategy)
	w.Append("shortTerm", r.ShortTerm)
	w.Append("longTerm", r.LongTerm)
	w.Append("fees", r.Fees)
	w.Optional("noBasis", r.NoBasis)
	w.Optional("leftover", r.Leftover)
	w.Optional("disposals", r.Disposals)
	w.Optional("audit", r.Audit)
	return w.MarshalJSON()
}

func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", l.Date.UTC().Format(time.RFC3339))
	w.Append("basis", l.Basis.Decimal())
	w.Append("size", l.Size)
	w.Append("tradeId", l.TradeID)
	return w.MarshalJSON()
}

func (r Residual) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date.UTC().Format(time.RFC3339))
	w.Append("basis", r.Basis.Decimal())
	w.Append("size", r.Size)
	w.Append("tradeId", r.TradeID)
	return w.MarshalJSON()
}

func (d Disposal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("tradeId", d.TradeID)
	w.Append("asset", d.Asset)
	w.Append("action", d.Action)
	w.Append("date", d.Date.UTC().Format(time.RFC3339))
	w.Append("size", d.Size)
	w.Append("matched", d.Matched)
	w.Append("unmatched", d.Unmatched)
	return w.MarshalJSON()
}

func (e AuditEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", e.Asset)
	w.Append("entryDate", e.EntryDate.UTC().Format(time.RFC3339))
	w.Append("entryBasis", e.EntryBasis.Decimal())
	w.Append("entrySize", e.EntrySize)
	w.Append("entryTradeId", e.EntryTradeID)
	w.Append("exitDate", e.ExitDate.UTC().Format(time.RFC3339))
	w.Append("exitBasis", e.ExitBasis.Decimal())
	w.Append("exitSize", e.ExitSize)
	w.Append("exitTradeId", e.ExitTradeID)
	w.Append("obligation", e.Obligation.Decimal())
	w.Append("term", e.Term)
	return w.MarshalJSON()
}

var _ json.Marshaler = (*Report)(nil)

// Aggregator folds match results, one per disposal, into a Report.
//
// Its zero value is not usable, create one with NewAggregator.
type Aggregator struct {
	currency    string
	materiality Money

	shortTerm Money
	longTerm  Money
	fees      Money
	noBasis   map[string][]Residual
	audit     []AuditEntry
	disposals []Disposal
}

// NewAggregator creates an Aggregator reporting in currency. Residuals and leftovers
// worth less than materiality are left out of the report.
func NewAggregator(currency string, materiality Money) *Aggregator {
	return &Aggregator{
		currency:    currency,
		materiality: materiality,
		shortTerm:   M(0, currency),
		longTerm:    M(0, currency),
		fees:        M(0, currency),
		noBasis:     make(map[string][]Residual),
	}
}

// AddFees accumulates fees, typically the buy phase total.
func (a *Aggregator) AddFees(fees Money) {
	a.fees = a.fees.Add(fees)
}

// Add folds the result of matching the disposal t.
func (a *Aggregator) Add(t Trade, res MatchResult) {
	a.fees = a.fees.Add(t.Fee)
	a.shortTerm = a.shortTerm.Add(res.ShortTerm)
	a.longTerm = a.longTerm.Add(res.LongTerm)
	a.audit = append(a.audit, res.Audit...)

	matched := res.Matched()
	a.disposals = append(a.disposals, Disposal{
		TradeID:   t.ID,
		Asset:     t.Asset,
		Action:    t.Action,
		Date:      t.Date,
		Size:      t.Size,
		Matched:   matched,
		Unmatched: res.Unmatched,
	})

	if !res.Unmatched.IsPositive() {
		return
	}
	r := Residual{Date: t.Date, Basis: t.exitBasis(), Size: res.Unmatched, TradeID: t.ID}
	// nothing matched: the whole disposal has no basis.
	// Otherwise the inventory ran dry, the remainder is kept only when it is material.
	if matched.IsZero() || !r.Value().Abs().LessThan(a.materiality) {
		a.noBasis[t.Asset] = append(a.noBasis[t.Asset], r)
	}
}

// Report returns the report with the given leftover inventories.
// Assets whose residuals or leftover lots are worth less than the materiality floor are omitted.
func (a *Aggregator) Report(s Strategy, leftover Inventories) *Report {
	r := &Report{
		Currency:  a.currency,
		Strategy:  s,
		ShortTerm: a.shortTerm,
		LongTerm:  a.longTerm,
		Fees:      a.fees,
		NoBasis:   make(map[string][]Residual),
		Leftover:  make(map[string]Inventory),
		Audit:     a.audit,
		Disposals: a.disposals,
	}
	for asset, residuals := range a.noBasis {
		total := M(0, a.currency)
		for _, res := range residuals {
			total = total.Add(res.Value())
		}
		if total.LessThan(a.materiality) {
			continue
		}
		r.NoBasis[asset] = residuals
	}
	for asset, inv := range leftover {
		if len(inv) == 0 || inv.Value().LessThan(a.materiality) {
			continue
		}
		r.Leftover[asset] = inv
	}
	return r
}
