package taxlots

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTrade is wrapped by every validation failure of a trade record.
var ErrInvalidTrade = errors.New("invalid trade")

// ErrPhaseClosed is returned when a buy is acquired after the first disposal was processed.
var ErrPhaseClosed = errors.New("buy phase is closed: all buys must be acquired before the first disposal")

// InvalidActionError reports a record routed to the wrong phase, e.g. a SELL reaching buy processing.
type InvalidActionError struct {
	TradeID string
	Action  Action
	Want    string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("trade %q: invalid action %s, want %s", e.TradeID, e.Action, e.Want)
}

// UnsupportedStrategyError reports an unknown lot-selection strategy.
type UnsupportedStrategyError struct {
	Name string
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("unsupported lot selection strategy %q, want hifo or lowifo", e.Name)
}

// TemporalOrderingError reports a lot matched to a disposal that does not happen strictly after it.
// It means the eligibility window is broken and is never expected in correct operation.
type TemporalOrderingError struct {
	Asset           string
	LotTradeID      string
	LotDate         time.Time
	DisposalTradeID string
	DisposalDate    time.Time
}

func (e *TemporalOrderingError) Error() string {
	return fmt.Sprintf("%s: lot %q acquired on %s cannot fund disposal %q on %s",
		e.Asset, e.LotTradeID, e.LotDate.Format(time.RFC3339), e.DisposalTradeID, e.DisposalDate.Format(time.RFC3339))
}

// ReconciliationError reports an audit trail that does not sum up to the reported totals.
type ReconciliationError struct {
	Audit  Money // sum of the audit trail obligations, rounded
	Totals Money // short term + long term obligations, rounded
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("audit trail sums to %s but totals are %s", e.Audit, e.Totals)
}

// OrderingError reports a disposal fed to the engine before a disposal it has already processed.
type OrderingError struct {
	TradeID  string
	Date     time.Time
	Previous time.Time
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("disposal %q on %s comes after a disposal on %s: disposals must be in ascending date order",
		e.TradeID, e.Date.Format(time.RFC3339), e.Previous.Format(time.RFC3339))
}
