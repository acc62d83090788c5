package taxlots

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger receiving per disposal debug entries.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMateriality sets the value below which residuals and leftovers are not reported.
func WithMateriality(m Money) Option {
	return func(e *Engine) { e.materiality = m }
}

// WithCurrency sets the reporting currency.
func WithCurrency(cur string) Option {
	return func(e *Engine) { e.currency = cur }
}

// Engine runs the two phases of a computation: every buy is acquired first,
// then disposals are matched one by one in ascending date order.
//
// The first call to Dispose closes the buy phase, any later Acquire fails with ErrPhaseClosed.
type Engine struct {
	strategy    Strategy
	currency    string
	materiality Money
	log         logrus.FieldLogger

	inventories Inventories
	agg         *Aggregator
	sealed      bool
	last        time.Time // date of the last disposal
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewEngine creates an Engine matching sells with strategy s.
func NewEngine(s Strategy, opts ...Option) (*Engine, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		strategy:    s,
		currency:    DefaultCurrency,
		materiality: DefaultMateriality,
		log:         discardLogger(),
		inventories: make(Inventories),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.agg = NewAggregator(e.currency, e.materiality)
	return e, nil
}

// Acquire adds the lots created by the buys trades.
func (e *Engine) Acquire(trades ...Trade) error {
	if e.sealed {
		return ErrPhaseClosed
	}
	inventories, fees, err := BuildInventories(trades)
	if err != nil {
		return err
	}
	for asset, inv := range inventories {
		for _, l := range inv {
			e.inventories[asset] = e.inventories[asset].Insert(l)
		}
	}
	e.agg.AddFees(fees)
	return nil
}

// Dispose matches the SELL or BURN t against its asset inventory.
func (e *Engine) Dispose(t Trade) error {
	if !t.Action.IsDisposal() {
		return &InvalidActionError{TradeID: t.ID, Action: t.Action, Want: "SELL or BURN"}
	}
	if e.sealed && t.Date.Before(e.last) {
		return &OrderingError{TradeID: t.ID, Date: t.Date, Previous: e.last}
	}
	res, err := Match(e.inventories[t.Asset], t, e.strategy)
	if err != nil {
		return err
	}
	e.sealed = true
	e.last = t.Date

	if len(res.Remaining) == 0 {
		delete(e.inventories, t.Asset)
	} else {
		e.inventories[t.Asset] = res.Remaining
	}
	e.agg.Add(t, res)

	e.log.WithFields(logrus.Fields{
		"asset":     t.Asset,
		"trade":     t.ID,
		"action":    t.Action,
		"matched":   res.Matched(),
		"unmatched": res.Unmatched,
		"lots":      len(res.Audit),
	}).Debug("disposal matched")
	return nil
}

// Inventory returns a copy of the current lots of asset.
func (e *Engine) Inventory(asset string) Inventory {
	return append(Inventory(nil), e.inventories[asset]...)
}

// Report returns the report of everything processed so far.
func (e *Engine) Report() *Report {
	return e.agg.Report(e.strategy, e.inventories)
}

// Compute runs a whole computation: buys are acquired, then disposals are matched
// in ascending date order, trades on the same instant keeping their input order.
//
// Compute does not reconcile the report, callers run Report.Reconcile as a final check.
func Compute(trades []Trade, s Strategy, opts ...Option) (*Report, error) {
	e, err := NewEngine(s, opts...)
	if err != nil {
		return nil, err
	}
	var buys, disposals []Trade
	for _, t := range trades {
		switch t.Action {
		case Buy:
			buys = append(buys, t)
		case Sell, Burn:
			disposals = append(disposals, t)
		default:
			return nil, fmt.Errorf("%w: trade %q: unknown action", ErrInvalidTrade, t.ID)
		}
	}
	if err := e.Acquire(buys...); err != nil {
		return nil, err
	}
	SortTrades(disposals)
	for _, t := range disposals {
		if err := e.Dispose(t); err != nil {
			return nil, err
		}
	}
	return e.Report(), nil
}
