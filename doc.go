// Package taxlots computes realized capital-gains obligations from a
// chronological stream of BUY, SELL and BURN trade records using tax-lot
// accounting.
//
// The core is made of three parts:
//   - Lot Inventory Builder: turns BUY records into a per-asset inventory of
//     lots ordered by acquisition date (see BuildInventories).
//   - Lot Matching Engine: resolves one disposal against an inventory, picking
//     lots in highest-in-first-out (HIFO) or lowest-in-first-out (LOWIFO)
//     order, and emits short-term and long-term obligations together with an
//     audit entry per consumed lot slice (see Match).
//   - Gain Aggregator: folds the match results into a Report, keeps track of
//     quantities disposed with no basis and of leftover inventory, and checks
//     that the audit trail reconciles with the totals (see Aggregator and
//     Report.Reconcile).
//
// Engine ties them together with an explicit two-phase contract: every buy is
// acquired first, then disposals are processed in ascending date order.
//
// The package performs no I/O on its own. Trade records are produced by
// normalizers (see DecodeTrades and DecodeTradesCSV) and, when a record lacks
// a fiat value, completed by the price package before they reach the core.
//
// All amounts are exact decimals; rounding only happens when a value is
// rendered or when totals are reconciled at the currency's minor unit.
package taxlots
