package renderer

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/date"
)

// GainsOptions holds configuration for rendering a gains report.
type GainsOptions struct {
	Year      int  // restrict the per asset gains and the audit trail to disposals of that year, 0 for all.
	ShowAudit bool // render the audit trail section.
}

// assetGains is the realized obligation of one asset.
type assetGains struct {
	short, long taxlots.Money
	disposed    taxlots.Quantity
}

// GainsMarkdown renders the report as markdown.
func GainsMarkdown(r *taxlots.Report, opts GainsOptions) string {
	var b strings.Builder

	audit := r.Audit
	if opts.Year != 0 {
		from, to := date.Year(opts.Year).Bounds()
		audit = r.AuditBetween(from, to)
		fmt.Fprintf(&b, "# Capital Gains Report %d\n\n", opts.Year)
	} else {
		fmt.Fprint(&b, "# Capital Gains Report\n\n")
	}
	fmt.Fprintf(&b, "Method: %s, Currency: %s\n\n", strings.ToUpper(r.Strategy.String()), r.Currency)

	fmt.Fprint(&b, "## Obligations\n\n")
	fmt.Fprintln(&b, "| Term | Obligation |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Short Term | %s |\n", r.ShortTerm.SignedString())
	fmt.Fprintf(&b, "| Long Term | %s |\n", r.LongTerm.SignedString())
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", r.Total().SignedString())
	fmt.Fprintf(&b, "\nFees: %s\n\n", r.Fees.String())

	ConditionalBlock(&b, func(w io.Writer) bool { return gainsPerAsset(w, r.Currency, audit, opts.Year) })
	ConditionalBlock(&b, func(w io.Writer) bool { return noBasis(w, r) })
	ConditionalBlock(&b, func(w io.Writer) bool { return leftover(w, r) })
	if opts.ShowAudit {
		ConditionalBlock(&b, func(w io.Writer) bool { return auditTrail(w, audit) })
	}
	return b.String()
}

func gainsPerAsset(w io.Writer, cur string, audit []taxlots.AuditEntry, year int) bool {
	gains := make(map[string]*assetGains)
	for _, e := range audit {
		g, ok := gains[e.Asset]
		if !ok {
			g = &assetGains{short: taxlots.M(0, cur), long: taxlots.M(0, cur)}
			gains[e.Asset] = g
		}
		if e.Term == taxlots.Long {
			g.long = g.long.Add(e.Obligation)
		} else {
			g.short = g.short.Add(e.Obligation)
		}
		g.disposed = g.disposed.Add(e.ExitSize)
	}
	if len(gains) == 0 {
		return false
	}
	assets := make([]string, 0, len(gains))
	for a := range gains {
		assets = append(assets, a)
	}
	sort.Strings(assets)

	fmt.Fprint(w, "## Gains per Asset\n\n")
	fmt.Fprintln(w, "| Asset | Disposed | Short Term | Long Term |")
	fmt.Fprintln(w, "|:---|---:|---:|---:|")
	short, long := taxlots.M(0, cur), taxlots.M(0, cur)
	for _, a := range assets {
		g := gains[a]
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n", a, g.disposed, g.short.SignedString(), g.long.SignedString())
		short, long = short.Add(g.short), long.Add(g.long)
	}
	label := "Total"
	if year != 0 {
		label = fmt.Sprintf("Total %d", year)
	}
	fmt.Fprintf(w, "| **%s** | | **%s** | **%s** |\n\n", label, short.SignedString(), long.SignedString())
	return true
}

func noBasis(w io.Writer, r *taxlots.Report) bool {
	assets := r.NoBasisAssets()
	if len(assets) == 0 {
		return false
	}
	fmt.Fprint(w, "## No Basis\n\n")
	fmt.Fprintln(w, "Disposed quantities no acquisition could fund.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Asset | Date | Trade | Size | Value |")
	fmt.Fprintln(w, "|:---|:---|:---|---:|---:|")
	for _, a := range assets {
		for _, res := range r.NoBasis[a] {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", a, day(res.Date), res.TradeID, res.Size, res.Value().String())
		}
	}
	fmt.Fprintln(w)
	return true
}

func leftover(w io.Writer, r *taxlots.Report) bool {
	assets := r.LeftoverAssets()
	if len(assets) == 0 {
		return false
	}
	fmt.Fprint(w, "## Leftover Inventory\n\n")
	fmt.Fprintln(w, "| Asset | Lots | Size | Cost |")
	fmt.Fprintln(w, "|:---|---:|---:|---:|")
	for _, a := range assets {
		inv := r.Leftover[a]
		fmt.Fprintf(w, "| %s | %d | %s | %s |\n", a, len(inv), inv.Size(), inv.Value().String())
	}
	fmt.Fprintln(w)
	return true
}

func auditTrail(w io.Writer, audit []taxlots.AuditEntry) bool {
	if len(audit) == 0 {
		return false
	}
	fmt.Fprint(w, "## Audit Trail\n\n")
	fmt.Fprintln(w, "| Asset | Acquired | Lot | Disposed | Trade | Size | Entry | Exit | Obligation | Term |")
	fmt.Fprintln(w, "|:---|:---|:---|:---|:---|---:|---:|---:|---:|:---|")
	for _, e := range audit {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			e.Asset, day(e.EntryDate), e.EntryTradeID, day(e.ExitDate), e.ExitTradeID,
			e.ExitSize, e.EntryBasis.String(), e.ExitBasis.String(), e.Obligation.SignedString(), e.Term)
	}
	fmt.Fprintln(w)
	return true
}

func day(t time.Time) string { return date.Of(t).String() }
