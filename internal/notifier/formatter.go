package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"PropertyAssessor/internal/assessor"
	"PropertyAssessor/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatAnalysisReport renders one analysis as a Telegram HTML message.
// l may be nil for analyses of free-form inputs.
func FormatAnalysisReport(l *model.Listing, a *model.Analysis) string {
	var b strings.Builder
	m := a.Metrics

	if l != nil {
		b.WriteString(fmt.Sprintf("🏠 <b>%s</b>\n", html.EscapeString(l.FullAddress())))
		b.WriteString(fmt.Sprintf("%s | %s bd / %s ba | %s sqft\n",
			html.EscapeString(l.HomeType), humanize.Ftoa(l.Bedrooms), humanize.Ftoa(l.Bathrooms), humanize.Commaf(l.LivingArea)))
	} else {
		b.WriteString("🏠 <b>Investment analysis</b>\n")
	}
	b.WriteString(fmt.Sprintf("Price %s | Value %s | Rent %s/mo\n\n",
		dollars(a.Inputs.PurchasePrice), dollars(a.Inputs.MarketValue), dollars(a.Inputs.MonthlyRent)))

	b.WriteString("📈 <b>Returns</b>\n")
	b.WriteString(fmt.Sprintf("  Cash flow: %s/mo\n", cents(m.MonthlyCashFlow)))
	b.WriteString(fmt.Sprintf("  Cash on cash: %.2f%%\n", m.CashOnCashReturnPct))
	b.WriteString(fmt.Sprintf("  Cap rate: %.2f%%\n", m.CapRatePct))
	b.WriteString(fmt.Sprintf("  NOI: %s/mo\n", cents(m.NetOperatingIncome)))
	b.WriteString(fmt.Sprintf("  Cash invested: %s\n", dollars(m.CashInvested)))
	b.WriteString(fmt.Sprintf("  Mortgage: %s/mo (%d yr at %.2f%%, principal %s)\n\n",
		cents(-m.MonthlyMortgagePayment), a.Inputs.LoanTermYears, a.Inputs.InterestRate*100, dollars(m.LoanPrincipal)))

	b.WriteString("📏 <b>Rules of thumb</b>\n")
	b.WriteString(fmt.Sprintf("  %s 50%% rule: margin %s\n", mark(m.FiftyPercentRulePass), cents(m.FiftyPercentRuleMargin)))
	b.WriteString(fmt.Sprintf("  %s 2%% rule: %.2f%%\n\n", mark(m.TwoPercentRulePass), m.TwoPercentRulePct))

	b.WriteString(fmt.Sprintf("🧾 <b>Expenses</b> (%s/mo)\n", cents(a.Expenses.Gross)))
	for _, line := range a.Expenses.Lines() {
		if line.Amount == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %s\n", line.Label, cents(line.Amount)))
	}

	if len(a.Projection) > 0 {
		b.WriteString("\n🔮 <b>Projection</b>\n<pre>")
		b.WriteString(fmt.Sprintf("%-5s %12s %10s\n", "Year", "Value", "Cash/mo"))
		for _, p := range milestones(a.Projection) {
			b.WriteString(fmt.Sprintf("%-5d %12s %10s\n", p.Year, dollars(p.ProjectedPropertyValue), cents(p.ProjectedCashFlow)))
		}
		b.WriteString("</pre>")
	}
	return b.String()
}

// FormatScreenDigest renders a screening run as a ranked list.
func FormatScreenDigest(r *assessor.ScreenReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>Listing screen</b> | %s\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("%d analyzed, %d pass both rules", r.Analyzed, r.Passing))
	if r.Failed > 0 {
		b.WriteString(fmt.Sprintf(", %d skipped", r.Failed))
	}
	b.WriteString("\n\n")

	if len(r.Results) == 0 {
		b.WriteString("No listing passes the 50% and 2% rules.")
		return b.String()
	}
	for i, res := range r.Results {
		b.WriteString(fmt.Sprintf("%d. <b>%s</b> (zpid %d)\n", i+1, html.EscapeString(res.Listing.FullAddress()), res.Listing.ZPID))
		b.WriteString(fmt.Sprintf("   %s | CoC %.2f%% | cap %.2f%% | cash flow %s/mo\n",
			dollars(res.Listing.Price), res.Metrics.CashOnCashReturnPct, res.Metrics.CapRatePct, cents(res.Metrics.MonthlyCashFlow)))
	}
	return b.String()
}

// FormatImportResult reports a finished listing import.
func FormatImportResult(batch *model.ImportBatch) string {
	return fmt.Sprintf("📥 <b>Import complete</b>\n%s listings from %s\nbatch %s, %s",
		humanize.Comma(int64(batch.RowCount)), html.EscapeString(batch.Source), batch.ID, humanize.Time(batch.ImportedAt))
}

// FormatError reports a failed command.
func FormatError(action string, err error) string {
	return fmt.Sprintf("⚠️ %s failed: %s", action, html.EscapeString(err.Error()))
}

func mark(pass bool) string {
	if pass {
		return "✅"
	}
	return "❌"
}

// milestones picks year 1, every fifth year and the final year.
func milestones(points []model.ProjectionPoint) []model.ProjectionPoint {
	var out []model.ProjectionPoint
	for i, p := range points {
		if p.Year == 1 || p.Year%5 == 0 || i == len(points)-1 {
			out = append(out, p)
		}
	}
	return out
}

func dollars(v float64) string {
	return signed(v, humanize.Commaf(math.Round(math.Abs(v))))
}

func cents(v float64) string {
	return signed(v, humanize.FormatFloat("#,###.##", math.Abs(v)))
}

func signed(v float64, digits string) string {
	if v < 0 && digits != "0" && digits != "0.00" {
		return "-$" + digits
	}
	return "$" + digits
}
