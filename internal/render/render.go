// Package render turns compare receipts into human-facing text: a Markdown
// summary for PR comments and GitHub Actions workflow annotations.
package render

import (
	"fmt"
	"strings"

	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
)

func statusIcon(s metric.Status) string {
	switch s {
	case metric.Pass:
		return "✅"
	case metric.Warn:
		return "⚠️"
	case metric.Fail:
		return "❌"
	}
	return "?"
}

// Markdown renders a compare receipt as a PR-comment table. Rows follow the
// metric total order, so repeated runs produce diffable comments.
func Markdown(c receipt.CompareReceipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## perfgate: `%s` %s %s\n\n", c.Bench, statusIcon(c.Verdict.Status), c.Verdict.Status)
	b.WriteString("| Metric | Baseline | Current | Change | Budget | Status |\n")
	b.WriteString("|---|---|---|---|---|---|\n")

	for _, m := range metric.All() {
		d, ok := c.Deltas[m]
		if !ok {
			continue
		}
		budget := "-"
		if bg, ok := c.Budgets[m]; ok {
			budget = fmt.Sprintf("%.1f%%", bg.Threshold*100)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s %s |\n",
			m,
			formatValue(m, d.Baseline),
			formatValue(m, d.Current),
			formatPct(d.Pct),
			budget,
			statusIcon(d.Status),
			d.Status,
		)
	}

	if len(c.Verdict.Reasons) > 0 {
		b.WriteString("\nReasons: ")
		for i, r := range c.Verdict.Reasons {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "`%s`", r)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// MarkdownNoBaseline renders the comment for a run that had nothing to
// compare against.
func MarkdownNoBaseline(bench string, st receipt.RunReceipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## perfgate: `%s` ℹ️ no baseline\n\n", bench)
	b.WriteString("No baseline was found; this run establishes one.\n\n")
	b.WriteString("| Metric | Median | Min | Max |\n")
	b.WriteString("|---|---|---|---|\n")

	for _, m := range metric.All() {
		if _, ok := receipt.MetricValue(st.Stats, m); !ok {
			continue
		}
		min, max, _ := receipt.MetricBounds(st.Stats, m)
		median, _ := receipt.MetricValue(st.Stats, m)
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			m, formatValue(m, median), formatValue(m, min), formatValue(m, max))
	}
	return b.String()
}

// Annotations renders GitHub Actions problem annotations for every non-pass
// metric, one line each, fail before warn severity decides the command.
func Annotations(c receipt.CompareReceipt) string {
	var b strings.Builder
	for _, m := range metric.All() {
		d, ok := c.Deltas[m]
		if !ok || d.Status == metric.Pass {
			continue
		}
		cmd := "warning"
		if d.Status == metric.Fail {
			cmd = "error"
		}
		budget := c.Budgets[m]
		fmt.Fprintf(&b, "::%s title=perfgate %s::%s regressed %.1f%% (budget %.1f%%): %s -> %s\n",
			cmd, c.Bench, m, d.Regression*100, budget.Threshold*100,
			formatValue(m, d.Baseline), formatValue(m, d.Current))
	}
	return b.String()
}

func formatValue(m metric.Metric, v float64) string {
	if m == metric.ThroughputPerS {
		return fmt.Sprintf("%.2f%s", v, m.Unit())
	}
	return fmt.Sprintf("%.0f %s", v, m.Unit())
}

// formatPct renders a signed percentage; increases carry an explicit plus so
// a regression is visible at a glance.
func formatPct(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct*100)
}
