// Package export flattens receipts into row-oriented records for
// spreadsheets and log pipelines.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
)

// RunRow is one metric summary from one run, flattened.
type RunRow struct {
	RunID  string  `json:"run_id"`
	Bench  string  `json:"bench"`
	Metric string  `json:"metric"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Unit   string  `json:"unit"`
}

// CompareRow is one metric delta from one comparison, flattened.
type CompareRow struct {
	Bench      string  `json:"bench"`
	Metric     string  `json:"metric"`
	Baseline   float64 `json:"baseline"`
	Current    float64 `json:"current"`
	Ratio      float64 `json:"ratio"`
	Pct        float64 `json:"pct"`
	Regression float64 `json:"regression"`
	Status     string  `json:"status"`
}

// RunRows flattens a run receipt, one row per measured metric, in the metric
// total order.
func RunRows(r receipt.RunReceipt) []RunRow {
	var rows []RunRow
	for _, m := range metric.All() {
		median, ok := receipt.MetricValue(r.Stats, m)
		if !ok {
			continue
		}
		min, max, _ := receipt.MetricBounds(r.Stats, m)
		rows = append(rows, RunRow{
			RunID:  r.Run.ID,
			Bench:  r.Bench.Name,
			Metric: string(m),
			Median: median,
			Min:    min,
			Max:    max,
			Unit:   m.Unit(),
		})
	}
	return rows
}

// CompareRows flattens a compare receipt in the metric total order.
func CompareRows(c receipt.CompareReceipt) []CompareRow {
	var rows []CompareRow
	for _, m := range metric.All() {
		d, ok := c.Deltas[m]
		if !ok {
			continue
		}
		rows = append(rows, CompareRow{
			Bench:      c.Bench,
			Metric:     string(m),
			Baseline:   d.Baseline,
			Current:    d.Current,
			Ratio:      d.Ratio,
			Pct:        d.Pct,
			Regression: d.Regression,
			Status:     string(d.Status),
		})
	}
	return rows
}

// RunCSV writes run rows with a header line.
func RunCSV(w io.Writer, rows []RunRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "bench", "metric", "median", "min", "max", "unit"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.RunID, r.Bench, r.Metric,
			formatFloat(r.Median), formatFloat(r.Min), formatFloat(r.Max),
			r.Unit,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CompareCSV writes compare rows with a header line.
func CompareCSV(w io.Writer, rows []CompareRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"bench", "metric", "baseline", "current", "ratio", "pct", "regression", "status"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Bench, r.Metric,
			formatFloat(r.Baseline), formatFloat(r.Current),
			formatFloat(r.Ratio), formatFloat(r.Pct), formatFloat(r.Regression),
			r.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RunJSONL writes one JSON object per line.
func RunJSONL(w io.Writer, rows []RunRow) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// CompareJSONL writes one JSON object per line.
func CompareJSONL(w io.Writer, rows []CompareRow) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// formatFloat keeps integers clean and floats precise enough to round-trip.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
