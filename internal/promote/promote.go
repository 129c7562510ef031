// Package promote turns a run receipt into a baseline. Baselines are
// committed to version control, so promotion scrubs the fields that change
// on every run and would otherwise produce noisy diffs.
package promote

import (
	"time"

	"github.com/EffortlessMetrics/perfgate/internal/receipt"
)

// BaselineID replaces the run UUID in promoted receipts.
const BaselineID = "baseline"

// Normalize strips run-specific identity from a receipt. Host facts stay:
// knowing what hardware a baseline came from matters when reading a
// comparison.
func Normalize(r receipt.RunReceipt) receipt.RunReceipt {
	epoch := time.Unix(0, 0).UTC()
	r.Run.ID = BaselineID
	r.Run.StartedAt = epoch
	r.Run.EndedAt = epoch
	return r
}
