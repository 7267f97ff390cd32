// Package consensus decides whether a round of critiques reached agreement.
package consensus

import (
	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// ratioTolerance absorbs decimal rounding in configured thresholds so that
// 0.67 behaves as "two-thirds": 2 approvals out of 3 (0.6667) pass it,
// while a 0.7 threshold still rejects them.
const ratioTolerance = 0.005

// Check reports whether the critiques reached consensus at the given
// threshold. Only approve verdicts count; needs-changes earns no partial
// credit. Zero critiques can never agree, so an empty slice is false.
func Check(critiques []core.Critique, threshold float64) bool {
	if len(critiques) == 0 {
		return false
	}

	approvals := 0
	for _, c := range critiques {
		if c.Verdict == core.VerdictApprove {
			approvals++
		}
	}

	ratio := float64(approvals) / float64(len(critiques))
	return ratio >= threshold-ratioTolerance
}

// ApprovalRatio returns the fraction of critiques that approved.
// Zero critiques yield a ratio of 0.
func ApprovalRatio(critiques []core.Critique) float64 {
	if len(critiques) == 0 {
		return 0
	}
	approvals := 0
	for _, c := range critiques {
		if c.Verdict == core.VerdictApprove {
			approvals++
		}
	}
	return float64(approvals) / float64(len(critiques))
}
