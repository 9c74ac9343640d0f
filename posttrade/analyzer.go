// Package posttrade computes post-fill diagnostics: the forward mid lookup
// that backs adverse-selection and realized-spread analytics.
package posttrade

import (
	"errors"
	"fmt"

	"microstructure-lab/order"
)

var ErrAlreadyAnnotated = errors.New("fill already annotated")

// Annotate writes, for every fill, the mid observed horizon steps after the
// fill (clamped to the last index). mids must be the complete mid series of
// the run. A horizon <= 0 disables the pass.
func Annotate(fills []order.Fill, mids []float64, horizon int) error {
	if horizon <= 0 || len(mids) == 0 {
		return nil
	}
	last := len(mids) - 1
	for i := range fills {
		if fills[i].MidAfter != 0 {
			return fmt.Errorf("%w: fill %d at step %d", ErrAlreadyAnnotated, i, fills[i].Step)
		}
	}
	for i := range fills {
		idx := fills[i].Step + horizon
		if idx > last {
			idx = last
		}
		if idx < 0 {
			idx = 0
		}
		fills[i].MidAfter = mids[idx]
	}
	return nil
}

// Stats contains statistics computed by the analyzer
type Stats struct {
	TotalFills           int
	AnalyzedFills        int
	AdverseSelectionRate float64 // share of analyzed fills followed by an unfavourable move
	AvgAdverseSelection  float64
	AvgRealizedSpread    float64
	AvgQuotedHalfSpread  float64
}

// Analyze aggregates the derived diagnostics over annotated fills. Fills
// without both mids are counted but not analyzed.
func Analyze(fills []order.Fill) Stats {
	stats := Stats{TotalFills: len(fills)}
	var adverseCount int
	var totalAdverse, totalRealized, totalQuoted float64
	for _, f := range fills {
		if !f.Annotated() {
			continue
		}
		stats.AnalyzedFills++
		cost := f.AdverseSelectionCost()
		if cost > 0 {
			adverseCount++
		}
		totalAdverse += cost
		totalRealized += f.RealizedSpread()
		totalQuoted += f.QuotedSpreadHalf()
	}
	if stats.AnalyzedFills > 0 {
		n := float64(stats.AnalyzedFills)
		stats.AdverseSelectionRate = float64(adverseCount) / n
		stats.AvgAdverseSelection = totalAdverse / n
		stats.AvgRealizedSpread = totalRealized / n
		stats.AvgQuotedHalfSpread = totalQuoted / n
	}
	return stats
}
