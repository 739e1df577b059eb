package snapshot

import (
	"github.com/cribcfr/cribcfr/pkg/strategy"
)

// CoverageResult is the aggregated coverage query exposed to callers:
// (ddeals, dmin, dmax, dcoverage, pdeals, pmin, pmax, pcoverage) over all
// h blocks.
type CoverageResult struct {
	DDeals    int
	DMin      int
	DMax      int
	DCoverage float64

	PDeals    int
	PMin      int
	PMax      int
	PCoverage float64
}

// Coverage aggregates deal-coverage statistics over every hand block in
// t. dealt_dealer and dealt_pone are written only on a block's first
// row, so each block contributes exactly one dealer tally and one pone
// tally, not a per-row sum.
func Coverage(t *strategy.Table) CoverageResult {
	var res CoverageResult
	var dealerBlocks, poneBlocks int
	var totalBlocks int
	first := true

	for _, h := range t.AllH {
		block, ok := t.HRows[h]
		if !ok || block.End == block.Start {
			continue
		}
		totalBlocks++

		d := t.Rows[block.Start].DealtDealer
		p := t.Rows[block.Start].DealtPone

		res.DDeals += d
		res.PDeals += p
		if d > 0 {
			dealerBlocks++
		}
		if p > 0 {
			poneBlocks++
		}

		if first {
			res.DMin, res.DMax = d, d
			res.PMin, res.PMax = p, p
			first = false
			continue
		}
		if d < res.DMin {
			res.DMin = d
		}
		if d > res.DMax {
			res.DMax = d
		}
		if p < res.PMin {
			res.PMin = p
		}
		if p > res.PMax {
			res.PMax = p
		}
	}

	if totalBlocks > 0 {
		res.DCoverage = float64(dealerBlocks) / float64(totalBlocks)
		res.PCoverage = float64(poneBlocks) / float64(totalBlocks)
	}
	return res
}
