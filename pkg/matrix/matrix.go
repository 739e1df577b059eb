// Package matrix assembles the full |allH|x|allH| cross-product of solved,
// flattened pegging trees: one tree per ordered (dealer play hand, pone
// play hand) pair whose combined rank counts are possible from a single
// 52-card deck.
//
// The inner sweep is a pure function of (H1, H2) writing to an
// independent cell, the same fan-out shape as the teacher's
// evaluator.EstimateEquity Monte Carlo workers — generalized from a
// fixed worker-count split of random samples to one errgroup task per
// matrix cell, since here the work unit is the cell itself rather than a
// slice of a sample budget.
package matrix

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cribcfr/cribcfr/pkg/canon"
	"github.com/cribcfr/cribcfr/pkg/flattree"
	"github.com/cribcfr/cribcfr/pkg/pegging"
)

// Matrix is the square play-hand-class cross product. A nil cell means
// the pair is impossible given a single 52-card deck (some rank appears
// more than four times across the union of the two hands).
type Matrix struct {
	Size  int
	cells []*flattree.Tree
}

func (m *Matrix) index(dealerID, poneID int) int {
	return dealerID*m.Size + poneID
}

// Get returns the packed tree at (dealerID, poneID) and whether the pair
// is reachable. IDs are zero-based positions into the allH order used by
// Build.
func (m *Matrix) Get(dealerID, poneID int) (*flattree.Tree, bool) {
	cell := m.cells[m.index(dealerID, poneID)]
	return cell, cell != nil
}

// compatible reports whether the union multiset of a and b never exceeds
// four of any rank — the only way both hands can coexist in one deck.
func compatible(a, b canon.PlayHand) bool {
	ca, cb := a.Counts(), b.Counts()
	for r := 1; r < len(ca); r++ {
		if ca[r]+cb[r] > 4 {
			return false
		}
	}
	return true
}

// Build solves and flattens every reachable (dealer, pone) play-hand
// pair in allPH, indexed by position in allPH (the same order as
// strategy.Table.AllPH / HID). The H1 sweep runs sequentially; for each
// H1 the H2 sweep is dispatched across a bounded worker pool, since every
// cell is an independent pure computation.
func Build(ctx context.Context, allPH []canon.PlayHand) (*Matrix, error) {
	n := len(allPH)
	m := &Matrix{Size: n, cells: make([]*flattree.Tree, n*n)}

	for i := 0; i < n; i++ {
		h1 := allPH[i]
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))

		for j := 0; j < n; j++ {
			h2 := allPH[j]
			dealerID, poneID := i, j

			if !compatible(h1, h2) {
				continue
			}

			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				root := pegging.Solve(h1, h2)
				m.cells[m.index(dealerID, poneID)] = flattree.Flatten(root)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return m, nil
}
