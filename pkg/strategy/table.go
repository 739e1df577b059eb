// Package strategy builds and indexes the strategy table: one row per
// (canonical hand, viable discard) pair, carrying deal probability, the
// resulting play hand, and the CFR-facing regret/profile columns that the
// (external) training loop mutates.
//
// The table's layout mirrors the teacher's Strategy/StrategyProfile split
// in pkg/solver/strategy.go — per-key state plus a collection that indexes
// it — but flattened into one contiguous slice of rows instead of a
// map[infoset]*Strategy, because spec.md requires hRows ranges to be
// contiguous and ordered, something a map can't give for free.
package strategy

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cribcfr/cribcfr/pkg/canon"
)

// epsilon bounds the tolerance for the per-block profile-sum invariant.
const epsilon = 1e-9

// Row is one (canonical hand, discard) entry in the strategy table.
type Row struct {
	PDeal    float64
	Discard  canon.Discard
	PlayHand canon.PlayHand

	// DealtDealer and DealtPone are written only on the first row of each
	// parent block; all other rows in the block carry zero.
	DealtDealer int
	DealtPone   int

	RegretDealer  float64
	RegretPone    float64
	ProfileDealer float64
	ProfilePone   float64
	PPlayDealer   float64
	PPlayPone     float64
}

// Block is a contiguous row range [Start, End) for one canonical hand.
type Block struct {
	Start, End int
}

// Table is the complete strategy database: rows plus the indices spec.md
// requires (hRows, HRows, allh, allH, hID, HID, Hprobs_*). Everything but
// the training columns (regret/profile/dealt/p_play) and Hprobs_* is
// immutable after Build.
type Table struct {
	Rows []Row

	AllH  []canon.Hand
	AllPH []canon.PlayHand

	HRows  map[canon.Hand]Block
	PHRows map[canon.PlayHand][]int

	HID  map[canon.Hand]int
	PHID map[canon.PlayHand]int

	PHProbsDealer map[canon.PlayHand]float64
	PHProbsPone   map[canon.PlayHand]float64
}

// Build constructs the strategy table from a hand tally and the order in
// which EnumerateHands first saw each key. Row ordering follows that same
// order, then each hand's discard-enumeration order — both are part of
// this module's determinism contract, since callers index hRows ranges
// directly.
func Build(counts map[canon.Hand]int, order []canon.Hand) *Table {
	total := 0
	for _, c := range counts {
		total += c
	}

	t := &Table{
		HRows:         make(map[canon.Hand]Block, len(order)),
		PHRows:        make(map[canon.PlayHand][]int),
		HID:           make(map[canon.Hand]int, len(order)),
		PHID:          make(map[canon.PlayHand]int),
		PHProbsDealer: make(map[canon.PlayHand]float64),
		PHProbsPone:   make(map[canon.PlayHand]float64),
	}

	for hi, h := range order {
		t.AllH = append(t.AllH, h)
		t.HID[h] = hi + 1

		discards := canon.Discards(h)
		k := len(discards)
		if k == 0 {
			logrus.Warnf("strategy: canonical hand %+v has no viable discards", h)
			continue
		}

		pDeal := float64(counts[h]) / float64(total)
		start := len(t.Rows)
		uniform := 1.0 / float64(k)

		for _, d := range discards {
			ph := canon.Resolve(h, d)
			row := Row{
				PDeal:         pDeal,
				Discard:       d,
				PlayHand:      ph,
				ProfileDealer: uniform,
				ProfilePone:   uniform,
				PPlayDealer:   pDeal * uniform,
				PPlayPone:     pDeal * uniform,
			}
			t.Rows = append(t.Rows, row)
			rowIdx := len(t.Rows) - 1

			if _, ok := t.PHID[ph]; !ok {
				t.PHID[ph] = len(t.AllPH) + 1
				t.AllPH = append(t.AllPH, ph)
			}
			t.PHRows[ph] = append(t.PHRows[ph], rowIdx)
		}

		t.HRows[h] = Block{Start: start, End: len(t.Rows)}
		checkBlockProfileSums(t.Rows[start:len(t.Rows)])
	}

	for ph, rows := range t.PHRows {
		var sumDealer, sumPone float64
		for _, ri := range rows {
			sumDealer += t.Rows[ri].PPlayDealer
			sumPone += t.Rows[ri].PPlayPone
		}
		t.PHProbsDealer[ph] = sumDealer
		t.PHProbsPone[ph] = sumPone
	}

	return t
}

func checkBlockProfileSums(rows []Row) {
	var sumDealer, sumPone float64
	for _, r := range rows {
		sumDealer += r.ProfileDealer
		sumPone += r.ProfilePone
	}
	if math.Abs(sumDealer-1) > epsilon || math.Abs(sumPone-1) > epsilon {
		logrus.Warnf("strategy: block profile sums off invariant: dealer=%f pone=%f", sumDealer, sumPone)
	}
}
