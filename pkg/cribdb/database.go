// Package cribdb is the top-level façade: it wires canonicalization,
// hand enumeration, strategy-table construction, and pegging-matrix
// assembly into the one immutable database object the (external) CFR
// training loop, match runner, and snapshot writer all consume.
package cribdb

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cribcfr/cribcfr/pkg/canon"
	"github.com/cribcfr/cribcfr/pkg/cards"
	"github.com/cribcfr/cribcfr/pkg/flattree"
	"github.com/cribcfr/cribcfr/pkg/matrix"
	"github.com/cribcfr/cribcfr/pkg/snapshot"
	"github.com/cribcfr/cribcfr/pkg/strategy"
)

// Database is the complete, built strategy and pegging substrate.
// Everything but the strategy table's training columns and Hprobs_* is
// immutable once Build returns.
type Database struct {
	Table  *strategy.Table
	Matrix *matrix.Matrix
}

// Build constructs the full database from a standard 52-card deck: hand
// enumeration and canonicalization, the strategy table and its indices,
// and the complete pegging matrix. The returned error is always a
// matrix-build failure (context cancellation); every other failure mode
// is an invariant violation and panics instead, per this module's error
// handling design — a malformed build is a bug, not a recoverable
// condition.
func Build(ctx context.Context) (*Database, error) {
	deck := cards.Deck()

	logrus.Info("cribdb: enumerating canonical hands")
	counts, order := canon.EnumerateHands(deck)
	for _, h := range order {
		invariant(validShape(h.Lens), "canonical hand has invalid suit-length shape %v", h.Lens)
	}
	logrus.WithField("classes", len(order)).Info("cribdb: hand enumeration complete")

	table := strategy.Build(counts, order)
	invariant(len(table.Rows) > 0, "strategy table build produced zero rows")
	for _, row := range table.Rows {
		total := 0
		for _, c := range row.PlayHand.Counts() {
			total += c
		}
		invariant(total == 4, "play hand %v does not carry exactly four ranks", row.PlayHand)
	}
	for _, h := range table.AllH {
		block := table.HRows[h]
		var sumDealer, sumPone float64
		for _, row := range table.Rows[block.Start:block.End] {
			sumDealer += row.ProfileDealer
			sumPone += row.ProfilePone
		}
		invariant(math.Abs(sumDealer-1) <= 1e-9 && math.Abs(sumPone-1) <= 1e-9,
			"profile sums of hand block %v are dealer=%f pone=%f, not 1", h.Lens, sumDealer, sumPone)
	}

	logrus.WithField("playHandClasses", len(table.AllPH)).Info("cribdb: strategy table built, solving pegging matrix")
	m, err := matrix.Build(ctx, table.AllPH)
	if err != nil {
		return nil, fmt.Errorf("cribdb: building pegging matrix: %w", err)
	}

	return &Database{Table: table, Matrix: m}, nil
}

// PeggingTree looks up the solved, flattened pegging tree for a
// (dealer, pone) pair of play hands, returning false if the pair is
// unknown to the table or impossible given the deck.
func (db *Database) PeggingTree(dealer, pone canon.PlayHand) (*flattree.Tree, bool) {
	dealerID, ok := db.Table.PHID[dealer]
	if !ok {
		return nil, false
	}
	poneID, ok := db.Table.PHID[pone]
	if !ok {
		return nil, false
	}
	return db.Matrix.Get(dealerID-1, poneID-1)
}

// Coverage reports the aggregated deal-coverage statistics over the
// strategy table's hand blocks.
func (db *Database) Coverage() snapshot.CoverageResult {
	return snapshot.Coverage(db.Table)
}

// validShapes lists the nine sub-tuple-length multisets a well-formed
// canonical six-card hand can take (§3 of the design this module
// implements).
var validShapes = [9][4]int{
	{6, 0, 0, 0},
	{5, 1, 0, 0},
	{4, 2, 0, 0},
	{4, 1, 1, 0},
	{3, 3, 0, 0},
	{3, 2, 1, 0},
	{3, 1, 1, 1},
	{2, 2, 2, 0},
	{2, 2, 1, 1},
}

func validShape(lens [4]int) bool {
	for _, s := range validShapes {
		if s == lens {
			return true
		}
	}
	return false
}

// invariant panics if cond is false. A failed invariant means the build
// is not well-formed, which is always a bug, not a recoverable runtime
// condition.
func invariant(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("cribdb: invariant violated: "+format, args...))
	}
}
