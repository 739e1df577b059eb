// Package pegging implements the play-phase (pegging) game: exhaustive
// recursive construction of the pegging game tree for a pair of four-card
// play hands, with full scoring (pairs, runs, fifteens, thirty-ones, Go)
// and minimax back-propagation.
//
// The tree shape mirrors the teacher's TreeNode in pkg/tree/node.go —
// a node carrying whose turn it is, the state needed to continue, and a
// Children collection — generalized from poker's betting tree (variable
// action set, map[string]*TreeNode keyed by action string) to pegging's
// small fixed-arity branching (at most four distinct ranks remain in a
// four-card hand, so Children is a plain slice, not a map).
package pegging

import (
	"github.com/cribcfr/cribcfr/pkg/canon"
	"github.com/cribcfr/cribcfr/pkg/cards"
)

// Owner identifies whose turn it is to act at a PlayState.
type Owner int8

const (
	Dealer Owner = 1
	Pone   Owner = 2
)

// Other returns the opposing role.
func (o Owner) Other() Owner {
	if o == Dealer {
		return Pone
	}
	return Dealer
}

func (o Owner) idx() int { return int(o) - 1 }

// pSS are the pairs/pairs-royal/double-pairs-royal scores for a run of 2,
// 3, or 4 identical ranks laid consecutively. Index 0 is unused; pSS[k]
// is the award for the k-th consecutive match (k = pair length after the
// match, so pSS[1] = 2 for a simple pair).
var pSS = [4]int{0, 2, 6, 12}

// PlayState is one node of the pegging game tree.
type PlayState struct {
	Owner Owner

	// Hands holds remaining rank->count multisets, indexed by
	// Dealer.idx() and Pone.idx().
	Hands [2][14]int

	// History is the full audit trail of ranks laid, including 0
	// sentinels for each Go. Pair, run, fifteen and thirty-one scoring
	// do not read it; applyGo reads its last entry to tell a second
	// consecutive Go (reset, no point) from a first one.
	History []cards.Rank

	// Segment holds the real (non-Go) ranks laid since the last reset
	// of Total (a reset happens on a double Go or on reaching exactly
	// 31). Pair and run scoring both key off Segment, not History: a
	// single Go does not lay a card, so it does not interrupt a pair
	// or run in progress, only a reset does.
	Segment []cards.Rank

	Total      int
	PairLength int
	RunLength int

	// Scores are cumulative pegging points, indexed the same way as
	// Hands: Scores[Dealer.idx()], Scores[Pone.idx()].
	Scores [2]int

	// Play is the rank laid by the parent to reach this state (0 for a
	// Go transition); meaningless at the root.
	Play cards.Rank

	Children []*PlayState

	// Value and BestPlay are filled in by solve: Value is the minimax
	// dealer-minus-pone score differential for the remainder of the
	// game from this state on; BestPlay is the rank (0 for Go) that
	// achieves it, first-match among ties.
	Value    int
	BestPlay cards.Rank
}

// Solve constructs and solves the complete pegging tree for dealer and
// pone's post-discard play hands. The pone leads.
func Solve(dealer, pone canon.PlayHand) *PlayState {
	var hands [2][14]int
	hands[Dealer.idx()] = dealer.Counts()
	hands[Pone.idx()] = pone.Counts()

	root := &PlayState{
		Owner: Pone,
		Hands: hands,
	}
	solve(root)
	return root
}

func handsEmpty(s *PlayState) bool {
	for _, h := range s.Hands {
		for r := cards.Rank(1); r <= 13; r++ {
			if h[r] > 0 {
				return false
			}
		}
	}
	return true
}

// legalPlays returns the distinct ranks in hand playable without
// exceeding 31, ascending — the enumeration order the spec's tie-break
// rule depends on.
func legalPlays(hand [14]int, total int) []cards.Rank {
	var out []cards.Rank
	for r := cards.Rank(1); r <= 13; r++ {
		if hand[r] > 0 && total+r.Value() <= 31 {
			out = append(out, r)
		}
	}
	return out
}

func solve(s *PlayState) {
	if handsEmpty(s) {
		last := s.Owner.Other()
		s.Scores[last.idx()]++
		s.Value = s.Scores[Dealer.idx()] - s.Scores[Pone.idx()]
		s.BestPlay = 0
		return
	}

	candidates := legalPlays(s.Hands[s.Owner.idx()], s.Total)
	if len(candidates) > 0 {
		for _, r := range candidates {
			child := applyPlay(s, r)
			solve(child)
			s.Children = append(s.Children, child)
		}
		best := s.Children[0]
		for _, c := range s.Children[1:] {
			switch s.Owner {
			case Dealer:
				if c.Value > best.Value {
					best = c
				}
			case Pone:
				if c.Value < best.Value {
					best = c
				}
			}
		}
		s.Value = best.Value
		s.BestPlay = best.Play
		return
	}

	child := applyGo(s)
	solve(child)
	s.Children = []*PlayState{child}
	s.Value = child.Value
	s.BestPlay = 0
}

// applyPlay returns the child state reached by owner laying rank r,
// scoring the lay along the way.
func applyPlay(s *PlayState, r cards.Rank) *PlayState {
	hands := s.Hands
	hands[s.Owner.idx()][r]--

	history := append(append([]cards.Rank(nil), s.History...), r)
	segment := append(append([]cards.Rank(nil), s.Segment...), r)

	points := 0
	pairLen := 0
	if len(s.Segment) > 0 && r == s.Segment[len(s.Segment)-1] {
		pairLen = s.PairLength + 1
		if pairLen <= 3 {
			points += pSS[pairLen]
		}
	}

	runLen := 0
	for k := len(segment); k >= 3; k-- {
		sub := append([]cards.Rank(nil), segment[len(segment)-k:]...)
		insertionSortRanks(sub)
		consecutive := true
		for i := 1; i < len(sub); i++ {
			if sub[i]-sub[i-1] != 1 {
				consecutive = false
				break
			}
		}
		if consecutive {
			runLen = k
			points += k
			break
		}
	}

	total := s.Total + r.Value()
	if total == 15 {
		points += 2
	}
	reset := false
	if total == 31 {
		points++
		reset = true
	}

	scores := s.Scores
	scores[s.Owner.idx()] += points

	child := &PlayState{
		Owner:   s.Owner.Other(),
		Hands:   hands,
		History: history,
		Scores:  scores,
		Play:    r,
	}
	if reset {
		child.Total = 0
		child.Segment = nil
		child.PairLength = 0
		child.RunLength = 0
	} else {
		child.Total = total
		child.Segment = segment
		child.PairLength = pairLen
		child.RunLength = runLen
	}
	return child
}

// applyGo returns the child state reached when s.Owner has no legal
// play. A single Go awards the opponent one point and leaves the count
// untouched; a second consecutive Go (the prior ply was itself a Go)
// resets the count and active pair/run tracking instead, with no point
// scored.
func applyGo(s *PlayState) *PlayState {
	history := append(append([]cards.Rank(nil), s.History...), 0)
	scores := s.Scores

	doubleGo := len(s.History) > 0 && s.History[len(s.History)-1] == 0
	if !doubleGo {
		scores[s.Owner.Other().idx()]++
	}

	child := &PlayState{
		Owner:   s.Owner.Other(),
		Hands:   s.Hands,
		History: history,
		Scores:  scores,
		Play:    0,
	}
	if doubleGo {
		child.Total = 0
		child.Segment = nil
		child.PairLength = 0
		child.RunLength = 0
	} else {
		child.Total = s.Total
		child.Segment = s.Segment
		child.PairLength = s.PairLength
		child.RunLength = s.RunLength
	}
	return child
}

func insertionSortRanks(rs []cards.Rank) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j] < rs[j-1]; j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}
