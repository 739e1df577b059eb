package canon

import (
	"github.com/cribcfr/cribcfr/pkg/cards"
)

// EnumerateHands iterates all C(52,6) = 20,358,520 six-card combinations of
// deck, canonicalizes each, and tallies occurrences per canonical hand.
//
// It returns the tally and the canonical hands in first-seen order. That
// order matters beyond display: strategy.Build assigns row blocks and hand
// IDs by walking this order, and spec treats hand-enumeration order as
// part of the database's determinism contract, not an incidental detail.
//
// The combination walk is a straightforward six-level index recursion over
// a 52-element deck, the same shape as the teacher's nested-index 5-of-7
// enumeration in card ranking, generalized from a fixed 5-of-7 unroll to a
// recursive k-of-n walk since 6-of-52 doesn't unroll as cleanly by hand.
func EnumerateHands(deck [52]cards.Card) (counts map[Hand]int, order []Hand) {
	counts = make(map[Hand]int)
	order = make([]Hand, 0, 1000)

	var idx [6]int
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == 6 {
			var raw [6]cards.Card
			for i, j := range idx {
				raw[i] = deck[j]
			}
			h, _ := Canonicalize(raw)
			if _, ok := counts[h]; !ok {
				order = append(order, h)
			}
			counts[h]++
			return
		}
		for i := start; i <= 52-(6-depth); i++ {
			idx[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)

	return counts, order
}
