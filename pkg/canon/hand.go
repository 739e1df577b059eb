// Package canon implements the suit-symmetry reduction at the heart of the
// database: canonical six-card hands, canonical two-card discards, and the
// enumeration of both.
//
// A canonical hand is a 4-tuple of rank-tuples, one per suit, arrived at by
// sorting ranks within each suit, then ordering the suits themselves
// (lexicographically by content, then stably by length descending). Suits
// are fixed-size arrays rather than a map-of-suits or a sum type over the
// nine possible shapes: the tagged-variant approach spec'd for this module
// is "a single fixed-size structure carrying actual lengths", which is also
// what makes Hand, Discard, and PlayHand valid Go map keys without any
// custom hashing.
package canon

import (
	"github.com/cribcfr/cribcfr/pkg/cards"
)

// maxSuitLen is the most ranks a single suit's bucket can hold in a
// six-card hand (all six cards share a suit).
const maxSuitLen = 6

// Hand is a canonical six-card hand: four suit buckets, each holding 0..6
// ranks in ascending order, ordered by the canonicalization rule in
// Canonicalize. It is comparable and usable as a map key.
type Hand struct {
	Lens  [4]int
	Slots [4][maxSuitLen]cards.Rank
}

// Bucket returns the i-th suit bucket's ranks as a slice (ascending).
func (h Hand) Bucket(i int) []cards.Rank {
	return h.Slots[i][:h.Lens[i]]
}

// Canonicalize reduces a six-card raw hand to its canonical form and
// returns the suit permutation sp such that sp[i] is the original suit
// occupying canonical position i. Applying sp to the canonical hand's
// buckets reconstructs the original suit bucketing.
func Canonicalize(raw [6]cards.Card) (Hand, [4]cards.Suit) {
	var origBuckets [4][]cards.Rank
	var origSuit [4]cards.Suit
	for i := 0; i < 4; i++ {
		origSuit[i] = cards.Suit(i + 1)
	}

	for _, c := range raw {
		idx := int(c.Suit) - 1
		origBuckets[idx] = append(origBuckets[idx], c.Rank)
	}
	for i := range origBuckets {
		sortRanks(origBuckets[i])
	}

	order := [4]int{0, 1, 2, 3}

	// Lexicographic sort on rank contents.
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && lexLess(origBuckets[order[j]], origBuckets[order[j-1]]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	// Stable sort by bucket length descending; stability preserves the
	// lexicographic tie-break established above.
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && len(origBuckets[order[j]]) > len(origBuckets[order[j-1]]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	var h Hand
	var sp [4]cards.Suit
	for pos, origIdx := range order {
		ranks := origBuckets[origIdx]
		h.Lens[pos] = len(ranks)
		copy(h.Slots[pos][:], ranks)
		sp[pos] = origSuit[origIdx]
	}
	return h, sp
}

// Reconstruct rebuilds one raw six-card hand consistent with h, applying
// the suit permutation sp recorded by Canonicalize.
func Reconstruct(h Hand, sp [4]cards.Suit) [6]cards.Card {
	var raw [6]cards.Card
	i := 0
	for pos := 0; pos < 4; pos++ {
		suit := sp[pos]
		for _, r := range h.Bucket(pos) {
			raw[i] = cards.Card{Rank: r, Suit: suit}
			i++
		}
	}
	return raw
}

func sortRanks(rs []cards.Rank) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j] < rs[j-1]; j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}

// lexLess compares two rank slices lexicographically; a shorter slice that
// is a prefix of a longer one sorts first.
func lexLess(a, b []cards.Rank) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
