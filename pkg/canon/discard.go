package canon

import (
	"github.com/cribcfr/cribcfr/pkg/cards"
)

// Discard is a canonical two-card discard: the same fixed-arity, per-suit
// shape as Hand, but holding exactly two ranks total across its buckets.
type Discard struct {
	Lens  [4]int
	Slots [4][2]cards.Rank
}

// bucketEqual reports whether h's bucket at index i has exactly the ranks
// in want (order-sensitive; both are kept ascending by construction).
func bucketEqual(h Hand, i int, want []cards.Rank) bool {
	if h.Lens[i] != len(want) {
		return false
	}
	for k, r := range want {
		if h.Slots[i][k] != r {
			return false
		}
	}
	return true
}

// firstIndexWithContent returns the smallest suit index in h whose bucket
// has exactly the ranks in content. This is the canonical position for any
// suit sharing that content — suits with identical rank content are
// interchangeable, so every discard drawn from one of them is recorded as
// if it came from the first one, which is what collapses raw discards
// related by h's residual suit symmetry onto the same canonical Discard.
func firstIndexWithContent(h Hand, content []cards.Rank) int {
	for i := 0; i < 4; i++ {
		if bucketEqual(h, i, content) {
			return i
		}
	}
	return -1 // unreachable: content always came from some bucket of h
}

// firstTwoIndicesWithContent returns the two smallest suit indices in h
// whose buckets both have exactly the ranks in content. Used when a
// two-suit discard draws one card from each of two suits that happen to
// carry identical content — the two cards must land in two distinct
// canonical slots, not collapse onto a single one.
func firstTwoIndicesWithContent(h Hand, content []cards.Rank) (int, int) {
	first := -1
	for i := 0; i < 4; i++ {
		if bucketEqual(h, i, content) {
			if first == -1 {
				first = i
				continue
			}
			return first, i
		}
	}
	return first, -1 // unreachable: content shared by at least two suits
}

// ranksEqual reports whether a and b hold the same ranks in the same order.
func ranksEqual(a, b []cards.Rank) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func discardEqual(a, b Discard) bool {
	return a.Lens == b.Lens && a.Slots == b.Slots
}

// Discards returns the distinct canonical discards for a canonical hand h,
// modulo h's residual suit symmetry.
func Discards(h Hand) []Discard {
	var out []Discard

	// Two suits: one card from each of two non-empty buckets.
	for i1 := 0; i1 < 4; i1++ {
		if h.Lens[i1] == 0 {
			continue
		}
		for i2 := i1 + 1; i2 < 4; i2++ {
			if h.Lens[i2] == 0 {
				continue
			}
			s1, s2 := h.Bucket(i1), h.Bucket(i2)
			sameContent := ranksEqual(s1, s2)
			var ci1, ci2 int
			if sameContent {
				// Both suits carry identical content: the two discarded
				// cards must land in the first two distinct suits with
				// that content, not both collapse onto one index.
				ci1, ci2 = firstTwoIndicesWithContent(h, s1)
			} else {
				ci1 = firstIndexWithContent(h, s1)
				ci2 = firstIndexWithContent(h, s2)
			}
			for a, c1 := range s1 {
				for b, c2 := range s2 {
					if sameContent && b < a {
						// Mirror of (s1[b], s2[a]) under swapping the two
						// interchangeable suits; already emitted.
						continue
					}
					var d Discard
					d.Lens[ci1] = 1
					d.Slots[ci1][0] = c1
					d.Lens[ci2] = 1
					d.Slots[ci2][0] = c2
					out = append(out, d)
				}
			}
		}
	}

	// One suit: both cards from the same bucket, length >= 2. Only the
	// earliest suit index holding each distinct bucket content is used,
	// for the same reason as the two-suit case above.
	seen := make([][]cards.Rank, 0, 4)
	for i := 0; i < 4; i++ {
		if h.Lens[i] < 2 {
			continue
		}
		content := h.Bucket(i)
		if firstIndexWithContent(h, content) != i {
			continue // not the earliest suit with this content
		}
		dup := false
		for _, s := range seen {
			if len(s) == len(content) {
				eq := true
				for k := range s {
					if s[k] != content[k] {
						eq = false
						break
					}
				}
				if eq {
					dup = true
					break
				}
			}
		}
		if dup {
			continue
		}
		seen = append(seen, content)

		for a := 0; a < len(content); a++ {
			for b := a + 1; b < len(content); b++ {
				var d Discard
				d.Lens[i] = 2
				d.Slots[i][0] = content[a]
				d.Slots[i][1] = content[b]
				out = append(out, d)
			}
		}
	}

	return dedupDiscards(out)
}

func dedupDiscards(in []Discard) []Discard {
	out := make([]Discard, 0, len(in))
	for _, d := range in {
		dup := false
		for _, e := range out {
			if discardEqual(d, e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	return out
}

// PlayHand is the four-rank multiset remaining after a discard, kept
// sorted ascending so it is directly comparable and usable as a map key.
type PlayHand struct {
	Ranks [4]cards.Rank
}

// Resolve computes the play hand left over from h after discarding d.
func Resolve(h Hand, d Discard) PlayHand {
	var remaining []cards.Rank
	for i := 0; i < 4; i++ {
		bucket := h.Bucket(i)
		discarded := d.Slots[i][:d.Lens[i]]
		for _, r := range bucket {
			taken := false
			for k, dr := range discarded {
				if !taken && dr == r {
					discarded[k] = 0 // consume this occurrence only
					taken = true
				}
			}
			if !taken {
				remaining = append(remaining, r)
			}
		}
	}
	var ph PlayHand
	sortRanks(remaining)
	copy(ph.Ranks[:], remaining)
	return ph
}

// Counts returns the play hand as a rank -> count multiset, as used by the
// pegging solver (ranks 1..13 are valid indices; a count can reach 4 when
// all four suits of a rank survive the discard).
func (p PlayHand) Counts() [14]int {
	var c [14]int
	for _, r := range p.Ranks {
		c[r]++
	}
	return c
}
