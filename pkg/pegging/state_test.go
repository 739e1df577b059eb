package pegging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cribcfr/cribcfr/pkg/canon"
	"github.com/cribcfr/cribcfr/pkg/cards"
)

func ph(ranks ...cards.Rank) canon.PlayHand {
	var p canon.PlayHand
	copy(p.Ranks[:], ranks)
	return p
}

// countLays walks the solved tree and confirms no running total ever
// exceeds 31.
func countLays(t *testing.T, s *PlayState) {
	t.Helper()
	require.LessOrEqual(t, s.Total, 31)
	for _, c := range s.Children {
		countLays(t, c)
	}
}

func TestFifteenTwoNeverExceedsThirtyOne(t *testing.T) {
	dealer := ph(2, 3, 4, 5)
	pone := ph(7, 8, 9, 10)
	root := Solve(dealer, pone)
	countLays(t, root)
	assert.NotNil(t, root) // sanity: tree was built
}

func TestPairScoring(t *testing.T) {
	// Both hands hold two aces and two twos; the pone leads with an ace,
	// and one of the dealer's branches replies with an ace for a pair.
	dealer := ph(1, 1, 2, 2)
	pone := ph(1, 1, 2, 2)
	root := Solve(dealer, pone)

	require.NotEmpty(t, root.Children)
	var poneAce *PlayState
	for _, c := range root.Children {
		if c.Play == cards.Ace {
			poneAce = c
			break
		}
	}
	require.NotNil(t, poneAce, "pone must have ace among its legal opening plays")

	var dealerReply *PlayState
	for _, c := range poneAce.Children {
		if c.Play == cards.Ace {
			dealerReply = c
			break
		}
	}
	require.NotNil(t, dealerReply, "dealer must be able to reply with the matching ace")
	assert.Equal(t, 2, dealerReply.Scores[Dealer.idx()], "matching the just-laid ace scores a pair")
}

func TestRunScoring(t *testing.T) {
	dealer := ph(7, 8, 9, 10)
	pone := ph(3, 4, 5, 6)
	root := Solve(dealer, pone)
	countLays(t, root)

	// pone plays 5, dealer plays 7, pone plays 6: segment {5,7,6} sorts
	// to 5,6,7 — a run of 3, credited to pone (who laid the third card)
	// even though the cards arrived out of rank order and from both
	// hands.
	plays := []struct {
		rank  cards.Rank
		owner Owner
	}{
		{5, Pone},
		{7, Dealer},
		{6, Pone},
	}
	s := root
	for _, p := range plays {
		var next *PlayState
		for _, c := range s.Children {
			if c.Play == p.rank {
				next = c
				break
			}
		}
		require.NotNil(t, next, "expected play %d to be legal", p.rank)
		s = next
	}
	assert.GreaterOrEqual(t, s.Scores[Pone.idx()], 3, "the run of 5-6-7, completed by pone, must score at least 3")
}

func TestFifteenScoring(t *testing.T) {
	pone := ph(10, 2, 3, 4)
	dealer := ph(5, 6, 7, 8)
	root := Solve(dealer, pone)

	var poneTen *PlayState
	for _, c := range root.Children {
		if c.Play == 10 {
			poneTen = c
			break
		}
	}
	require.NotNil(t, poneTen)

	var dealerFive *PlayState
	for _, c := range poneTen.Children {
		if c.Play == 5 {
			dealerFive = c
			break
		}
	}
	require.NotNil(t, dealerFive, "dealer must be able to bring the count to fifteen")
	assert.Equal(t, 15, dealerFive.Total)
	assert.Equal(t, 2, dealerFive.Scores[Dealer.idx()], "reaching exactly fifteen scores 2 points")
}

func TestThirtyOneBonus(t *testing.T) {
	dealer := ph(11, 11, 10, 1)
	pone := ph(10, 10, 11, 11)
	root := Solve(dealer, pone)

	var poneTen *PlayState
	for _, c := range root.Children {
		if c.Play == 10 {
			poneTen = c
			break
		}
	}
	require.NotNil(t, poneTen)
	var dealerJack *PlayState
	for _, c := range poneTen.Children {
		if c.Play == 11 {
			dealerJack = c
			break
		}
	}
	require.NotNil(t, dealerJack, "10 then J brings the count to 20, still legal")
	var poneTenAgain *PlayState
	for _, c := range dealerJack.Children {
		if c.Play == 10 {
			poneTenAgain = c
			break
		}
	}
	require.NotNil(t, poneTenAgain, "a second 10 brings the count to 30, still legal")

	// 10, J, 10, A reaches 31 (a jack counts 10) and scores the
	// thirty-one bonus; no pair, run or fifteen is made along the way.
	var toThirtyOne *PlayState
	for _, c := range poneTenAgain.Children {
		if c.Play == 1 {
			toThirtyOne = c
			break
		}
	}
	require.NotNil(t, toThirtyOne)
	assert.Equal(t, 0, toThirtyOne.Total, "total resets to 0 immediately after reaching 31")
	assert.Equal(t, 1, toThirtyOne.Scores[Dealer.idx()], "reaching exactly 31 scores 1 point to the player who laid the card")
}

func TestDoubleGoResetsCount(t *testing.T) {
	// Both hands hold only tens, so once the count nears 31 a
	// Go from both sides before either can play again.
	dealer := ph(10, 10, 10, 10)
	pone := ph(10, 10, 10, 10)
	root := Solve(dealer, pone)

	// Follow pone-10, dealer-10, pone-10 (total 30); now both are stuck:
	// neither a 10 nor anything else fits in 1 remaining, forcing a Go
	// chain.
	s := root
	for i := 0; i < 3; i++ {
		var next *PlayState
		for _, c := range s.Children {
			if c.Play == 10 {
				next = c
				break
			}
		}
		require.NotNil(t, next, "ply %d of 10s must be legal", i)
		s = next
	}
	require.Equal(t, 30, s.Total)
	require.Len(t, s.Children, 1, "no legal ten remains under the 31 cap: forced Go")
	firstGo := s.Children[0]
	assert.Equal(t, cards.Rank(0), firstGo.Play)
	assert.Equal(t, 30, firstGo.Total, "a single Go does not reset the count")

	require.Len(t, firstGo.Children, 1, "the other side is equally stuck: forced Go again")
	secondGo := firstGo.Children[0]
	assert.Equal(t, 0, secondGo.Total, "a double Go resets the running total")
	assert.Empty(t, secondGo.Segment)
}

func TestLastCardPoint(t *testing.T) {
	dealer := ph(2, 3)
	pone := ph(2, 3)
	root := Solve(dealer, pone)

	// Drain every card; whoever lays the final one should show a +1
	// differential attributable to the last-card point once both hands
	// are empty.
	var leaf *PlayState
	var walk func(s *PlayState)
	walk = func(s *PlayState) {
		if leaf != nil {
			return
		}
		if len(s.Children) == 0 {
			leaf = s
			return
		}
		walk(s.Children[0])
	}
	walk(root)
	require.NotNil(t, leaf)
	total := leaf.Scores[Dealer.idx()] + leaf.Scores[Pone.idx()]
	assert.GreaterOrEqual(t, total, 1, "the last card laid must score at least the last-card point")
}

func TestValueSymmetryUnderHandSwap(t *testing.T) {
	dealer := ph(7, 8, 9, 10)
	pone := ph(3, 4, 5, 6)

	forward := Solve(dealer, pone)

	// Rebuild with the hands swapped between the roles and the root owner
	// swapped too, so the same hand still leads; only the labels change.
	var hands [2][14]int
	hands[Dealer.idx()] = pone.Counts()
	hands[Pone.idx()] = dealer.Counts()
	backward := &PlayState{Owner: Dealer, Hands: hands}
	solve(backward)

	assert.Equal(t, forward.Value, -backward.Value, "swapping hands and roles negates the root value")
}
