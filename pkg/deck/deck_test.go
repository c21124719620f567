package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	d := New()

	assert.Equal(t, 52, d.Size())
	assert.Equal(t, 52, d.Undealt())

	seen := make(map[string]int)
	for _, card := range d.HandByOwner(0) {
		seen[CardToString(card)]++
	}

	assert.Equal(t, 52, len(seen))
	assert.Equal(t, 1, seen["14s"])
	assert.Equal(t, 1, seen["2c"])

	face, ok := d.Face(CardFromString("14s"))
	assert.True(t, ok)
	assert.Equal(t, "14S.png", face.Image)
	assert.Equal(t, "Ace of Spades", face.Description)

	_, ok = d.Face(&Card{Rank: 1, Suit: Clubs})
	assert.False(t, ok)

	assert.Equal(t, "gray_back.png", CardBack.Image)
	assert.Equal(t, "Back of a card", CardBack.Description)
}

func TestDeck_ShuffleIsAPermutation(t *testing.T) {
	d := New()
	d.SetSeed(1)

	before := d.HandByOwner(0).String()
	d.Shuffle()

	assert.Equal(t, 52, d.Size())
	assert.Equal(t, 52, d.Undealt())

	seen := make(map[string]int)
	for _, card := range d.HandByOwner(0) {
		seen[CardToString(card)]++
	}
	assert.Equal(t, 52, len(seen))

	after := d.HandByOwner(0).String()
	assert.NotEqual(t, before, after)

	d.Shuffle()
	assert.NotEqual(t, after, d.HandByOwner(0).String())
}

func TestDeck_ShuffleGroupsByOwner(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	for i := 0; i < 5; i++ {
		d.DealCardTo(2)
	}

	d.Shuffle()

	// dealt cards sort after the undealt deck
	hand := d.HandByOwner(2)
	assert.Equal(t, 5, len(hand))
	for _, card := range hand {
		assert.Equal(t, 2, card.Owner())
	}
	assert.Equal(t, 47, d.Undealt())
}

func TestDeck_DealCardTo(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	for i := 0; i < 52; i++ {
		card := d.DealCardTo(1)
		assert.NotNil(t, card)
		assert.Equal(t, 1, card.Owner())
	}

	assert.Nil(t, d.DealCardTo(1))
	assert.Equal(t, 52, len(d.HandByOwner(1)))
}

func TestDeck_DealCardToBySuit(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	for i := 0; i < 13; i++ {
		card := d.DealCardToBySuit(3, Hearts)
		assert.NotNil(t, card)
		assert.Equal(t, Hearts, card.Suit)
	}

	assert.Nil(t, d.DealCardToBySuit(3, Hearts))
	assert.NotNil(t, d.DealCardToBySuit(3, Spades))
}

func TestDeck_DealNewHandToPlayer(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	old := d.DealNewHandToPlayer(1, 7)
	assert.Equal(t, 7, len(old))

	oldCards := make(map[string]bool)
	for _, card := range old {
		oldCards[CardToString(card)] = true
	}

	hand := d.DealNewHandToPlayer(1, 7)
	assert.Equal(t, 7, len(hand))
	for _, card := range hand {
		assert.False(t, oldCards[CardToString(card)], "new hand must not contain previous cards")
	}

	// previous cards went back to the deck
	assert.Equal(t, 52-7, d.Undealt())

	assert.PanicsWithValue(t, "cannot deal -1 cards", func() {
		d.DealNewHandToPlayer(1, -1)
	})
}

func TestDeck_ResetConservesCards(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	for seat := 1; seat <= 4; seat++ {
		d.DealNewHandToPlayer(seat, 7)
	}
	for _, card := range d.HandByOwner(3) {
		d.Discard(card)
	}

	total := d.Undealt()
	for _, owner := range []int{1, 2, 3, 4, Discarded} {
		total += len(d.HandByOwner(owner))
	}
	assert.Equal(t, 52, total)

	d.Reset()
	assert.Equal(t, 52, d.Undealt())
	assert.Equal(t, 0, len(d.HandByOwner(Discarded)))

	seen := make(map[string]int)
	for _, card := range d.HandByOwner(0) {
		seen[CardToString(card)]++
	}
	assert.Equal(t, 52, len(seen))
}

func TestDeck_Discards(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	first := d.BurnCard()
	assert.NotNil(t, first)
	assert.Equal(t, Discarded, first.Owner())

	second := d.DealCardTo(1)
	d.Discard(second)

	third := d.BurnCard()

	discards := d.Discards()
	assert.Equal(t, 3, len(discards))
	assert.True(t, discards[0].Equal(third))
	assert.True(t, discards[1].Equal(second))
	assert.True(t, discards[2].Equal(first))
}

func TestDeck_MatchingCard(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	card := d.DealCardTo(2)

	match := d.MatchingCard(&Card{Rank: card.Rank, Suit: card.Suit}, 2)
	assert.NotNil(t, match)
	assert.True(t, match.Equal(card))

	assert.Nil(t, d.MatchingCard(card, 3))
	assert.Nil(t, d.MatchingCard(nil, 2))
}

func TestDeck_ReturnHandFromOwner(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	d.DealNewHandToPlayer(1, 7)
	d.ReturnHandFromOwner(1, 0)

	assert.Equal(t, 0, len(d.HandByOwner(1)))
	assert.Equal(t, 52, d.Undealt())
}
