package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studpoker-server/pkg/deck"
)

func evaluate(t *testing.T, cards string) int {
	t.Helper()
	return Evaluate(deck.CardsFromString(cards))
}

func TestEvaluate_FixedPoints(t *testing.T) {
	// the closed 1..7462 contract
	assert.Equal(t, 1, evaluate(t, "14c,13c,12c,11c,10c"))
	assert.Equal(t, 1, evaluate(t, "13s,11s,10s,12s,14s"))
	assert.Equal(t, 2, evaluate(t, "13h,12h,11h,10h,9h"))
	assert.Equal(t, 10, evaluate(t, "5d,4d,3d,2d,14d"))
	assert.Equal(t, 7462, evaluate(t, "7h,5c,4d,3s,2h"))
}

func TestEvaluate_CategoryBoundaries(t *testing.T) {
	// best and worst hand of each band
	assert.Equal(t, 11, evaluate(t, "14c,14d,14h,14s,13c"))
	assert.Equal(t, 166, evaluate(t, "2c,2d,2h,2s,3c"))
	assert.Equal(t, 167, evaluate(t, "14c,14d,14h,13s,13c"))
	assert.Equal(t, 322, evaluate(t, "2h,2d,2c,3s,3c"))
	assert.Equal(t, 323, evaluate(t, "14c,13c,12c,11c,9c"))
	assert.Equal(t, 1599, evaluate(t, "7c,5c,4c,3c,2c"))
	assert.Equal(t, 1600, evaluate(t, "14c,13d,12h,11s,10c"))
	assert.Equal(t, 1609, evaluate(t, "14s,5h,4d,3c,2s"))
	assert.Equal(t, 1610, evaluate(t, "14c,14d,14h,13s,12c"))
	assert.Equal(t, 2467, evaluate(t, "2c,2d,2h,4s,3c"))
	assert.Equal(t, 2468, evaluate(t, "14c,14d,13h,13s,12c"))
	assert.Equal(t, 3325, evaluate(t, "3c,3d,2h,2s,4c"))
	assert.Equal(t, 3326, evaluate(t, "14c,14d,13h,12s,11c"))
	assert.Equal(t, 6185, evaluate(t, "2c,2d,5h,4s,3c"))
	assert.Equal(t, 6186, evaluate(t, "14c,13d,12h,11s,9c"))
}

func TestEvaluate_BandOrdering(t *testing.T) {
	worstFullHouse := evaluate(t, "2h,2d,2c,3s,3c")
	worstFlush := evaluate(t, "7c,5c,4c,3c,2c")
	worstStraight := evaluate(t, "14s,5h,4d,3c,2s")
	worstTrips := evaluate(t, "2c,2d,2h,4s,3c")

	assert.Less(t, worstFullHouse, worstFlush)
	assert.Less(t, worstFlush, worstStraight)
	assert.Less(t, worstStraight, worstTrips)
}

func TestEvaluate_OrderInsensitive(t *testing.T) {
	a := evaluate(t, "9d,9h,7s,7c,2d")
	b := evaluate(t, "7c,2d,9h,9d,7s")
	assert.Equal(t, a, b)
}

func TestEvaluate_RequiresFiveCards(t *testing.T) {
	assert.Panics(t, func() {
		Evaluate(deck.CardsFromString("2c,3c,4c"))
	})
}

func TestCategoryForRank(t *testing.T) {
	assert.Equal(t, StraightFlush, CategoryForRank(1))
	assert.Equal(t, StraightFlush, CategoryForRank(10))
	assert.Equal(t, FourOfAKind, CategoryForRank(11))
	assert.Equal(t, FullHouse, CategoryForRank(167))
	assert.Equal(t, Flush, CategoryForRank(323))
	assert.Equal(t, Straight, CategoryForRank(1600))
	assert.Equal(t, ThreeOfAKind, CategoryForRank(1610))
	assert.Equal(t, TwoPair, CategoryForRank(2468))
	assert.Equal(t, OnePair, CategoryForRank(3326))
	assert.Equal(t, HighCard, CategoryForRank(6186))
	assert.Equal(t, HighCard, CategoryForRank(7462))

	assert.Equal(t, "Full House", CategoryForRank(200).String())
}

func TestBestFiveOfSeven(t *testing.T) {
	// best five requires dropping the first two cards
	hand := deck.CardsFromString("2c,3d,14s,14h,14d,13s,13h")
	best := BestFiveOfSeven(hand)
	assert.Equal(t, 5, len(best))
	assert.Equal(t, FullHouse, CategoryForRank(Evaluate(best)))
	assert.Equal(t, evaluate(t, "14s,14h,14d,13s,13h"), Evaluate(best))

	// a buried royal flush
	hand = deck.CardsFromString("13c,2d,12c,11c,7h,10c,14c")
	assert.Equal(t, 1, Evaluate(BestFiveOfSeven(hand)))
}

func TestBestFiveOfSeven_IsOptimal(t *testing.T) {
	hands := []string{
		"2c,2d,2h,3s,3c,4d,5h",
		"9c,8d,7h,6s,5c,4d,3h",
		"14c,13d,9h,5s,3c,2d,11h",
		"10c,10d,10h,10s,3c,4d,5h",
	}

	for _, s := range hands {
		hand := deck.CardsFromString(s)
		bestRank := Evaluate(BestFiveOfSeven(hand))

		// no 5-card subset may beat the returned one
		for first := 0; first < 7; first++ {
			for second := first + 1; second < 7; second++ {
				subset := make([]*deck.Card, 0, 5)
				for i, card := range hand {
					if i != first && i != second {
						subset = append(subset, card)
					}
				}

				assert.LessOrEqual(t, bestRank, Evaluate(subset), s)
			}
		}
	}
}

func TestBestFiveOfSix(t *testing.T) {
	hand := deck.CardsFromString("2c,14s,14h,14d,13s,13h")
	best := BestFiveOfSix(hand)
	assert.Equal(t, evaluate(t, "14s,14h,14d,13s,13h"), Evaluate(best))
}

func TestBestHand_FirstFoundMinimumOnTie(t *testing.T) {
	a := deck.CardsFromString("14c,13d,12h,11s,9c")
	b := deck.CardsFromString("14d,13c,12s,11h,9d")
	best := BestHand([][]*deck.Card{a, b})
	assert.Equal(t, deck.CardsToString(a), deck.CardsToString(best))
}

func TestIsFlush(t *testing.T) {
	assert.True(t, IsFlush(deck.CardsFromString("2c,9c,11c,13c,6c")))
	assert.False(t, IsFlush(deck.CardsFromString("2c,9c,11c,13c,6d")))
	assert.True(t, IsFlush(deck.CardsFromString("2h,9h,11h")))
}

func TestBitmap(t *testing.T) {
	assert.Equal(t, 0x1, Bitmap(deck.CardsFromString("2c")))
	assert.Equal(t, 0x1000, Bitmap(deck.CardsFromString("14s")))
	assert.Equal(t, 0x1f00, Bitmap(deck.CardsFromString("14c,13c,12c,11c,10c")))
	assert.Equal(t, 3, DistinctRanks(deck.CardsFromString("2c,2d,3h,3s,4c")))
}
