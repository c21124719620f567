package poker

import (
	"fmt"
	"math/bits"

	"studpoker-server/pkg/deck"
)

// WorstRank is one worse than the weakest possible 5-card hand (7462)
const WorstRank = 7463

// Category is a band of 5-card ranks sharing a poker hand type
type Category int

// categories from best to worst
const (
	StraightFlush Category = iota
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

func (c Category) String() string {
	switch c {
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case OnePair:
		return "One Pair"
	case HighCard:
		return "High Card"
	default:
		panic(fmt.Sprintf("unknown category: %d", c))
	}
}

// CategoryForRank bands a 5-card rank into its hand category
func CategoryForRank(rank int) Category {
	switch {
	case rank < 11:
		return StraightFlush
	case rank < 167:
		return FourOfAKind
	case rank < 323:
		return FullHouse
	case rank < 1600:
		return Flush
	case rank < 1610:
		return Straight
	case rank < 2468:
		return ThreeOfAKind
	case rank < 3326:
		return TwoPair
	case rank < 6186:
		return OnePair
	default:
		return HighCard
	}
}

// rankIndex maps a card rank (2..14) onto 0..12
func rankIndex(card *deck.Card) int {
	return card.Rank - 2
}

// suitBit maps a suit onto its bit in the 4-bit suit mask
func suitBit(suit deck.Suit) int {
	switch suit {
	case deck.Hearts:
		return 1
	case deck.Clubs:
		return 2
	case deck.Diamonds:
		return 4
	case deck.Spades:
		return 8
	default:
		panic(fmt.Sprintf("unknown suit: %s", suit))
	}
}

// Bitmap returns the 13-bit rank presence mask for the hand
func Bitmap(hand []*deck.Card) int {
	mask := 0
	for _, card := range hand {
		mask |= 1 << rankIndex(card)
	}

	return mask
}

// DistinctRanks returns the number of distinct ranks in the hand
func DistinctRanks(hand []*deck.Card) int {
	return bits.OnesCount(uint(Bitmap(hand)))
}

// IsFlush returns true if every card in the hand shares a suit
func IsFlush(hand []*deck.Card) bool {
	mask := 0xf
	for _, card := range hand {
		mask &= suitBit(card.Suit)
	}

	return mask != 0
}

// PrimeProduct returns the product of the per-rank primes for the hand
func PrimeProduct(hand []*deck.Card) int {
	product := 1
	for _, card := range hand {
		product *= primes[rankIndex(card)]
	}

	return product
}

// Evaluate returns the exact rank of a 5-card hand.
// Lower is better: 1 is a royal flush and 7462 is 7-5-4-3-2 unsuited.
func Evaluate(hand []*deck.Card) int {
	if len(hand) != 5 {
		panic(fmt.Sprintf("exactly 5 cards are required, got %d", len(hand)))
	}

	mask := Bitmap(hand)

	if IsFlush(hand) {
		return flushes[mask]
	}

	if rank := distinct[mask]; rank != 0 {
		return rank
	}

	return pairRanks[PrimeProduct(hand)]
}

// BestHand returns the hand with the lowest (best) rank.
// Ties keep the first-found minimum.
func BestHand(hands [][]*deck.Card) []*deck.Card {
	best, bestRank := 0, WorstRank
	for i, hand := range hands {
		if rank := Evaluate(hand); rank < bestRank {
			best = i
			bestRank = rank
		}
	}

	return hands[best]
}

// BestFiveOfSix returns the strongest 5-card subset of a 6-card hand
func BestFiveOfSix(hand []*deck.Card) []*deck.Card {
	hands := make([][]*deck.Card, 0, 6)
	for omit := range hand {
		subset := make([]*deck.Card, 0, 5)
		for i, card := range hand {
			if i != omit {
				subset = append(subset, card)
			}
		}

		hands = append(hands, subset)
	}

	return BestHand(hands)
}

// BestFiveOfSeven returns the strongest 5-card subset of a 7-card hand,
// trying all 21 ways of omitting two cards
func BestFiveOfSeven(hand []*deck.Card) []*deck.Card {
	hands := make([][]*deck.Card, 0, 21)
	for first := 0; first < 7; first++ {
		for second := first + 1; second < 7; second++ {
			subset := make([]*deck.Card, 0, 5)
			for i, card := range hand {
				if i != first && i != second {
					subset = append(subset, card)
				}
			}

			hands = append(hands, subset)
		}
	}

	return BestHand(hands)
}
