package poker

import "studpoker-server/pkg/deck"

// Partial-hand tables rank 3-card and 4-card hands that contain at least one
// pair. Unlike the 5-card evaluator, higher is better here, and the two
// scales are not comparable with each other or with the 5-card contract.
// They only order participants by apparent strength before all cards are out.
var threeCard map[int]int
var fourCard map[int]int

func buildPartialTables() {
	// Three cards: pair of i with kicker j ranks i*13+j; trips of j rank
	// 169+j. Worst hand is a pair of deuces under a trey, best is trip aces.
	threeCard = make(map[int]int, 169)
	for i := 0; i < 13; i++ {
		base := primes[i] * primes[i]
		for j := 0; j < 13; j++ {
			rank := i*13 + j
			if j == i {
				rank = 13*13 + j
			}

			threeCard[base*primes[j]] = rank
		}
	}

	// Four cards: bands stack pair < two pair < trips < quads. Straights and
	// flushes do not apply at this size.
	fourCard = make(map[int]int, 858)
	for i := 0; i < 13; i++ {
		base := primes[i] * primes[i]
		for j := 0; j < 13; j++ {
			for k := 0; k <= j; k++ {
				rank := 0
				switch {
				case j == i || k == i:
					if k == j {
						// four of a kind
						rank = 1288 + i
					} else {
						// three of a kind
						rank = 14*80 + i*12 + j + k
					}
				case j != k:
					// one pair with two kickers
					rank = i*80 + (j*(j-1))/2 + k
				case i > k:
					// two pair
					rank = 13*80 + (i*(i-1))/2 + k
				}

				if rank > 0 {
					fourCard[base*primes[j]*primes[k]] = rank
				}
			}
		}
	}
}

// PartialThree returns the relative strength of a 3-card hand that contains
// a pair or trips. Higher is better.
func PartialThree(hand []*deck.Card) int {
	return threeCard[PrimeProduct(hand)]
}

// PartialFour returns the relative strength of a 4-card hand that contains
// at least a pair. Higher is better.
func PartialFour(hand []*deck.Card) int {
	return fourCard[PrimeProduct(hand)]
}

// PartialStraight reports whether a 3- or 4-card hand is a run of
// consecutive ranks. It returns a value that grows with the high card of the
// run, or zero when the hand is not a run.
func PartialStraight(hand []*deck.Card) int {
	seq := Bitmap(hand)

	count := 1
	for seq&0x1 == 0 {
		seq >>= 1
		count++
	}

	if len(hand) == 3 && seq == 0x7 {
		return count + 3
	}

	if len(hand) == 4 && seq == 0xf {
		return count + 4
	}

	return 0
}
