package poker

import "math/bits"

// primes assigns a distinct small prime to each rank index (deuce through
// ace). The product of a hand's primes uniquely identifies its rank multiset.
var primes = [13]int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

const tableSize = 1 << 13

// flushes ranks a suited hand by its 13-bit rank mask. Straight flushes fall
// out naturally because the table is keyed purely on the rank pattern.
var flushes [tableSize]int

// distinct ranks an unsuited hand of five distinct ranks (straights and high
// cards). A zero entry means the hand contains a pair and must fall through
// to the prime-product lookup.
var distinct [tableSize]int

// pairRanks maps the prime product of any hand containing at least one pair
// to its rank.
var pairRanks map[int]int

// straightMasks lists the rank masks of the ten straights, best first
// (ace high down to the five-high wheel).
var straightMasks []int

func init() {
	buildStraightMasks()
	buildFiveCardTables()
	buildPartialTables()
}

func buildStraightMasks() {
	straightMasks = make([]int, 0, 10)
	for high := 12; high >= 4; high-- {
		straightMasks = append(straightMasks, 0x1f<<(high-4))
	}

	// the wheel: ace plays low under the five
	straightMasks = append(straightMasks, 1<<12|0xf)
}

// distinctMasks returns every 13-bit mask with exactly five bits set that is
// not a straight, strongest first. For five distinct ranks, comparing masks
// as integers is the same as comparing the sorted rank tuples.
func distinctMasks() []int {
	isStraight := make(map[int]bool, len(straightMasks))
	for _, m := range straightMasks {
		isStraight[m] = true
	}

	masks := make([]int, 0, 1277)
	for m := tableSize - 1; m > 0; m-- {
		if bits.OnesCount(uint(m)) == 5 && !isStraight[m] {
			masks = append(masks, m)
		}
	}

	return masks
}

// buildFiveCardTables assigns all 7462 equivalence classes in strength
// order: straight flushes, quads, full houses, flushes, straights, trips,
// two pair, one pair, high card. Rank 1 is a royal flush and rank 7462 is
// 7-5-4-3-2 unsuited.
func buildFiveCardTables() {
	pairRanks = make(map[int]int, 4888)
	unsuited := distinctMasks()

	rank := 0

	// straight flushes
	for _, m := range straightMasks {
		rank++
		flushes[m] = rank
	}

	// four of a kind
	for quad := 12; quad >= 0; quad-- {
		for kicker := 12; kicker >= 0; kicker-- {
			if kicker == quad {
				continue
			}

			rank++
			p := primes[quad]
			pairRanks[p*p*p*p*primes[kicker]] = rank
		}
	}

	// full house
	for trips := 12; trips >= 0; trips-- {
		for pair := 12; pair >= 0; pair-- {
			if pair == trips {
				continue
			}

			rank++
			pt, pp := primes[trips], primes[pair]
			pairRanks[pt*pt*pt*pp*pp] = rank
		}
	}

	// flushes
	for _, m := range unsuited {
		rank++
		flushes[m] = rank
	}

	// straights
	for _, m := range straightMasks {
		rank++
		distinct[m] = rank
	}

	// three of a kind
	for trips := 12; trips >= 0; trips-- {
		for hi := 12; hi >= 1; hi-- {
			if hi == trips {
				continue
			}

			for lo := hi - 1; lo >= 0; lo-- {
				if lo == trips {
					continue
				}

				rank++
				pt := primes[trips]
				pairRanks[pt*pt*pt*primes[hi]*primes[lo]] = rank
			}
		}
	}

	// two pair
	for hi := 12; hi >= 1; hi-- {
		for lo := hi - 1; lo >= 0; lo-- {
			for kicker := 12; kicker >= 0; kicker-- {
				if kicker == hi || kicker == lo {
					continue
				}

				rank++
				ph, pl := primes[hi], primes[lo]
				pairRanks[ph*ph*pl*pl*primes[kicker]] = rank
			}
		}
	}

	// one pair
	for pair := 12; pair >= 0; pair-- {
		for a := 12; a >= 2; a-- {
			if a == pair {
				continue
			}

			for b := a - 1; b >= 1; b-- {
				if b == pair {
					continue
				}

				for c := b - 1; c >= 0; c-- {
					if c == pair {
						continue
					}

					rank++
					pp := primes[pair]
					pairRanks[pp*pp*primes[a]*primes[b]*primes[c]] = rank
				}
			}
		}
	}

	// high card
	for _, m := range unsuited {
		rank++
		distinct[m] = rank
	}
}
