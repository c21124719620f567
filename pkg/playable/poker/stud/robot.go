package stud

import (
	"studpoker-server/pkg/deck"
	"studpoker-server/pkg/poker"
)

// robotBase offsets the paired partial-hand scales above every unpaired
// rank bitmap on the robot's own scale
const robotBase = 7810

// Third-street (3 visible cards) thresholds on the robot scale
const (
	threeTripsLow  = 7978 // above this the hand holds trips
	threeTripsTens = 7987 // trip tens; slow play anything higher
	threeBigPair   = 7895 // raise pairs above this when unopposed
	threeJackHigh  = 832  // highest jack-high that is not a straight draw
	threeQueenLow  = 1027 // lowest possible queen high
	threeKingLow   = 2051 // lowest possible king high
	threeAceLow    = 4099 // lowest possible ace high
	threeQTKicker  = 1281 // Q-T-x
	threeKTKicker  = 2305 // K-T-x
	threeATKicker  = 4353 // A-T-x
)

// Fourth-street (4 visible cards) thresholds on the robot scale
const (
	fourTripJacks = 9046 // trip jacks; always bet above this
	fourStrong    = 8882 // high two pair or low trips
	fourNoPair    = 7900 // below this there is no pair worth continuing
	fourLivePair  = 10   // minimum pair rank to call with one live match out
)

// Decide returns the robot's action for the stage: an amount to bet, call,
// or check with, or the fold sentinel. The visible hand is the robot's own
// cards dealt so far; liveness reports how many cards of a rank are face up
// in front of the other active players.
//
// Deterministic given its inputs. Any thinking delay is a presentation
// concern and belongs to the caller.
func Decide(stage int, visible []*deck.Card, highBet int, liveness func(rank int) int) int {
	switch stage {
	case StageThirdStreet:
		return decideThreeCards(visible, highBet, liveness)
	case StageFourthStreet:
		return decideFourCards(visible, highBet, liveness)
	default:
		// from fifth street on the exact evaluator could price the hand,
		// but with the pot already built the robot just calls
		return highBet
	}
}

func decideThreeCards(visible []*deck.Card, highBet int, liveness func(rank int) int) int {
	myBet := highBet

	rank := poker.Bitmap(visible)
	if poker.DistinctRanks(visible) < len(visible) {
		rank = robotBase + poker.PartialThree(visible)
	}

	switch {
	case rank > threeTripsLow:
		// rolled-up trips will probably win. Bet low trips to take it now,
		// slow play big trips to let the pot grow.
		if rank < threeTripsTens {
			myBet += 2
		}
	case rank > robotBase:
		// a pair. Bet a high pair when nobody has raised yet; raising into
		// an earlier raise could loop the betting forever.
		if rank > threeBigPair && highBet == 0 {
			myBet += 2
		}
	case myBet > 0:
		if poker.PartialStraight(visible) != 0 || poker.IsFlush(visible) {
			// straight or flush draw: worth a call
			break
		}

		if rank < threeJackHigh {
			// facing a bet with less than J-T-8 high: give it up
			return Fold
		}

		// at least a jack high. Fold unless the high card is live.
		var high, kicker int
		switch {
		case rank < threeQueenLow:
			high, kicker = deck.Jack, rank
		case rank < threeKingLow:
			high, kicker = deck.Queen, threeQTKicker
		case rank < threeAceLow:
			high, kicker = deck.King, threeKTKicker
		default:
			high, kicker = deck.Ace, threeATKicker
		}

		switch howLive := liveness(high); {
		case howLive == 1:
			// one matching card out there; stay in only with a good kicker
			if rank < kicker {
				return Fold
			}
		case howLive > 1:
			return Fold
		}
	}

	return myBet
}

func decideFourCards(visible []*deck.Card, highBet int, liveness func(rank int) int) int {
	myBet := highBet

	rank := poker.Bitmap(visible)
	if poker.DistinctRanks(visible) < len(visible) {
		rank = robotBase + poker.PartialFour(visible)
	}

	switch {
	case rank > fourTripJacks:
		// big trips never fold, and bet when unopposed
		if highBet == 0 {
			myBet += 2
		}
	case rank > fourStrong:
		// high two pair or low trips: bet when unopposed, call otherwise
		if highBet == 0 {
			myBet += 2
		}
	case myBet > 0:
		if rank < fourNoPair {
			// no pair and facing a bet
			return Fold
		}

		// a single pair. Call if the pair is live enough.
		pairRank := 0
		for i, card := range visible {
			for _, other := range visible[i+1:] {
				if card.Rank == other.Rank {
					pairRank = card.Rank
					break
				}
			}
			if pairRank != 0 {
				break
			}
		}

		switch howLive := liveness(pairRank); {
		case howLive == 1:
			if pairRank < fourLivePair {
				return Fold
			}
		case howLive > 1:
			return Fold
		}
	}

	return myBet
}
