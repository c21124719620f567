package stud

// Betting stages. Each stage exposes one more card, except seventh street
// where the final card is dealt face down ("down and dirty").
const (
	StageThirdStreet = iota
	StageFourthStreet
	StageFifthStreet
	StageSixthStreet
	StageSeventhStreet
	StageShowdown
)

// Fold is the bet amount that withdraws the actor from the hand
const Fold = -1

// foldedScore is the sentinel rank for a player with no cards to score.
// It is worse than any real 5-card rank.
const foldedScore = 8000

// visibleCards returns how many cards are exposed per player during the stage
func visibleCards(stage int) int {
	if stage > StageSeventhStreet {
		return 7
	}

	return stage + 3
}

// upCardRange returns the half-open index range of the face-up cards in a
// 7-card hand for the stage. The first two cards and the seventh are down.
func upCardRange(stage int) (int, int) {
	end := stage + 3
	if end > 6 {
		end = 6
	}

	return 2, end
}
