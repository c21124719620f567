package stud

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"studpoker-server/internal/rng"
	"studpoker-server/pkg/deck"
	"studpoker-server/pkg/engine"
	"studpoker-server/pkg/playable"
	"studpoker-server/pkg/poker"
)

// partialBase puts any paired partial hand above every unpaired rank bitmap
// (the highest possible no-pair bitmap is A-K-Q-J-9 = 7808)
const partialBase = 7808

// Options configures a stud table
type Options struct {
	Ante          int
	StartingStake int
	Timeout       time.Duration
}

// DefaultOptions returns the standard table configuration
func DefaultOptions() Options {
	return Options{
		Ante:          1,
		StartingStake: 1000,
		Timeout:       10 * time.Minute,
	}
}

// Game is a seven-card stud table. Hand play runs through the embedded turn
// engine; Game supplies the stage, pot, and turn-order rules.
//
// The unexported methods assume the session lock is held: they are reached
// either from Play (the engine holds the lock) or from the exported
// wrappers, which take it.
type Game struct {
	*engine.Engine[*Participant]

	logger  logrus.FieldLogger
	options Options

	round       int
	pot         int
	highBet     int
	firstPlayer int
	firstActed  bool
	lastAction  string

	logChan chan []*playable.LogMessage
}

// seedSource produces the shuffle seed for each new table
var seedSource rng.Generator = rng.Crypto{}

// New returns an unstarted stud table. The table is paused; call Start once
// the participants have joined.
func New(logger logrus.FieldLogger, options Options) *Game {
	d := deck.New()
	d.SetSeed(seedSource.Int63())

	g := &Game{
		logger:  logger,
		options: options,
		logChan: make(chan []*playable.LogMessage, 256),
	}

	g.Engine = engine.New[*Participant](logger, d, options.Timeout)
	g.SetGame(g)
	g.Pause()

	return g
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "seven-card-stud"
}

// LogChan returns the channel game log messages are sent to
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// AddParticipant seats a new player with the table's starting stake and
// returns the assigned seat
func (g *Game) AddParticipant(name string) int {
	return g.AddPlayer(newParticipant(name, g.options.StartingStake))
}

// Start launches the turn engine and deals the first hand
func (g *Game) Start() {
	g.Run()
	g.Restart()
}

// Restart collects all cards, reshuffles, deals every participant a fresh
// 7-card hand, and sweeps the antes. The table stays paused until the
// opening actor has been announced.
func (g *Game) Restart() {
	g.Engine.Restart(0, false)

	g.Lock()
	defer g.Unlock()

	g.round = 0
	g.pot = 0
	g.highBet = 0
	g.firstPlayer = 0
	g.firstActed = false
	g.lastAction = "New deal"

	for seat := 1; seat <= g.NumPlayers(); seat++ {
		g.Deck().DealNewHandToPlayer(seat, 7)

		p := g.Player(seat)
		p.newHand()
		p.stake -= g.options.Ante
		g.pot += g.options.Ante
	}

	g.sendLogMessages(playable.SimpleLogMessageSlice(0, "new hand dealt, %d in antes", g.pot))
}

// Play resolves one bet. The payload is unused for stud; the target carries
// the amount. Called by the turn engine with the session lock held.
func (g *Game) Play(payload interface{}, actor, target int) error {
	return g.bet(actor, target)
}

// ScoreForPlayer returns the exact 5-card rank of the seat's best hand, or
// the worst-possible sentinel for a seat with no cards. Lower is better.
// Callers outside a Play step must hold the session lock.
func (g *Game) ScoreForPlayer(seat int) int {
	return g.scoreFor(seat)
}

// Round returns the current betting stage
func (g *Game) Round() int {
	g.Lock()
	defer g.Unlock()

	return g.round
}

// Pot returns the chips swept into the pot so far
func (g *Game) Pot() int {
	g.Lock()
	defer g.Unlock()

	return g.pot
}

// HighBet returns the outstanding bet to match this stage
func (g *Game) HighBet() int {
	g.Lock()
	defer g.Unlock()

	return g.highBet
}

// LastAction returns a description of the most recent table action
func (g *Game) LastAction() string {
	g.Lock()
	defer g.Unlock()

	return g.lastAction
}

// NextPlayer advances the turn and returns the seat now due to act, or 0
// when the betting stage has closed
func (g *Game) NextPlayer() int {
	g.Lock()
	defer g.Unlock()

	return g.nextPlayer()
}

// ResetCurrentPlayer hands the turn back to the stage's opening actor. Used
// for the final bet after the last card is dealt face down.
func (g *Game) ResetCurrentPlayer() int {
	g.Lock()
	defer g.Unlock()

	g.SetCurrentActorLocked(g.firstPlayer)
	return g.firstPlayer
}

// SeatState is a snapshot of a seat's public standing
type SeatState struct {
	Name   string
	Stake  int
	Bet    int
	Folded bool
}

// SeatState snapshots the seat's public standing under the session lock, so
// callers never race the timer goroutine's bookkeeping
func (g *Game) SeatState(seat int) SeatState {
	g.Lock()
	defer g.Unlock()

	p := g.Player(seat)
	return SeatState{
		Name:   p.Name(),
		Stake:  p.Stake(),
		Bet:    p.Bet(),
		Folded: p.IsWithdrawn(),
	}
}

// VisibleHand returns the cards of the seat's hand the viewer may see. A
// player sees their whole hand; opponents see only the up-cards, with down
// cards as nil entries. At showdown everything is exposed.
func (g *Game) VisibleHand(seat int, viewer int) []*deck.Card {
	g.Lock()
	defer g.Unlock()

	hand := g.Deck().HandByOwner(seat)
	if seat == viewer || g.round >= StageShowdown {
		return hand
	}

	start, end := upCardRange(g.round)
	visible := make([]*deck.Card, 0, len(hand))
	for i, card := range hand {
		if i >= start && i < end {
			visible = append(visible, card)
		} else {
			visible = append(visible, nil)
		}
	}

	return visible
}

// CardsDealt returns the seat's hand truncated to the cards in play for the
// current stage, in deal order
func (g *Game) CardsDealt(seat int) []*deck.Card {
	g.Lock()
	defer g.Unlock()

	hand := g.Deck().HandByOwner(seat)
	n := visibleCards(g.round)
	if n > len(hand) {
		n = len(hand)
	}

	return hand[:n]
}

// RobotBet computes the robot decision for the seat using the cards dealt so
// far and the live-card counts visible at the table
func (g *Game) RobotBet(seat int) int {
	g.Lock()
	defer g.Unlock()

	return Decide(g.round, g.cardsForRound(seat, 0), g.highBet, func(rank int) int {
		return g.liveness(seat, rank)
	})
}

// Winners runs the showdown. Every remaining hand is scored best-5-of-7 and
// the pot is split evenly across the tied best hands, with any remainder
// going to the lowest seat. Returns the winning seats in seat order.
func (g *Game) Winners() []int {
	g.Lock()
	defer g.Unlock()

	var winners []int
	best := foldedScore + 1
	for seat := 1; seat <= g.NumPlayers(); seat++ {
		score := g.scoreFor(seat)
		if score < best {
			best = score
			winners = winners[:0]
			winners = append(winners, seat)
		} else if score == best {
			winners = append(winners, seat)
		}
	}

	share := g.pot / len(winners)
	remainder := g.pot % len(winners)
	for i, seat := range winners {
		p := g.Player(seat)
		p.stake += share
		if i == 0 {
			p.stake += remainder
		}
	}

	g.pot = 0
	g.SetRoundOverLocked(true)

	names := make([]string, len(winners))
	for i, seat := range winners {
		names[i] = g.Player(seat).Name()
	}
	g.logger.WithField("winners", names).Info("hand over")

	return winners
}

// bet applies one action by the actor. An amount at or above the high bet
// is a check, call, or raise. The fold sentinel (or any amount short of the
// high bet, which is what a timed-out player auto-plays) withdraws the actor
// and discards their hand. Closing the stage sweeps the bets into the pot.
func (g *Game) bet(actor, amount int) error {
	p := g.Player(actor)
	if p == nil {
		return fmt.Errorf("%w: no participant in seat %d", engine.ErrIllegalPlay, actor)
	}

	if p.IsWithdrawn() {
		return fmt.Errorf("%w: %s already folded", engine.ErrIllegalPlay, p.Name())
	}

	if g.round >= StageShowdown {
		return fmt.Errorf("%w: betting is closed", engine.ErrIllegalPlay)
	}

	if actor != g.CurrentActorLocked() {
		return fmt.Errorf("%w: %s acted out of turn", engine.ErrIllegalPlay, p.Name())
	}

	if amount >= g.highBet {
		verb := "called"
		switch {
		case amount > g.highBet:
			verb = fmt.Sprintf("raised to %d", amount)
		case amount == 0:
			verb = "checked"
		}

		p.bet = amount
		g.highBet = amount
		g.lastAction = fmt.Sprintf("%s %s", p.Name(), verb)
		if actor == g.firstPlayer {
			g.firstActed = true
		}
	} else {
		p.withdraw()
		for _, card := range g.Deck().HandByOwner(actor) {
			g.Deck().Discard(card)
		}

		g.lastAction = fmt.Sprintf("%s folded", p.Name())

		// the closure anchor must stay on a live seat, or a stage where
		// everyone checks could never close. The new anchor has not acted
		// yet, so its first turn cannot close the stage either.
		if actor == g.firstPlayer {
			g.firstPlayer = g.nextActiveAfter(actor)
			g.firstActed = false
		}
	}

	g.sendLogMessages(playable.SimpleLogMessageSlice(actor, "%s", g.lastAction))

	if next := g.nextPlayer(); next == 0 {
		// the stage closed. sweep the bets and deal the next card
		for seat := 1; seat <= g.NumPlayers(); seat++ {
			pp := g.Player(seat)
			g.pot += pp.bet
			pp.stake -= pp.bet
			pp.bet = 0
		}

		g.round++
		g.highBet = 0
	}

	return nil
}

// nextPlayer advances the turn per the stud turn-order rule and returns the
// seat now due to act, or 0 when the stage has closed. The current actor on
// the engine is updated to match.
func (g *Game) nextPlayer() int {
	if g.NumPlayers()-g.NumWithdrawn() == 1 {
		g.SetCurrentActorLocked(0)
		g.SetRoundOverLocked(true)
		return 0
	}

	cur := g.CurrentActorLocked()
	if cur == 0 {
		// start of a stage: the strongest visible partial hand opens.
		// Ties go to the lowest seat since only a strictly better hand
		// replaces the incumbent.
		g.firstPlayer = 0
		g.firstActed = false
		best := -1
		for seat := 1; seat <= g.NumPlayers(); seat++ {
			if g.Player(seat).IsWithdrawn() {
				continue
			}

			if value := g.partialRank(g.cardsForRound(seat, 2)); value > best {
				best = value
				g.firstPlayer = seat
			}
		}

		g.SetCurrentActorLocked(g.firstPlayer)
		return g.firstPlayer
	}

	cur = g.nextActiveAfter(cur)
	g.SetCurrentActorLocked(cur)

	betsEqual := true
	lastBet := -1
	for seat := 1; seat <= g.NumPlayers(); seat++ {
		p := g.Player(seat)
		if p.IsWithdrawn() {
			continue
		}

		if lastBet == -1 {
			lastBet = p.bet
		} else if lastBet != p.bet {
			betsEqual = false
			break
		}
	}

	// the stage closes once the bets equalize and either control returned
	// to an anchor that already acted or someone actually opened
	if betsEqual && ((cur == g.firstPlayer && g.firstActed) || lastBet != 0) {
		g.SetCurrentActorLocked(0)
		return 0
	}

	return cur
}

// nextActiveAfter returns the first seat past the given one, in circular
// seat order, that has not withdrawn. Returns 0 when nobody is left.
func (g *Game) nextActiveAfter(seat int) int {
	for i := 0; i < g.NumPlayers(); i++ {
		seat++
		if seat > g.NumPlayers() {
			seat = 1
		}

		if !g.Player(seat).IsWithdrawn() {
			return seat
		}
	}

	return 0
}

// partialRank orders visible partial hands for the opener scan. Unpaired
// hands compare by rank bitmap; any paired hand ranks above them through the
// partial tables.
func (g *Game) partialRank(hand []*deck.Card) int {
	value := poker.Bitmap(hand)
	if poker.DistinctRanks(hand) == len(hand) {
		return value
	}

	switch len(hand) {
	case 2:
		return partialBase + hand[0].Rank - 2
	case 3:
		return partialBase + poker.PartialThree(hand)
	case 4:
		return partialBase + poker.PartialFour(hand)
	}

	return value
}

// cardsForRound returns the seat's cards from startCard through the last
// card in play this stage. startCard 2 gives the shared up-cards; 0 gives a
// player's own full view.
func (g *Game) cardsForRound(seat, startCard int) []*deck.Card {
	hand := g.Deck().HandByOwner(seat)
	end := g.round + 3
	if end > len(hand) {
		end = len(hand)
	}

	if startCard >= end {
		return nil
	}

	return hand[startCard:end]
}

// liveness counts how many of the given rank are face up in front of the
// other active players
func (g *Game) liveness(asker, rank int) int {
	count := 0
	start, end := upCardRange(g.round)
	for seat := 1; seat <= g.NumPlayers(); seat++ {
		if seat == asker || g.Player(seat).IsWithdrawn() {
			continue
		}

		hand := g.Deck().HandByOwner(seat)
		for i := start; i < end && i < len(hand); i++ {
			if hand[i].Rank == rank {
				count++
			}
		}
	}

	return count
}

func (g *Game) scoreFor(seat int) int {
	hand := g.Deck().HandByOwner(seat)
	if len(hand) == 7 {
		hand = poker.BestFiveOfSeven(hand)
	}

	if len(hand) != 5 {
		return foldedScore
	}

	return poker.Evaluate(hand)
}

// sendLogMessages sends to the log channel, dropping when nobody listens
func (g *Game) sendLogMessages(messages []*playable.LogMessage) {
	select {
	case g.logChan <- messages:
	default:
	}
}
