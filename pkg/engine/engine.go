package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"studpoker-server/pkg/deck"
)

// ErrIllegalPlay marks a domain-level illegal action. The timer loop swallows
// plays that fail with this error: no state changes, the round continues as
// if the action had not occurred.
var ErrIllegalPlay = errors.New("illegal play")

// Participant is the minimal view the engine needs of a seated player
type Participant interface {
	Name() string
	IsWithdrawn() bool
}

// Playable is the capability contract a game variant implements on top of
// the engine. Play is invoked with the engine lock held and must not block.
type Playable interface {
	// Play resolves one action by the actor. For card games the payload is
	// the card being played; the target is game specific (for betting games
	// it carries the amount).
	Play(payload interface{}, actor, target int) error

	// ScoreForPlayer returns the score for the given seat
	ScoreForPlayer(seat int) int

	// IsPlayable returns true if the actor may play the card against the target
	IsPlayable(card *deck.Card, actor, target int) bool
}

// Engine is the generic turn-advancing state machine. It owns the deck, the
// player list (seat 0 is reserved and never holds a real participant), the
// pending-action slot, and a background timer loop that auto-plays the
// pending action when the current actor stalls past the timeout.
//
// All mutable session state is guarded by one per-session lock. Game code
// running inside Play already holds it; external callers go through the
// locked methods, or through Lock/Unlock for multi-step reads.
type Engine[T Participant] struct {
	mu   sync.Mutex
	game Playable

	deck    *deck.Deck
	players []T

	timeout time.Duration
	logger  logrus.FieldLogger

	paused    bool
	roundOver bool
	gameOver  bool

	// currentActor is the turn holder and only moves when the game moves
	// it; the pending slot records who submitted the queued action, so a
	// foreign submission can be rejected instead of stealing the turn.
	currentActor int
	pendingActor int
	targetSeat   int
	pending      interface{}

	// actionC signals that a fresh action was queued; wakeC re-arms the
	// timer without playing (pause/unpause); advanced notifies the monitor
	// after every resolved play and is closed when the loop exits.
	actionC  chan struct{}
	wakeC    chan struct{}
	advanced chan struct{}
}

// New returns a new engine over the deck.
// A zero timeout disables the timer loop entirely; SubmitAction then resolves
// actions synchronously, which is what headless and test sessions want.
func New[T Participant](logger logrus.FieldLogger, d *deck.Deck, timeout time.Duration) *Engine[T] {
	var reserved T
	return &Engine[T]{
		deck:     d,
		players:  []T{reserved},
		timeout:  timeout,
		logger:   logger,
		actionC:  make(chan struct{}, 1),
		wakeC:    make(chan struct{}, 1),
		advanced: make(chan struct{}, 256),
	}
}

// SetGame attaches the game-specific strategy. Must be called before Run.
func (e *Engine[T]) SetGame(game Playable) {
	e.game = game
}

// Lock acquires the session lock
func (e *Engine[T]) Lock() {
	e.mu.Lock()
}

// Unlock releases the session lock
func (e *Engine[T]) Unlock() {
	e.mu.Unlock()
}

// Deck returns the session deck. Callers outside a Play step must hold the
// session lock while touching it.
func (e *Engine[T]) Deck() *deck.Deck {
	return e.deck
}

// AddPlayer seats a participant and returns the assigned seat (>= 1)
func (e *Engine[T]) AddPlayer(p T) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.players = append(e.players, p)
	return len(e.players) - 1
}

// Player returns the participant in the seat, or the zero value if the seat
// is out of range or the reserved seat 0
func (e *Engine[T]) Player(seat int) T {
	var zero T
	if seat <= 0 || seat >= len(e.players) {
		return zero
	}

	return e.players[seat]
}

// NumPlayers returns the number of real participants, not counting the
// reserved seat 0
func (e *Engine[T]) NumPlayers() int {
	return len(e.players) - 1
}

// NumWithdrawn returns how many participants have withdrawn
func (e *Engine[T]) NumWithdrawn() int {
	n := 0
	for i := 1; i < len(e.players); i++ {
		if e.players[i].IsWithdrawn() {
			n++
		}
	}

	return n
}

// SetPendingAction atomically overwrites the pending action and the
// actor/target seats. Only the latest queued action is honored: a fresh
// request from a participant supersedes their earlier one.
func (e *Engine[T]) SetPendingAction(payload interface{}, actor, target int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setPendingAction(payload, actor, target)
}

// callers must hold the lock
func (e *Engine[T]) setPendingAction(payload interface{}, actor, target int) {
	e.pending = payload
	e.pendingActor = actor
	e.targetSeat = target
}

// SubmitAction queues an action and wakes the timer loop to resolve it.
// With a zero timeout (no loop), the action is resolved synchronously.
func (e *Engine[T]) SubmitAction(payload interface{}, actor, target int) {
	e.SetPendingAction(payload, actor, target)

	if e.timeout == 0 {
		e.playPending()
		return
	}

	signal(e.actionC)
}

// Pause freezes the timer loop: timeouts no longer auto-play, but the
// pending action and round state are retained
func (e *Engine[T]) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.paused = true
}

// Unpause releases the pause and re-arms the timer, so the next actor gets a
// full timeout window instead of whatever was left before the pause
func (e *Engine[T]) Unpause() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()

	signal(e.wakeC)
}

// IsPaused returns true if the session is paused
func (e *Engine[T]) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.paused
}

// CurrentActor returns the seat whose turn it is, or 0 when no turn is
// pending (the betting stage is complete)
func (e *Engine[T]) CurrentActor() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.currentActor
}

// CurrentActorLocked is CurrentActor for callers already holding the lock
func (e *Engine[T]) CurrentActorLocked() int {
	return e.currentActor
}

// SetCurrentActorLocked updates the current actor. Callers must hold the lock.
func (e *Engine[T]) SetCurrentActorLocked(seat int) {
	e.currentActor = seat
}

// IsRoundOver returns true once the current round has been resolved
func (e *Engine[T]) IsRoundOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.roundOver
}

// SetRoundOverLocked marks the round resolved. Callers must hold the lock.
func (e *Engine[T]) SetRoundOverLocked(over bool) {
	e.roundOver = over
}

// IsGameOver returns true once the session has been shut down
func (e *Engine[T]) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.gameOver
}

// SetGameOver flags the session as finished and wakes the timer loop so it
// can observe the flag and exit. Cancellation is cooperative: one final wake
// is all the loop needs.
func (e *Engine[T]) SetGameOver() {
	e.mu.Lock()
	e.gameOver = true
	e.mu.Unlock()

	signal(e.wakeC)
}

// Restart returns every card to the deck, reshuffles, clears the round
// flags, and re-pauses the session. The game will not respond until unpaused.
func (e *Engine[T]) Restart(firstActor int, withDiscard bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.deck.Reset()
	e.roundOver = false
	e.gameOver = false
	e.paused = true
	e.pending = nil
	e.pendingActor = 0
	e.targetSeat = 0

	if withDiscard {
		e.deck.BurnCard()
	}

	e.currentActor = firstActor
}

// HandByOwner returns the cards currently held by the seat
func (e *Engine[T]) HandByOwner(seat int) deck.Hand {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.deck.HandByOwner(seat)
}

// IsPlayable returns true if the claimed card is actually held by the
// claimant. Game variants may layer stricter rules in their own IsPlayable.
func (e *Engine[T]) IsPlayable(card *deck.Card, actor, target int) bool {
	return e.deck.MatchingCard(card, actor) != nil
}

// Advanced returns the channel the engine notifies after each resolved play.
// The channel is closed when the timer loop exits, which releases the
// monitor listening on it.
func (e *Engine[T]) Advanced() <-chan struct{} {
	return e.advanced
}

// Run starts the background timer loop. With a zero timeout the loop is
// disabled and Run is a no-op.
func (e *Engine[T]) Run() {
	if e.timeout == 0 {
		return
	}

	go e.loop()
}

// The timer loop waits up to the timeout for a wake-up. A timeout means the
// current actor stalled: the pending action is played on their behalf. An
// action signal plays the freshly queued action. A plain wake only re-arms
// the clock. The loop exits once the game-over flag is set.
func (e *Engine[T]) loop() {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			e.playTimeout()
		case <-e.actionC:
			drainTimer(timer)
			e.playPending()
		case <-e.wakeC:
			drainTimer(timer)
		}

		if e.IsGameOver() {
			break
		}

		timer.Reset(e.timeout)
	}

	close(e.advanced)
}

// playPending resolves the freshly submitted action as its submitter. The
// game decides whether the submitter actually holds the turn.
func (e *Engine[T]) playPending() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resolve(e.pending, e.pendingActor, e.targetSeat)
}

// playTimeout plays on behalf of the stalled turn holder. A pending action
// queued by the turn holder is honored; anything else resolves as a bare
// default action for them.
func (e *Engine[T]) playTimeout() {
	e.mu.Lock()
	defer e.mu.Unlock()

	payload, actor, target := e.pending, e.pendingActor, e.targetSeat
	if actor != e.currentActor {
		payload, actor, target = nil, e.currentActor, 0
	}

	e.resolve(payload, actor, target)
}

// resolve runs one play with the lock held. Paused sessions and finished
// rounds are left untouched; otherwise the slot is consumed whether or not
// the play was accepted, so a rejected action never replays on timeout.
func (e *Engine[T]) resolve(payload interface{}, actor, target int) {
	if e.paused || e.roundOver || e.gameOver {
		return
	}

	e.pending = nil
	e.pendingActor = 0
	e.targetSeat = 0

	if err := e.game.Play(payload, actor, target); err != nil {
		if errors.Is(err, ErrIllegalPlay) {
			e.logger.WithError(err).WithField("actor", actor).Debug("ignoring illegal play")
			return
		}

		e.logger.WithError(err).WithField("actor", actor).Error("could not resolve play")
		return
	}

	select {
	case e.advanced <- struct{}{}:
	default:
	}
}

func signal(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}

func drainTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
