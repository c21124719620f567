package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"studpoker-server/pkg/deck"
)

type fakeParticipant struct {
	name      string
	withdrawn bool
}

func (p *fakeParticipant) Name() string      { return p.name }
func (p *fakeParticipant) IsWithdrawn() bool { return p.withdrawn }

type playRecord struct {
	payload interface{}
	actor   int
	target  int
}

type fakeGame struct {
	mu    sync.Mutex
	plays []playRecord
	err   error
}

func (g *fakeGame) Play(payload interface{}, actor, target int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return g.err
	}

	g.plays = append(g.plays, playRecord{payload, actor, target})
	return nil
}

func (g *fakeGame) ScoreForPlayer(seat int) int { return 0 }

func (g *fakeGame) IsPlayable(card *deck.Card, actor, target int) bool { return true }

func (g *fakeGame) recorded() []playRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	plays := make([]playRecord, len(g.plays))
	copy(plays, g.plays)
	return plays
}

func newTestEngine(t *testing.T, timeout time.Duration) (*Engine[*fakeParticipant], *fakeGame) {
	t.Helper()

	d := deck.New()
	d.SetSeed(1)
	d.Shuffle()

	e := New[*fakeParticipant](logrus.StandardLogger(), d, timeout)
	game := &fakeGame{}
	e.SetGame(game)
	return e, game
}

func waitAdvanced(t *testing.T, e *Engine[*fakeParticipant]) {
	t.Helper()

	select {
	case <-e.Advanced():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the engine to advance")
	}
}

func TestEngine_Seating(t *testing.T) {
	e, _ := newTestEngine(t, 0)

	assert.Equal(t, 0, e.NumPlayers())
	assert.Equal(t, 1, e.AddPlayer(&fakeParticipant{name: "alpha"}))
	assert.Equal(t, 2, e.AddPlayer(&fakeParticipant{name: "bravo", withdrawn: true}))

	assert.Equal(t, 2, e.NumPlayers())
	assert.Equal(t, 1, e.NumWithdrawn())

	assert.Equal(t, "alpha", e.Player(1).Name())
	assert.Nil(t, e.Player(0))
	assert.Nil(t, e.Player(3))
}

func TestEngine_ZeroTimeoutPlaysSynchronously(t *testing.T) {
	e, game := newTestEngine(t, 0)
	e.Run() // no-op

	e.SubmitAction("payload", 1, 4)

	plays := game.recorded()
	assert.Equal(t, 1, len(plays))
	assert.Equal(t, playRecord{"payload", 1, 4}, plays[0])

	// the monitor notification is buffered
	waitAdvanced(t, e)
}

func setCurrentActor(e *Engine[*fakeParticipant], seat int) {
	e.Lock()
	e.SetCurrentActorLocked(seat)
	e.Unlock()
}

func TestEngine_SubmitActionWakesLoop(t *testing.T) {
	e, game := newTestEngine(t, time.Hour)
	e.Run()
	defer e.SetGameOver()

	setCurrentActor(e, 2)
	e.SubmitAction("bet", 2, 10)
	waitAdvanced(t, e)

	plays := game.recorded()
	assert.Equal(t, 1, len(plays))
	assert.Equal(t, playRecord{"bet", 2, 10}, plays[0])

	// resolving a play never moves the turn; only the game does that
	assert.Equal(t, 2, e.CurrentActor())
}

func TestEngine_SubmitActionKeepsTurnHolder(t *testing.T) {
	e, game := newTestEngine(t, time.Hour)
	e.Run()
	defer e.SetGameOver()

	setCurrentActor(e, 2)
	e.SubmitAction("grab", 3, 10)
	waitAdvanced(t, e)

	// the action is attributed to its submitter, for the game to judge,
	// and the turn holder is untouched
	plays := game.recorded()
	assert.Equal(t, 1, len(plays))
	assert.Equal(t, playRecord{"grab", 3, 10}, plays[0])
	assert.Equal(t, 2, e.CurrentActor())
}

func TestEngine_AutoPlayOnTimeout(t *testing.T) {
	e, game := newTestEngine(t, 20*time.Millisecond)
	defer e.SetGameOver()

	// queue without an explicit signal: only the timeout can play this
	setCurrentActor(e, 3)
	e.SetPendingAction("stalled", 3, 0)
	e.Run()

	waitAdvanced(t, e)

	plays := game.recorded()
	assert.Equal(t, 1, len(plays))
	assert.Equal(t, playRecord{"stalled", 3, 0}, plays[0])
}

func TestEngine_TimeoutIgnoresForeignPending(t *testing.T) {
	e, game := newTestEngine(t, 20*time.Millisecond)
	defer e.SetGameOver()

	// a pending action from the wrong seat never plays for the turn holder
	setCurrentActor(e, 2)
	e.SetPendingAction("grab", 3, 10)
	e.Run()

	waitAdvanced(t, e)

	plays := game.recorded()
	assert.Equal(t, 1, len(plays))
	assert.Equal(t, playRecord{nil, 2, 0}, plays[0])
}

func TestEngine_LastWriterWins(t *testing.T) {
	e, game := newTestEngine(t, 50*time.Millisecond)
	defer e.SetGameOver()

	setCurrentActor(e, 1)
	e.SetPendingAction("first", 1, 0)
	e.SetPendingAction("second", 1, 0)
	e.Run()

	waitAdvanced(t, e)

	plays := game.recorded()
	assert.Equal(t, 1, len(plays))
	assert.Equal(t, "second", plays[0].payload)
}

func TestEngine_PauseSwallowsTimeouts(t *testing.T) {
	e, game := newTestEngine(t, 20*time.Millisecond)
	defer e.SetGameOver()

	e.Pause()
	assert.True(t, e.IsPaused())

	setCurrentActor(e, 1)
	e.SetPendingAction("held", 1, 0)
	e.Run()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, len(game.recorded()))

	// unpause re-arms a full window and play resumes
	e.Unpause()
	assert.False(t, e.IsPaused())

	waitAdvanced(t, e)
	assert.Equal(t, 1, len(game.recorded()))
}

func TestEngine_IllegalPlayIsSwallowed(t *testing.T) {
	e, game := newTestEngine(t, time.Hour)
	e.Run()
	defer e.SetGameOver()

	game.err = fmt.Errorf("%w: card not in hand", ErrIllegalPlay)
	e.SubmitAction("bogus", 1, 0)

	select {
	case <-e.Advanced():
		t.Fatal("an illegal play must not advance the turn")
	case <-time.After(100 * time.Millisecond):
	}

	game.mu.Lock()
	game.err = nil
	game.mu.Unlock()

	e.SubmitAction("legal", 1, 0)
	waitAdvanced(t, e)
	assert.Equal(t, 1, len(game.recorded()))
}

func TestEngine_GameOverStopsLoop(t *testing.T) {
	e, _ := newTestEngine(t, time.Hour)
	e.Run()

	e.SetGameOver()
	assert.True(t, e.IsGameOver())

	select {
	case _, ok := <-e.Advanced():
		assert.False(t, ok, "advanced channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the loop to exit")
	}
}

func TestEngine_RoundOverSkipsPlay(t *testing.T) {
	e, game := newTestEngine(t, 0)

	e.Lock()
	e.SetRoundOverLocked(true)
	e.Unlock()
	assert.True(t, e.IsRoundOver())

	e.SubmitAction("late", 1, 0)
	assert.Equal(t, 0, len(game.recorded()))
}

func TestEngine_Restart(t *testing.T) {
	e, _ := newTestEngine(t, 0)

	e.Lock()
	e.Deck().DealNewHandToPlayer(1, 7)
	e.SetRoundOverLocked(true)
	e.Unlock()

	e.Restart(2, true)

	assert.True(t, e.IsPaused())
	assert.False(t, e.IsRoundOver())
	assert.False(t, e.IsGameOver())
	assert.Equal(t, 2, e.CurrentActor())
	assert.Equal(t, 0, len(e.HandByOwner(1)))

	// the initial discard was burned off the top
	assert.Equal(t, 1, len(e.HandByOwner(deck.Discarded)))
	assert.Equal(t, 51, e.Deck().Undealt())
}

func TestEngine_IsPlayable(t *testing.T) {
	e, _ := newTestEngine(t, 0)

	e.Lock()
	card := e.Deck().DealCardTo(1)
	e.Unlock()

	assert.True(t, e.IsPlayable(card, 1, 0))
	assert.False(t, e.IsPlayable(card, 2, 0))
}
