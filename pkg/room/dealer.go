package room

import (
	"time"

	"github.com/sirupsen/logrus"

	"studpoker-server/pkg/deck"
	"studpoker-server/pkg/playable"
	"studpoker-server/pkg/playable/poker/stud"
)

// Dealer translates game transitions into outbound events and keeps play
// moving: it consumes the engine's turn-advanced channel, deals out hand
// updates, announces the next actor, runs the showdown, and plays for
// unattended seats through the robot.
type Dealer struct {
	logger     logrus.FieldLogger
	game       *stud.Game
	robotDelay time.Duration
}

// seatState is the public view of one seat
type seatState struct {
	Seat   int          `json:"seat"`
	Name   string       `json:"name"`
	Stake  int          `json:"stake"`
	Bet    int          `json:"bet"`
	Folded bool         `json:"folded"`
	Hand   []*deck.Card `json:"hand,omitempty"`
}

// tableState is broadcast whenever the active player changes
type tableState struct {
	Name       string `json:"name"`
	LastAction string `json:"lastAction"`
	Pot        int    `json:"pot"`
	HighBet    int    `json:"highBet"`
}

// NewDealer returns a dealer for the table. The robot delay is how long an
// unattended seat appears to think before acting; use zero in tests.
func NewDealer(logger logrus.FieldLogger, game *stud.Game, robotDelay time.Duration) *Dealer {
	return &Dealer{
		logger:     logger,
		game:       game,
		robotDelay: robotDelay,
	}
}

// StartShift starts the dealer's background loops. The main loop stops when
// the game closes its turn-advanced channel.
func (d *Dealer) StartShift() {
	go d.runLoop()
	go d.logLoop()
}

func (d *Dealer) runLoop() {
	for range d.game.Advanced() {
		d.moveOn()
	}

	d.logger.Debug("dealer shift over")
}

func (d *Dealer) logLoop() {
	for messages := range d.game.LogChan() {
		d.broadcast("log", messages)
	}
}

// AddClient attaches a connected client as the event sink for its seat and
// sends it the current table picture
func (d *Dealer) AddClient(c *Client) {
	p := d.game.Player(c.Seat())
	if p == nil {
		d.logger.WithField("seat", c.Seat()).Warn("client connected for an empty seat")
		return
	}

	p.SetSink(c)

	snap := d.game.SeatState(c.Seat())
	c.Send("whoami", &seatState{
		Seat:  c.Seat(),
		Name:  snap.Name,
		Stake: snap.Stake,
	})
	d.sendHands()
	d.broadcast("participants", d.seatStates(0))
}

// RemoveClient detaches a disconnected client. The seat plays on as a robot.
func (d *Dealer) RemoveClient(c *Client) {
	if p := d.game.Player(c.Seat()); p != nil {
		p.SetSink(nil)
	}
}

// ReceivedMessage handles one inbound client message
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	switch msg.Action {
	case "bet":
		amount, ok := msg.AdditionalData.GetInt("amount")
		if !ok {
			c.Send("error", "bet requires an amount")
			return
		}

		d.game.SubmitAction(nil, c.Seat(), amount)
	case "fold":
		d.game.SubmitAction(nil, c.Seat(), stud.Fold)
	case "state":
		c.Send("state", d.seatStates(c.Seat()))
	default:
		d.logger.WithField("action", msg.Action).Warn("unknown client action")
	}
}

// BeginHand announces a freshly dealt hand and opens the betting
func (d *Dealer) BeginHand() {
	d.sendHands()

	seat := d.game.NextPlayer()
	d.game.Unpause()
	d.activate(seat)
}

// moveOn reacts to one resolved play: either the turn moved within the
// stage, or the stage closed and the next card (or the showdown) is due
func (d *Dealer) moveOn() {
	if seat := d.game.CurrentActor(); seat != 0 {
		d.activate(seat)
		return
	}

	if d.game.IsRoundOver() || d.game.Round() >= stud.StageShowdown {
		d.finishHand()
		return
	}

	if d.game.Round() == stud.StageSeventhStreet {
		// the last card is dealt face down and the stage opener bets first
		seat := d.game.ResetCurrentPlayer()
		d.sendHands()
		d.activate(seat)
		return
	}

	seat := d.game.NextPlayer()
	d.sendHands()
	if seat == 0 {
		d.finishHand()
		return
	}

	d.activate(seat)
}

// finishHand runs the showdown and announces the winners. The table stays
// paused until the next hand is dealt.
func (d *Dealer) finishHand() {
	d.game.Pause()
	d.sendHands()

	winners := d.game.Winners()
	names := make([]string, len(winners))
	for i, seat := range winners {
		names[i] = d.game.Player(seat).Name()
	}

	d.broadcast("round-over", names)
	d.broadcast("participants", d.seatStates(0))
}

// activate announces whose turn it is. An unattended seat is handed to the
// robot after the thinking delay.
func (d *Dealer) activate(seat int) {
	if seat == 0 {
		return
	}

	p := d.game.Player(seat)
	d.broadcast("player", &tableState{
		Name:       p.Name(),
		LastAction: d.game.LastAction(),
		Pot:        d.game.Pot(),
		HighBet:    d.game.HighBet(),
	})

	if p.IsUnattended() {
		go func() {
			if d.robotDelay > 0 {
				time.Sleep(d.robotDelay)
			}

			bet := d.game.RobotBet(seat)
			d.game.SubmitAction(nil, seat, bet)
		}()
		return
	}

	p.Send("activate", map[string]int{"highBet": d.game.HighBet()})
}

// sendHands sends every seat its own cards plus its view of the table
func (d *Dealer) sendHands() {
	for seat := 1; seat <= d.game.NumPlayers(); seat++ {
		p := d.game.Player(seat)
		p.Send("hand", d.game.CardsDealt(seat))
		p.Send("opponents", d.seatStates(seat))
	}
}

// seatStates builds the per-seat public view as the viewer sees it. Viewer
// 0 omits the hands entirely.
func (d *Dealer) seatStates(viewer int) []*seatState {
	states := make([]*seatState, 0, d.game.NumPlayers())
	for seat := 1; seat <= d.game.NumPlayers(); seat++ {
		snap := d.game.SeatState(seat)
		state := &seatState{
			Seat:   seat,
			Name:   snap.Name,
			Stake:  snap.Stake,
			Bet:    snap.Bet,
			Folded: snap.Folded,
		}

		if viewer > 0 {
			state.Hand = d.game.VisibleHand(seat, viewer)
		}

		states = append(states, state)
	}

	return states
}

// broadcast sends an event to every connected seat
func (d *Dealer) broadcast(key string, data interface{}) {
	for seat := 1; seat <= d.game.NumPlayers(); seat++ {
		d.game.Player(seat).Send(key, data)
	}
}
