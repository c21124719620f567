package stud

import (
	"sync"
)

// EventSink receives outbound events for one participant. A participant
// without a sink is unattended and is played by the robot.
type EventSink interface {
	Send(key string, data interface{})
}

// Participant is one seat at a stud table. Monetary fields are guarded by
// the session lock; the sink is attached and detached by the websocket layer
// and has its own guard.
type Participant struct {
	name  string
	stake int
	bet   int

	withdrawn bool

	mu   sync.Mutex
	sink EventSink
}

func newParticipant(name string, stake int) *Participant {
	return &Participant{
		name:  name,
		stake: stake,
	}
}

// Name returns the participant's nickname
func (p *Participant) Name() string {
	return p.name
}

// IsWithdrawn returns true if the participant folded out of the current hand
func (p *Participant) IsWithdrawn() bool {
	return p.withdrawn
}

// Stake returns the participant's current chip count
func (p *Participant) Stake() int {
	return p.stake
}

// Bet returns the participant's outstanding bet for the current stage
func (p *Participant) Bet() int {
	return p.bet
}

func (p *Participant) withdraw() {
	p.withdrawn = true
}

// newHand readies the participant for a fresh deal
func (p *Participant) newHand() {
	p.withdrawn = false
	p.bet = 0
}

// SetSink attaches the participant's event sink. Pass nil on disconnect.
func (p *Participant) SetSink(sink EventSink) {
	p.mu.Lock()
	p.sink = sink
	p.mu.Unlock()
}

// IsUnattended returns true if no event sink is connected
func (p *Participant) IsUnattended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sink == nil
}

// Send pushes an event to the participant's sink, if any. Fire-and-forget.
func (p *Participant) Send(key string, data interface{}) {
	p.mu.Lock()
	sink := p.sink
	p.mu.Unlock()

	if sink != nil {
		sink.Send(key, data)
	}
}
