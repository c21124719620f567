package room

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"studpoker-server/internal/util"
	"studpoker-server/pkg/playable/poker/stud"
	"studpoker-server/pkg/token"
)

// ErrSessionStarted is returned when joining a table that already dealt
var ErrSessionStarted = errors.New("the game has already started")

// minPlayers is the table size a session is filled to with robots on start
const minPlayers = 3

// joinTokenLength is the length of the token issued to a joining player
const joinTokenLength = 16

// Session is one table: the stud game, its dealer, and the join bookkeeping
type Session struct {
	id        int
	adminName string
	created   time.Time
	logger    logrus.FieldLogger

	mu      sync.Mutex
	started bool
	game    *stud.Game
	dealer  *Dealer
	tokens  map[string]int
}

func newSession(id int, adminName string, logger logrus.FieldLogger, options stud.Options, robotDelay time.Duration) *Session {
	sessionLogger := logger.WithField("session", id)
	game := stud.New(sessionLogger, options)

	s := &Session{
		id:        id,
		adminName: adminName,
		created:   time.Now(),
		logger:    sessionLogger,
		game:      game,
		tokens:    make(map[string]int),
	}

	s.dealer = NewDealer(sessionLogger, game, robotDelay)
	return s
}

// ID returns the session's registry id
func (s *Session) ID() int {
	return s.id
}

// AdminName returns the name of the player who created the session
func (s *Session) AdminName() string {
	return s.adminName
}

// Created returns when the session was created
func (s *Session) Created() time.Time {
	return s.created
}

// IsStarted returns true once the first hand has been dealt
func (s *Session) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.started
}

// Game returns the session's stud table
func (s *Session) Game() *stud.Game {
	return s.game
}

// Dealer returns the session's dealer
func (s *Session) Dealer() *Dealer {
	return s.dealer
}

// Join seats a new player and returns their seat and join token. Players
// can only join before the first deal.
func (s *Session) Join(name string) (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return 0, "", ErrSessionStarted
	}

	joinToken, err := token.Generate(joinTokenLength)
	if err != nil {
		return 0, "", err
	}

	seat := s.game.AddParticipant(name)
	s.tokens[joinToken] = seat

	s.logger.WithFields(logrus.Fields{
		"name": name,
		"seat": seat,
	}).Info("player joined")

	return seat, joinToken, nil
}

// SeatForToken resolves a join token back to a seat
func (s *Session) SeatForToken(joinToken string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.tokens[joinToken]
	return seat, ok
}

// Start deals the first hand. Short tables are filled with robot players.
// Starting an already-started session deals a fresh hand instead.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.game.Restart()
		s.dealer.BeginHand()
		return
	}

	for s.game.NumPlayers() < minPlayers {
		name := util.RandomRobotName()
		seat := s.game.AddParticipant(name)
		s.logger.WithFields(logrus.Fields{
			"name": name,
			"seat": seat,
		}).Info("seated a robot")
	}

	s.started = true
	s.game.Start()
	s.dealer.StartShift()
	s.dealer.BeginHand()
}

// End shuts the session's game and dealer down
func (s *Session) End() {
	s.game.SetGameOver()
}
