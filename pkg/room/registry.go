package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"studpoker-server/pkg/playable/poker/stud"
)

// Registry is the process-wide collection of sessions, keyed by a small
// integer id. Construct one at startup and pass it by handle.
type Registry struct {
	logger     logrus.FieldLogger
	options    stud.Options
	robotDelay time.Duration

	// sessions older than this that never started may be recycled
	recycleAfter time.Duration

	mu       sync.Mutex
	sessions []*Session
}

// NewRegistry returns an empty session registry. New tables are created
// with the given stud options.
func NewRegistry(logger logrus.FieldLogger, options stud.Options, recycleAfter, robotDelay time.Duration) *Registry {
	return &Registry{
		logger:       logger,
		options:      options,
		robotDelay:   robotDelay,
		recycleAfter: recycleAfter,
	}
}

// Create returns a new session administered by the named player. An
// abandoned session (never started within the recycle window) is recycled
// in place instead of growing the list.
func (r *Registry) Create(adminName string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.sessions {
		if !s.IsStarted() && time.Since(s.Created()) > r.recycleAfter {
			s.End()

			recycled := newSession(i, adminName, r.logger, r.options, r.robotDelay)
			r.sessions[i] = recycled

			r.logger.WithFields(logrus.Fields{
				"session": i,
				"admin":   adminName,
			}).Info("recycled an abandoned session")

			return recycled
		}
	}

	s := newSession(len(r.sessions), adminName, r.logger, r.options, r.robotDelay)
	r.sessions = append(r.sessions, s)

	r.logger.WithFields(logrus.Fields{
		"session": s.ID(),
		"admin":   adminName,
	}).Info("created a session")

	return s
}

// Get returns the session with the id. An out-of-range id falls back to the
// first session; nil is returned only when no sessions exist at all.
func (r *Registry) Get(id int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sessions) == 0 {
		return nil
	}

	if id < 0 || id >= len(r.sessions) {
		return r.sessions[0]
	}

	return r.sessions[id]
}

// List returns the current sessions in id order
func (r *Registry) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*Session, len(r.sessions))
	copy(sessions, r.sessions)
	return sessions
}
