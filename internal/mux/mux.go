package mux

import (
	"context"
	"net/http"
	"strconv"

	gmux "github.com/gorilla/mux"

	"studpoker-server/internal/config"
	"studpoker-server/pkg/room"
)

type ctxKey int

const ctxSessionKey ctxKey = iota

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version   string
	facesPath string
	registry  *room.Registry
}

// NewMux returns a new HTTP mux backed by the session registry
func NewMux(version string, registry *room.Registry) *Mux {
	this := &Mux{
		Router:    gmux.NewRouter(),
		version:   version,
		facesPath: config.Instance().FacesPath,
		registry:  registry,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodPost).Path("/game").Handler(this.postGame())

	gr := r.PathPrefix("/game/{id:[0-9]+}").Subrouter()
	gr.Use(this.sessionMiddleware)

	gr.Methods(http.MethodPost).Path("/player").Handler(this.postGamePlayer())
	gr.Methods(http.MethodPost).Path("/start").Handler(this.postGameStart())
	gr.Methods(http.MethodPost).Path("/restart").Handler(this.postGameRestart())
	gr.Methods(http.MethodPost).Path("/bet").Handler(this.postGameBet())
	gr.Methods(http.MethodGet).Path("/state").Handler(this.getGameState())
	gr.Methods(http.MethodGet).Path("/hand").Handler(this.getGameHand())
	gr.Methods(http.MethodGet).Path("/ws").Handler(this.getGameWS())

	return this
}

// sessionMiddleware resolves {id} to a session. An id that does not match a
// live session falls back to the default session; 404 only when there are no
// sessions at all.
func (m *Mux) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(gmux.Vars(r)["id"])
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		session := m.registry.Get(id)
		if session == nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxSessionKey, session)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
