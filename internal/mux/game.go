package mux

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"studpoker-server/pkg/deck"
	"studpoker-server/pkg/room"
)

var wordChar = regexp.MustCompile(`\w`)

func validName(name string) bool {
	return wordChar.MatchString(name) && len(name) >= 1 && len(name) <= 40
}

type gameResponse struct {
	ID        int       `json:"id"`
	AdminName string    `json:"adminName"`
	Started   bool      `json:"started"`
	Created   time.Time `json:"created"`
}

type postGamePayload struct {
	Name string `json:"name"`
}

func (m *Mux) postGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postGamePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !validName(pp.Name) {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 1-40 characters"))
			return
		}

		session := m.registry.Create(pp.Name)
		writeJSON(w, http.StatusCreated, gameResponse{
			ID:        session.ID(),
			AdminName: session.AdminName(),
			Started:   session.IsStarted(),
			Created:   session.Created(),
		})
	}
}

type postGamePlayerPayload struct {
	Name string `json:"name"`
}

type joinResponse struct {
	Seat  int    `json:"seat"`
	Token string `json:"token"`
}

func (m *Mux) postGamePlayer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pp postGamePlayerPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !validName(pp.Name) {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 1-40 characters"))
			return
		}

		session := r.Context().Value(ctxSessionKey).(*room.Session)
		seat, joinToken, err := session.Join(pp.Name)
		if err != nil {
			if errors.Is(err, room.ErrSessionStarted) {
				writeJSONError(w, http.StatusConflict, err)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		writeJSON(w, http.StatusCreated, joinResponse{
			Seat:  seat,
			Token: joinToken,
		})
	})
}

type statusResponse struct {
	Status string `json:"status"`
}

func (m *Mux) postGameStart() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := r.Context().Value(ctxSessionKey).(*room.Session)
		if session.IsStarted() {
			writeJSONError(w, http.StatusConflict, room.ErrSessionStarted)
			return
		}

		session.Start()
		writeJSON(w, http.StatusOK, statusResponse{Status: "started"})
	})
}

func (m *Mux) postGameRestart() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := r.Context().Value(ctxSessionKey).(*room.Session)
		if !session.IsStarted() {
			writeJSONError(w, http.StatusBadRequest, errors.New("the game has not started"))
			return
		}

		session.Start()
		writeJSON(w, http.StatusOK, statusResponse{Status: "new deal"})
	})
}

type postGameBetPayload struct {
	Token  string `json:"token"`
	Amount int    `json:"amount"`
}

func (m *Mux) postGameBet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pp postGameBetPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		session := r.Context().Value(ctxSessionKey).(*room.Session)
		seat, ok := session.SeatForToken(pp.Token)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		if !session.IsStarted() {
			writeJSONError(w, http.StatusConflict, errors.New("the game has not started"))
			return
		}

		session.Game().SubmitAction(nil, seat, pp.Amount)
		writeJSON(w, http.StatusAccepted, statusResponse{Status: "accepted"})
	})
}

type cardResponse struct {
	Suit        deck.Suit `json:"suit"`
	Rank        int       `json:"rank"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
}

// cardResponse serializes a card for the viewer. A nil card is one the
// viewer may not see and gets the card-back face.
func (m *Mux) cardResponse(d *deck.Deck, card *deck.Card) *cardResponse {
	if card == nil {
		return &cardResponse{
			Image:       m.facesPath + deck.CardBack.Image,
			Description: deck.CardBack.Description,
		}
	}

	cr := &cardResponse{
		Suit: card.Suit,
		Rank: card.Rank,
	}

	if face, ok := d.Face(card); ok {
		cr.Image = m.facesPath + face.Image
		cr.Description = face.Description
	}

	return cr
}

func (m *Mux) cardResponses(d *deck.Deck, cards []*deck.Card) []*cardResponse {
	responses := make([]*cardResponse, len(cards))
	for i, card := range cards {
		responses[i] = m.cardResponse(d, card)
	}

	return responses
}

type seatResponse struct {
	Seat   int             `json:"seat"`
	Name   string          `json:"name"`
	Stake  int             `json:"stake"`
	Bet    int             `json:"bet"`
	Folded bool            `json:"folded"`
	Hand   []*cardResponse `json:"hand"`
}

type stateResponse struct {
	gameResponse
	Round       int             `json:"round"`
	Pot         int             `json:"pot"`
	HighBet     int             `json:"highBet"`
	LastAction  string          `json:"lastAction"`
	CurrentSeat int             `json:"currentSeat"`
	Seats       []*seatResponse `json:"seats"`
}

// viewerSeat resolves the optional token query parameter to a seat. Requests
// without a valid token see the table as a spectator.
func viewerSeat(r *http.Request, session *room.Session) int {
	if tok := r.FormValue("token"); tok != "" {
		if seat, ok := session.SeatForToken(tok); ok {
			return seat
		}
	}

	return 0
}

func (m *Mux) getGameState() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := r.Context().Value(ctxSessionKey).(*room.Session)
		viewer := viewerSeat(r, session)
		game := session.Game()

		seats := make([]*seatResponse, 0, game.NumPlayers())
		for seat := 1; seat <= game.NumPlayers(); seat++ {
			snap := game.SeatState(seat)
			seats = append(seats, &seatResponse{
				Seat:   seat,
				Name:   snap.Name,
				Stake:  snap.Stake,
				Bet:    snap.Bet,
				Folded: snap.Folded,
				Hand:   m.cardResponses(game.Deck(), game.VisibleHand(seat, viewer)),
			})
		}

		writeJSON(w, http.StatusOK, stateResponse{
			gameResponse: gameResponse{
				ID:        session.ID(),
				AdminName: session.AdminName(),
				Started:   session.IsStarted(),
				Created:   session.Created(),
			},
			Round:       game.Round(),
			Pot:         game.Pot(),
			HighBet:     game.HighBet(),
			LastAction:  game.LastAction(),
			CurrentSeat: game.CurrentActor(),
			Seats:       seats,
		})
	})
}

type handResponse struct {
	Seat int             `json:"seat"`
	Hand []*cardResponse `json:"hand"`
}

func (m *Mux) getGameHand() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := r.Context().Value(ctxSessionKey).(*room.Session)
		seat, ok := session.SeatForToken(r.FormValue("token"))
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		game := session.Game()
		writeJSON(w, http.StatusOK, handResponse{
			Seat: seat,
			Hand: m.cardResponses(game.Deck(), game.CardsDealt(seat)),
		})
	})
}
