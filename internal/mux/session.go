package mux

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"fodinha-server/internal/jwt"
	"fodinha-server/pkg/playable"
	"fodinha-server/pkg/playable/fodinha"
	"fodinha-server/pkg/room"
	gmux "github.com/gorilla/mux"
)

const (
	maxNameLength = 50
	minLives      = 1
	maxLives      = 10
)

type postSessionPayload struct {
	PlayerName         string            `json:"playerName"`
	Lives              int               `json:"lives"`
	MaxPlayers         int               `json:"maxPlayers"`
	StartFrom          fodinha.StartFrom `json:"startFrom"`
	PauseBetweenRounds bool              `json:"pauseBetweenRounds"`
}

type joinPayload struct {
	PlayerName string `json:"playerName"`
}

type bidPayload struct {
	Bid *int `json:"bid"`
}

type playPayload struct {
	CardIndex *int `json:"cardIndex"`
}

type seatResponse struct {
	SessionID string             `json:"sessionId"`
	PlayerID  int64              `json:"playerId"`
	Token     string             `json:"token"`
	State     *playable.Response `json:"state"`
}

// validatePlayerName trims the name and rejects anything that could be rendered as markup
func validatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("player name must be 1-%d characters", maxNameLength)
	}

	if strings.ContainsAny(name, `<>&"'`) {
		return "", errors.New("player name contains invalid characters")
	}

	return name, nil
}

func (m *Mux) postSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postSessionPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		name, err := validatePlayerName(pp.PlayerName)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		lives := pp.Lives
		if lives == 0 {
			lives = m.config.defaultLives
		}

		if lives < minLives || lives > maxLives {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("lives must be between %d and %d", minLives, maxLives))
			return
		}

		switch pp.StartFrom {
		case "", fodinha.StartFromOne, fodinha.StartFromMax:
		default:
			writeJSONError(w, http.StatusBadRequest, errors.New("startFrom must be one or max"))
			return
		}

		maxPlayers := pp.MaxPlayers
		if maxPlayers == 0 {
			maxPlayers = m.config.maxPlayers
		}

		dealer, pid, err := m.pitBoss.CreateSession(name, fodinha.Options{
			InitialLives:       lives,
			MaxPlayers:         maxPlayers,
			StartFrom:          pp.StartFrom,
			PauseBetweenRounds: pp.PauseBetweenRounds,
		})
		if err != nil {
			var pce fodinha.PlayerCountError
			if errors.As(err, &pce) {
				writeJSONError(w, http.StatusBadRequest, err)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}
			return
		}

		m.writeSeat(w, http.StatusCreated, dealer, pid)
	}
}

func (m *Mux) postSessionJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var jp joinPayload
		if !decodeRequest(w, r, &jp) {
			return
		}

		name, err := validatePlayerName(jp.PlayerName)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		dealer, pid, err := m.pitBoss.Join(gmux.Vars(r)["id"], name)
		if err != nil {
			writeGameError(w, err)
			return
		}

		m.writeSeat(w, http.StatusCreated, dealer, pid)
	}
}

func (m *Mux) writeSeat(w http.ResponseWriter, statusCode int, dealer *room.Dealer, pid int64) {
	token, err := jwt.Sign(jwt.Seat{SessionID: dealer.ID, PlayerID: pid})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	state, err := dealer.State(pid)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, statusCode, seatResponse{
		SessionID: dealer.ID,
		PlayerID:  pid,
		Token:     token,
		State:     state,
	})
}

func (m *Mux) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seat, dealer := seatAndDealer(r)
		writeState(w, dealer, seat.PlayerID)
	}
}

func (m *Mux) postSessionStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seat, dealer := seatAndDealer(r)
		if err := dealer.StartRound(seat.PlayerID); err != nil {
			writeGameError(w, err)
			return
		}

		writeState(w, dealer, seat.PlayerID)
	}
}

func (m *Mux) postSessionBid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bp bidPayload
		if !decodeRequest(w, r, &bp) {
			return
		}

		if bp.Bid == nil {
			writeJSONError(w, http.StatusBadRequest, errors.New("bid is required"))
			return
		}

		seat, dealer := seatAndDealer(r)
		if err := dealer.PlaceBid(seat.PlayerID, *bp.Bid); err != nil {
			writeGameError(w, err)
			return
		}

		writeState(w, dealer, seat.PlayerID)
	}
}

func (m *Mux) postSessionPlay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp playPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if pp.CardIndex == nil {
			writeJSONError(w, http.StatusBadRequest, errors.New("cardIndex is required"))
			return
		}

		seat, dealer := seatAndDealer(r)
		if err := dealer.PlayCard(seat.PlayerID, *pp.CardIndex); err != nil {
			writeGameError(w, err)
			return
		}

		writeState(w, dealer, seat.PlayerID)
	}
}

func writeState(w http.ResponseWriter, dealer *room.Dealer, pid int64) {
	state, err := dealer.State(pid)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
