package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"fodinha-server/internal/config"
	"fodinha-server/internal/jwt"
	"fodinha-server/pkg/profile"
	"fodinha-server/pkg/room"
	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxSeatKey ctxKey = iota
	ctxDealerKey
)

const sessionIDPattern = "{id:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}"

// ProfileGetter looks up player profiles
type ProfileGetter interface {
	Get(ctx context.Context, name string) (*profile.Profile, error)
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config   muxConfig
	version  string
	pitBoss  *room.PitBoss
	profiles ProfileGetter

	// store for testing purposes
	seatRouter *gmux.Router
}

type muxConfig struct {
	defaultLives int
	maxPlayers   int
}

// NewMux returns a new HTTP mux
// profiles may be nil when no database is configured
func NewMux(version string, pitBoss *room.PitBoss, profiles ProfileGetter) *Mux {
	cfg := config.Instance().Game

	this := &Mux{
		Router:   gmux.NewRouter(),
		version:  version,
		pitBoss:  pitBoss,
		profiles: profiles,
		config: muxConfig{
			defaultLives: cfg.DefaultLives,
			maxPlayers:   cfg.MaxPlayers,
		},
	}

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/session").Handler(this.postSession())
		r.Methods(http.MethodPost).Path("/session/" + sessionIDPattern + "/join").Handler(this.postSessionJoin())
		r.Methods(http.MethodGet).Path("/profile/{name}").Handler(this.getProfile())
	}

	// requires a seat token for the session
	{
		this.seatRouter = this.Router.PathPrefix("/session/" + sessionIDPattern).Subrouter()
		this.seatRouter.Use(this.seatMiddleware)

		r := this.seatRouter
		r.Methods(http.MethodGet).Path("").Handler(this.getSession())
		r.Methods(http.MethodGet).Path("/ws").Handler(this.getSessionWS())
		r.Methods(http.MethodPost).Path("/start").Handler(this.postSessionStart())
		r.Methods(http.MethodPost).Path("/bid").Handler(this.postSessionBid())
		r.Methods(http.MethodPost).Path("/play").Handler(this.postSessionPlay())
	}

	return this
}

func (m *Mux) seatMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		seat, err := jwt.ValidSeat(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		id := gmux.Vars(r)["id"]
		if !strings.EqualFold(seat.SessionID, id) {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		dealer, err := m.pitBoss.Dealer(seat.SessionID)
		if err != nil {
			writeGameError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxSeatKey, seat)
		newCtx = context.WithValue(newCtx, ctxDealerKey, dealer)
		w.Header().Set("Fodinha-PlayerID", strconv.FormatInt(seat.PlayerID, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func seatAndDealer(r *http.Request) (jwt.Seat, *room.Dealer) {
	return r.Context().Value(ctxSeatKey).(jwt.Seat), r.Context().Value(ctxDealerKey).(*room.Dealer)
}
