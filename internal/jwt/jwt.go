package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"fodinha-server/internal/config"
	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "fodinha-server"

// Audience is the intended JWT audience
const Audience = "fodinha"

var secret []byte
var ttl time.Duration

// Seat identifies a player seated in a session
type Seat struct {
	SessionID string
	PlayerID  int64
}

type seatClaims struct {
	jwtgo.RegisteredClaims
	SessionID string `json:"sid"`
}

// LoadKeys will load the signing secret
// this method should only be called once.
func LoadKeys() {
	cfg := config.Instance().JWT
	if cfg.Secret == "" {
		logrus.Fatal("missing jwt secret in configuration")
	}

	secret = []byte(cfg.Secret)
	ttl = cfg.TTL
}

// Sign will sign a JWT for the seat
func Sign(seat Seat) (string, error) {
	if secret == nil {
		panic("LoadKeys() not called")
	}

	now := time.Now()
	claims := seatClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			ID:       uuid.New().String(),
			IssuedAt: jwtgo.NewNumericDate(now),
			Issuer:   Issuer,
			Subject:  strconv.FormatInt(seat.PlayerID, 10),
		},
		SessionID: seat.SessionID,
	}

	if ttl > 0 {
		claims.ExpiresAt = jwtgo.NewNumericDate(now.Add(ttl))
	}

	return jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString(secret)
}

// ValidSeat will validate a signed JWT and return the seat it was issued for
func ValidSeat(signedString string) (Seat, error) {
	if secret == nil {
		panic("LoadKeys() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &seatClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return secret, nil
	})

	if err != nil {
		return Seat{}, err
	}

	if token.Valid {
		if claims, ok := token.Claims.(*seatClaims); ok {
			if !containsAudience(claims.Audience, Audience) {
				return Seat{}, errors.New("invalid audience")
			}

			if claims.Issuer != Issuer {
				return Seat{}, errors.New("invalid issuer")
			}

			if claims.SessionID == "" {
				return Seat{}, errors.New("missing session")
			}

			pid, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				return Seat{}, err
			}

			return Seat{SessionID: claims.SessionID, PlayerID: pid}, nil
		}

		return Seat{}, fmt.Errorf("expected seat claims, got %T", token.Claims)
	}

	logrus.Warn("token claims were not valid. did not expect to reach this code")
	return Seat{}, errors.New("claims were not valid")
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
