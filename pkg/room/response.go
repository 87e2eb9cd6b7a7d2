package room

import (
	"fodinha-server/pkg/playable"
)

type clientStatePlayer struct {
	PlayerID    int64  `json:"playerId"`
	Name        string `json:"name"`
	IsConnected bool   `json:"isConnected"`
}

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

func newLogResponse(messages []*playable.LogMessage) *playable.Response {
	return &playable.Response{
		Key:  "log",
		Data: messages,
	}
}
