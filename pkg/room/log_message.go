package room

import (
	"fodinha-server/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages keeps the latest log messages for clients that connect late
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

// LogMessages returns the retained log messages
func (d *Dealer) LogMessages() []*playable.LogMessage {
	var messages []*playable.LogMessage
	_ = d.exec(func() error {
		messages = append([]*playable.LogMessage{}, d.logMessages...)
		return nil
	})

	return messages
}
