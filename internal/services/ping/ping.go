package ping

import (
	"errors"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/ping"
)

// Ping returns a simple pong response
func Ping() string {
	return "pong"
}

// PingPost validates ping request and returns pong response
func PingPost(req ping.PingRequest) (string, error) {
	if req.Action != "ping" {
		return "", errors.New("invalid action, expected 'ping'")
	}
	return "pong", nil
}
