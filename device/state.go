package device

import (
	"fmt"
	"strconv"
	"strings"
)

type ConnectionState uint8

const (
	Disconnected ConnectionState = iota
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connected:
		return "Connected"
	default:
		panic("unknown connection state: " + strconv.Itoa(int(s)))
	}
}

func ParseConnectionState(v string) (ConnectionState, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "connected":
		return Connected, nil
	case "disconnected":
		return Disconnected, nil
	}

	return Disconnected, fmt.Errorf("unknown connection state %q (must be one of connected, disconnected)", v)
}
