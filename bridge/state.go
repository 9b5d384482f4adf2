package bridge

import (
	"fmt"
	"time"

	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/host"
)

// State is the whole mutable aggregate of the bridge. A Controller owns exactly one
// and hands out copies.
type State struct {
	Connection device.ConnectionState
	Params
	Telemetry device.Telemetry

	// LastLogLine is the last line seen by the classifier, matched or not.
	LastLogLine string
	LastUpdate  time.Time
}

func InitialState() State {
	return State{
		Connection: device.Disconnected,
		Params:     DefaultParams(),
		Telemetry:  device.DisconnectedTelemetry(),
	}
}

func (s State) String() string {
	return fmt.Sprintf("State[Connection=%v,BitePoint=%.1f,AdjustmentMode=%v,%v]",
		s.Connection, s.BitePoint, s.AdjustmentMode, s.Telemetry)
}

type TickResult struct {
	Classification classifier.Result
	// Transitioned is set when the line changed the connection state.
	Transitioned bool
	Poll         PollResult
}

// Advance runs one tick over s: the log line goes through the classifier, then
// telemetry is read for the resulting connection state. It does not touch anything
// but its arguments.
func Advance(
	s State,
	cls *classifier.Classifier,
	line string,
	src host.TelemetrySource,
	paths device.Paths,
) (State, TickResult) {
	var res TickResult

	res.Classification = cls.Classify(s.LastLogLine, line)
	s.LastLogLine = line

	if next, ok := res.Classification.State(); ok && next != s.Connection {
		s.Connection = next
		res.Transitioned = true
	}

	s.Telemetry, res.Poll = Poll(s.Telemetry, s.Connection, src, paths)

	return s, res
}
