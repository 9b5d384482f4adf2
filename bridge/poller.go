package bridge

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/host"
)

type PollOutcome uint8

const (
	// PollCleared means the device is disconnected and telemetry was zeroed.
	PollCleared PollOutcome = iota
	PollUpdated
	// PollFailed means a value could not be parsed; previous readings are kept.
	PollFailed
)

type PollResult struct {
	Outcome PollOutcome
	// Misses lists the fields absent from both the qualified and the generic path.
	Misses []string
	Error  error
}

func (r PollResult) String() string {
	switch r.Outcome {
	case PollCleared:
		return "poll:cleared"
	case PollFailed:
		return fmt.Sprintf("poll:error(%v)", r.Error)
	default:
		if len(r.Misses) > 0 {
			return fmt.Sprintf("poll:updated(missing=%s)", strings.Join(r.Misses, ","))
		}
		return "poll:updated"
	}
}

// Poll refreshes telemetry from the host. Disconnected devices report zeroes. A
// value that cannot be parsed aborts the whole read so readings are never mixed
// across polls; a path missing everywhere only leaves that field alone.
func Poll(
	prev device.Telemetry,
	conn device.ConnectionState,
	src host.TelemetrySource,
	paths device.Paths,
) (device.Telemetry, PollResult) {
	if conn != device.Connected {
		return device.DisconnectedTelemetry(), PollResult{Outcome: PollCleared}
	}

	next := prev
	res := PollResult{Outcome: PollUpdated}

	fields := []struct {
		name string
		dst  *int
	}{
		{device.FieldClutchA, &next.ClutchA},
		{device.FieldClutchB, &next.ClutchB},
		{device.FieldPWMOutput, &next.PWMOutput},
	}

	for _, f := range fields {
		raw, path, ok := lookup(src, paths, f.name)

		if !ok {
			res.Misses = append(res.Misses, f.name)
			continue
		}

		v, err := device.ParseInt(raw)

		if err != nil {
			failed := prev
			failed.Summary = device.SummaryReadError

			return failed, PollResult{
				Outcome: PollFailed,
				Error:   errors.Wrapf(err, "reading %s from %q", f.name, path),
			}
		}

		*f.dst = v
	}

	next.Summary = device.FormatSummary(next.ClutchA, next.ClutchB, next.PWMOutput)

	return next, res
}

func lookup(src host.TelemetrySource, paths device.Paths, field string) (v any, path string, ok bool) {
	path = paths.Qualified(field)

	if v, ok = src.Value(path); ok && v != nil {
		return v, path, true
	}

	path = paths.Generic(field)

	if v, ok = src.Value(path); ok && v != nil {
		return v, path, true
	}

	return nil, "", false
}
