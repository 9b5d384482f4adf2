package bridge_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/robertof/wheel-bridge/bridge"
	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/device/rb19"
	"github.com/robertof/wheel-bridge/host"
)

func connectedState(t device.Telemetry) bridge.State {
	s := bridge.InitialState()
	s.Connection = device.Connected
	s.Telemetry = t

	return s
}

func TestAdvance_DuplicateLineSkipsRules(t *testing.T) {
	rs, err := classifier.BuiltinRules(classifier.DefaultVersion)
	if err != nil {
		t.Fatalf("BuiltinRules got error: %v", err)
	}

	cls := classifier.New(rs, rb19.Default())

	// a disconnected state whose last line would connect it if re-evaluated.
	s := bridge.InitialState()
	s.LastLogLine = foundLine

	next, res := bridge.Advance(s, cls, foundLine, host.NewMemory(), device.NewPaths(rb19.Default()))

	if next.Connection != device.Disconnected || res.Transitioned || !res.Classification.Duplicate {
		t.Fatalf("Advance(duplicate): got %v / %+v", next, res)
	}

	next, res = bridge.Advance(next, cls, foundLine+" ", host.NewMemory(), device.NewPaths(rb19.Default()))

	if next.Connection != device.Connected || !res.Transitioned {
		t.Fatalf("Advance(new line): got %v / %+v", next, res)
	}
}

func TestPoll(t *testing.T) {
	paths := device.NewPaths(rb19.Default())
	prev := device.Telemetry{ClutchA: 1, ClutchB: 2, PWMOutput: 3, Summary: "A:1 B:2 PWM:3"}

	tests := []struct {
		name   string
		values map[string]any
		want   device.Telemetry
		result bridge.PollResult
	}{
		{
			name: "qualified wins over generic",
			values: map[string]any{
				paths.Qualified(device.FieldClutchA):   "10",
				paths.Generic(device.FieldClutchA):     "99",
				paths.Generic(device.FieldClutchB):     20,
				paths.Qualified(device.FieldPWMOutput): 30.0,
			},
			want:   device.Telemetry{ClutchA: 10, ClutchB: 20, PWMOutput: 30, Summary: "A:10 B:20 PWM:30"},
			result: bridge.PollResult{Outcome: bridge.PollUpdated},
		},
		{
			name: "miss leaves field alone",
			values: map[string]any{
				paths.Generic(device.FieldClutchA): 10,
				paths.Generic(device.FieldClutchB): 20,
			},
			want: device.Telemetry{ClutchA: 10, ClutchB: 20, PWMOutput: 3, Summary: "A:10 B:20 PWM:3"},
			result: bridge.PollResult{
				Outcome: bridge.PollUpdated,
				Misses:  []string{device.FieldPWMOutput},
			},
		},
		{
			name: "nil value is a miss",
			values: map[string]any{
				paths.Qualified(device.FieldClutchA): nil,
				paths.Generic(device.FieldClutchA):   7,
			},
			want: device.Telemetry{ClutchA: 7, ClutchB: 2, PWMOutput: 3, Summary: "A:7 B:2 PWM:3"},
			result: bridge.PollResult{
				Outcome: bridge.PollUpdated,
				Misses:  []string{device.FieldClutchB, device.FieldPWMOutput},
			},
		},
	}

	for _, tc := range tests {
		src := host.NewMemory()
		for k, v := range tc.values {
			src.Set(k, v)
		}

		got, res := bridge.Poll(prev, device.Connected, src, paths)

		if got != tc.want {
			t.Fatalf("%s: got %v, wanted %v", tc.name, got, tc.want)
		}

		if !reflect.DeepEqual(res, tc.result) {
			t.Fatalf("%s: got result %+v, wanted %+v", tc.name, res, tc.result)
		}
	}
}

func TestPoll_ParseFailureKeepsPreviousValues(t *testing.T) {
	paths := device.NewPaths(rb19.Default())
	prev := device.Telemetry{ClutchA: 1, ClutchB: 2, PWMOutput: 3, Summary: "A:1 B:2 PWM:3"}

	src := host.NewMemory()
	src.Set(paths.Generic(device.FieldClutchA), 10)
	src.Set(paths.Generic(device.FieldClutchB), "12.5.1")
	src.Set(paths.Generic(device.FieldPWMOutput), 30)

	got, res := bridge.Poll(prev, device.Connected, src, paths)

	want := device.Telemetry{ClutchA: 1, ClutchB: 2, PWMOutput: 3, Summary: device.SummaryReadError}
	if got != want {
		t.Fatalf("Poll(): got %v, wanted %v", got, want)
	}

	if res.Outcome != bridge.PollFailed || !errors.Is(res.Error, device.ErrInvalidValue) {
		t.Fatalf("Poll(): got result %+v, wanted failure with ErrInvalidValue", res)
	}
}

func TestPoll_DisconnectedZeroes(t *testing.T) {
	paths := device.NewPaths(rb19.Default())
	src := host.NewMemory()
	src.Set(paths.Generic(device.FieldClutchA), 10)

	got, res := bridge.Poll(connectedState(device.Telemetry{ClutchA: 5}).Telemetry, device.Disconnected, src, paths)

	if got != device.DisconnectedTelemetry() || res.Outcome != bridge.PollCleared {
		t.Fatalf("Poll(disconnected): got %v / %v", got, res)
	}
}

func TestParams_Pure(t *testing.T) {
	p := bridge.DefaultParams()

	next, cmds := p.Increase()
	if next != p || cmds != nil {
		t.Fatalf("Increase() without mode: got %v %v", next, cmds)
	}

	p.AdjustmentMode = true
	next, cmds = p.Reset()

	want := []bridge.Command{{Key: bridge.KeyReset, Value: "1"}}
	if next.BitePoint != bridge.DefaultBitePoint || !reflect.DeepEqual(cmds, want) {
		t.Fatalf("Reset(): got %v %v", next, cmds)
	}

	if got := bridge.BitePointCommand(12).String(); got != "CLUTCH_BP:12.0" {
		t.Fatalf("BitePointCommand(12): got %q", got)
	}
}
