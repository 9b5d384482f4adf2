package device_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/robertof/wheel-bridge/device"
)

func TestNewDeviceSpec(t *testing.T) {
	got := device.NewDeviceSpec(" id = abc , name=Wheel Two,broken")
	want := device.DeviceSpec{"id": "abc", "name": "Wheel Two"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NewDeviceSpec(): got %v, wanted %v", got, want)
	}

	if len(device.NewDeviceSpec("")) != 0 {
		t.Fatalf("NewDeviceSpec(\"\"): got non-empty spec")
	}
}

func TestPaths(t *testing.T) {
	p := device.NewPaths(device.Identity{UniqueID: "abc", DisplayName: "Wheel"})

	if got := p.Qualified(device.FieldClutchA); got != "DataCorePlugin.ExternalScript.abc.ClutchA" {
		t.Fatalf("Qualified(): got %q", got)
	}

	if got := p.Generic(device.FieldPWMOutput); got != "DataCorePlugin.ExternalScript.Arduino.PWMOutput" {
		t.Fatalf("Generic(): got %q", got)
	}
}

func TestParseInt(t *testing.T) {
	valid := map[any]int{
		42:          42,
		int64(-7):   -7,
		uint8(255):  255,
		float64(12): 12,
		2.5:         2,
		3.5:         4,
		" 17 ":      17,
		"-3":        -3,
		true:        1,
	}

	for in, want := range valid {
		got, err := device.ParseInt(in)

		if err != nil || got != want {
			t.Fatalf("ParseInt(%#v): got %v, %v, wanted %v", in, got, err, want)
		}
	}

	invalid := []any{"", "1.5", "abc", math.NaN(), math.Inf(1), uint64(math.MaxUint64), []byte("1"), struct{}{}}

	for _, in := range invalid {
		if _, err := device.ParseInt(in); !errors.Is(err, device.ErrInvalidValue) {
			t.Fatalf("ParseInt(%#v): got error %v, wanted ErrInvalidValue", in, err)
		}
	}
}

func TestConnectionState(t *testing.T) {
	for _, s := range []device.ConnectionState{device.Connected, device.Disconnected} {
		got, err := device.ParseConnectionState(s.String())

		if err != nil || got != s {
			t.Fatalf("ParseConnectionState(%q): got %v, %v", s.String(), got, err)
		}
	}

	if _, err := device.ParseConnectionState("maybe"); err == nil {
		t.Fatalf("ParseConnectionState(maybe): got no error")
	}
}
