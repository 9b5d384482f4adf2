package bridge

import (
	"math"
	"strconv"
)

const (
	MinBitePoint     = 10.0
	MaxBitePoint     = 90.0
	DefaultBitePoint = 50.0
	BitePointStep    = 0.5
)

// Command keys understood by the wheel firmware.
const (
	KeyBitePoint = "CLUTCH_BP"
	KeyMode      = "CLUTCH_MODE"
	KeyReset     = "CLUTCH_RESET"
)

type Command struct {
	Key   string
	Value string
}

func (c Command) String() string {
	return c.Key + ":" + c.Value
}

func BitePointCommand(v float64) Command {
	return Command{Key: KeyBitePoint, Value: strconv.FormatFloat(v, 'f', 1, 64)}
}

func ModeCommand(enabled bool) Command {
	if enabled {
		return Command{Key: KeyMode, Value: "1"}
	}

	return Command{Key: KeyMode, Value: "0"}
}

func ResetCommand() Command {
	return Command{Key: KeyReset, Value: "1"}
}

// Params are the tunables mirrored to the wheel. Every method returns the new
// params and the commands to send; no commands means the change was rejected and
// the params are unchanged.
type Params struct {
	BitePoint      float64
	AdjustmentMode bool
}

func DefaultParams() Params {
	return Params{BitePoint: DefaultBitePoint}
}

func ClampBitePoint(v float64) float64 {
	return math.Max(MinBitePoint, math.Min(MaxBitePoint, v))
}

// SetBitePoint is allowed regardless of the adjustment mode. NaN is rejected.
func (p Params) SetBitePoint(v float64) (Params, []Command) {
	if math.IsNaN(v) {
		return p, nil
	}

	p.BitePoint = ClampBitePoint(v)

	return p, []Command{BitePointCommand(p.BitePoint)}
}

func (p Params) Increase() (Params, []Command) {
	if !p.AdjustmentMode {
		return p, nil
	}

	return p.SetBitePoint(p.BitePoint + BitePointStep)
}

func (p Params) Decrease() (Params, []Command) {
	if !p.AdjustmentMode {
		return p, nil
	}

	return p.SetBitePoint(p.BitePoint - BitePointStep)
}

// Reset restores the default bite point. The firmware applies its own default on
// CLUTCH_RESET, so no CLUTCH_BP is sent alongside.
func (p Params) Reset() (Params, []Command) {
	if !p.AdjustmentMode {
		return p, nil
	}

	p.BitePoint = DefaultBitePoint

	return p, []Command{ResetCommand()}
}

func (p Params) SetAdjustmentMode(enabled bool) (Params, []Command) {
	p.AdjustmentMode = enabled

	return p, []Command{ModeCommand(enabled)}
}

func (p Params) ToggleAdjustmentMode() (Params, []Command) {
	return p.SetAdjustmentMode(!p.AdjustmentMode)
}
