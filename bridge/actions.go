package bridge

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robertof/wheel-bridge/device"
)

// Actions the host can bind to buttons.
const (
	ActionIncreaseBitePoint    = "increaseBitePoint"
	ActionDecreaseBitePoint    = "decreaseBitePoint"
	ActionResetBitePoint       = "resetBitePoint"
	ActionToggleAdjustmentMode = "toggleAdjustmentMode"
)

// Properties published to host dashboards.
const (
	PropBitePoint      = "bitePoint"
	PropAdjustmentMode = "adjustmentMode"
	PropConnected      = "connected"
	PropClutchA        = "clutchA"
	PropClutchB        = "clutchB"
	PropPWMOutput      = "pwmOutput"
	PropSummary        = "summary"
	PropLastLogLine    = "lastLogLine"
)

type ActionRegistrar interface {
	RegisterAction(name string, handler func())
}

// Actions is a plain name to handler table.
type Actions map[string]func()

func (a Actions) RegisterAction(name string, handler func()) {
	a[name] = handler
}

// Invoke runs the named action and reports whether it exists.
func (a Actions) Invoke(name string) bool {
	h, ok := a[name]
	if !ok {
		return false
	}

	h()

	return true
}

func (a Actions) Names() []string {
	names := maps.Keys(a)
	slices.Sort(names)

	return names
}

// RegisterActions binds the zero-argument controller operations.
func (c *Controller) RegisterActions(r ActionRegistrar) {
	r.RegisterAction(ActionIncreaseBitePoint, func() { c.IncreaseBitePoint() })
	r.RegisterAction(ActionDecreaseBitePoint, func() { c.DecreaseBitePoint() })
	r.RegisterAction(ActionResetBitePoint, func() { c.ResetBitePoint() })
	r.RegisterAction(ActionToggleAdjustmentMode, func() { c.ToggleAdjustmentMode() })
}

func (s State) Properties() map[string]any {
	return map[string]any{
		PropBitePoint:      s.BitePoint,
		PropAdjustmentMode: s.AdjustmentMode,
		PropConnected:      s.Connection == device.Connected,
		PropClutchA:        s.Telemetry.ClutchA,
		PropClutchB:        s.Telemetry.ClutchB,
		PropPWMOutput:      s.Telemetry.PWMOutput,
		PropSummary:        s.Telemetry.Summary,
		PropLastLogLine:    s.LastLogLine,
	}
}

func PropertyNames() []string {
	names := maps.Keys(InitialState().Properties())
	slices.Sort(names)

	return names
}

// Property returns the current value of a published property.
func (c *Controller) Property(name string) (any, bool) {
	v, ok := c.Snapshot().Properties()[name]

	return v, ok
}
