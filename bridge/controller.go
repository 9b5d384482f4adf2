// Package bridge keeps the wheel's connection state, telemetry and tunable
// parameters in sync with the host.
package bridge

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/host"
	"github.com/robertof/wheel-bridge/utils"
	"github.com/rs/zerolog/log"
)

const DefaultHistorySize = 20

var (
	ticksCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wheel_bridge_ticks_total",
	})
	transitionsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wheel_bridge_connection_transitions_total",
		Help: "Connection state changes inferred from host log lines, by new state.",
	}, []string{"state"})
	telemetryFailuresCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wheel_bridge_telemetry_read_failures_total",
	})
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		ticksCounter,
		transitionsCounter,
		telemetryFailuresCounter,
		commandsPublishedCounter,
		commandsDroppedCounter,
		commandsFailedCounter,
	)
}

type Options struct {
	Identity device.Identity
	// Paths defaults to device.NewPaths(Identity).
	Paths      *device.Paths
	Classifier *classifier.Classifier

	Logs      host.LogSource
	Telemetry host.TelemetrySource
	Publisher host.CommandPublisher

	// HistorySize is the number of distinct log lines kept for diagnostics.
	HistorySize int
}

// Controller owns the bridge state. Ticks and parameter changes may come from
// different goroutines; all of them are serialized on one mutex, which is held
// while dispatching so the last published command always matches the stored state.
type Controller struct {
	mu    sync.Mutex
	state State

	identity   device.Identity
	paths      device.Paths
	classifier *classifier.Classifier
	logs       host.LogSource
	telemetry  host.TelemetrySource
	dispatcher *Dispatcher
	history    *logHistory

	now func() time.Time
}

func New(opts Options) *Controller {
	if opts.Classifier == nil || opts.Logs == nil || opts.Telemetry == nil {
		panic("bridge.New() requires a classifier, a log source and a telemetry source")
	}

	paths := device.NewPaths(opts.Identity)
	if opts.Paths != nil {
		paths = *opts.Paths
	}

	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}

	log.Debug().
		Stringer("Device", opts.Identity).
		Str("Rules", opts.Classifier.Version()).
		Array("RuleOrder", utils.ToZeroLogArray(opts.Classifier.Rules())).
		Msg("Creating bridge controller")

	return &Controller{
		state:      InitialState(),
		identity:   opts.Identity,
		paths:      paths,
		classifier: opts.Classifier,
		logs:       opts.Logs,
		telemetry:  opts.Telemetry,
		dispatcher: NewDispatcher(opts.Publisher),
		history:    newLogHistory(opts.HistorySize),
		now:        time.Now,
	}
}

// Tick reads the host's last log line and telemetry and folds them into the state.
func (c *Controller) Tick() TickResult {
	line := c.logs.LastLogLine()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.history.Add(line)

	next, res := Advance(c.state, c.classifier, line, c.telemetry, c.paths)
	next.LastUpdate = c.now()

	ticksCounter.Inc()

	if res.Transitioned {
		transitionsCounter.WithLabelValues(next.Connection.String()).Inc()

		log.Info().
			Stringer("Device", c.identity).
			Stringer("From", c.state.Connection).
			Stringer("To", next.Connection).
			Str("Rule", res.Classification.Rule).
			Str("Line", line).
			Msg("Device connection state changed")
	} else if res.Classification.Matched() {
		log.Debug().
			Str("Rule", res.Classification.Rule).
			Stringer("Connection", next.Connection).
			Msg("Log line matched without changing the connection state")
	}

	if res.Poll.Outcome == PollFailed {
		telemetryFailuresCounter.Inc()

		log.Warn().
			Err(res.Poll.Error).
			Stringer("Telemetry", next.Telemetry).
			Msg("Failed to read telemetry, keeping previous values")
	}

	log.Trace().
		Stringer("Classification", res.Classification).
		Stringer("Poll", res.Poll).
		Stringer("State", next).
		Msg("Bridge tick")

	c.state = next

	return res
}

func (c *Controller) mutate(op string, f func(Params) (Params, []Command)) Params {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, cmds := f(c.state.Params)

	if len(cmds) == 0 {
		log.Debug().
			Str("Operation", op).
			Bool("AdjustmentMode", c.state.AdjustmentMode).
			Msg("Parameter change rejected")

		return c.state.Params
	}

	c.state.Params = next

	log.Debug().
		Str("Operation", op).
		Float64("BitePoint", next.BitePoint).
		Bool("AdjustmentMode", next.AdjustmentMode).
		Msg("Parameters changed")

	for _, cmd := range cmds {
		c.dispatcher.Send(c.state.Connection, cmd)
	}

	return next
}

// SetBitePoint stores v clamped to [MinBitePoint, MaxBitePoint] and returns the
// stored value.
func (c *Controller) SetBitePoint(v float64) float64 {
	return c.mutate("SetBitePoint", func(p Params) (Params, []Command) {
		return p.SetBitePoint(v)
	}).BitePoint
}

func (c *Controller) IncreaseBitePoint() float64 {
	return c.mutate("IncreaseBitePoint", Params.Increase).BitePoint
}

func (c *Controller) DecreaseBitePoint() float64 {
	return c.mutate("DecreaseBitePoint", Params.Decrease).BitePoint
}

func (c *Controller) ResetBitePoint() float64 {
	return c.mutate("ResetBitePoint", Params.Reset).BitePoint
}

func (c *Controller) SetAdjustmentMode(enabled bool) bool {
	return c.mutate("SetAdjustmentMode", func(p Params) (Params, []Command) {
		return p.SetAdjustmentMode(enabled)
	}).AdjustmentMode
}

func (c *Controller) ToggleAdjustmentMode() bool {
	return c.mutate("ToggleAdjustmentMode", Params.ToggleAdjustmentMode).AdjustmentMode
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) Identity() device.Identity {
	return c.identity
}

// RecentLogLines returns the last distinct log lines seen by Tick, newest first.
func (c *Controller) RecentLogLines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.history.Recent()
}
