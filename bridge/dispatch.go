package bridge

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/host"
	"github.com/rs/zerolog/log"
)

var (
	commandsPublishedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wheel_bridge_commands_published_total",
	})
	commandsDroppedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wheel_bridge_commands_dropped_total",
		Help: "Commands not sent because the device was disconnected.",
	})
	commandsFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wheel_bridge_commands_failed_total",
	})
)

// Dispatcher forwards commands to the host's command channel while the device is
// connected. Nothing is queued or retried.
type Dispatcher struct {
	pub host.CommandPublisher
}

func NewDispatcher(pub host.CommandPublisher) *Dispatcher {
	return &Dispatcher{pub: pub}
}

// Send reports whether cmd reached the channel. Failures of the channel, panics
// included, are logged and swallowed.
func (d *Dispatcher) Send(conn device.ConnectionState, cmd Command) (sent bool) {
	if conn != device.Connected || d.pub == nil {
		commandsDroppedCounter.Inc()
		log.Debug().Stringer("Command", cmd).Msg("Device not connected, dropping command")
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			commandsFailedCounter.Inc()
			log.Warn().Stringer("Command", cmd).Str("Panic", fmt.Sprint(r)).Msg("Command channel panicked")
			sent = false
		}
	}()

	if err := d.pub.Publish(cmd.String()); err != nil {
		commandsFailedCounter.Inc()
		log.Warn().Stringer("Command", cmd).Err(err).Msg("Failed to publish command")
		return false
	}

	commandsPublishedCounter.Inc()
	log.Trace().Stringer("Command", cmd).Msg("Published command")

	return true
}
