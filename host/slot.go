package host

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	slotPublishedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wheel_bridge_host_slot_published_total",
	})
	slotOverwrittenCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wheel_bridge_host_slot_overwritten_total",
		Help: "Commands replaced in the slot before anyone consumed them.",
	})
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		slotPublishedCounter,
		slotOverwrittenCounter,
	)
}

// Slot is a single-slot, latest-value-wins channel. Publishing overwrites any
// value that has not been taken yet.
type Slot struct {
	mu      sync.Mutex
	value   string
	pending bool
	seq     uint64
}

func NewSlot() *Slot {
	return &Slot{}
}

func (s *Slot) Publish(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		slotOverwrittenCounter.Inc()
		log.Trace().Str("Dropped", s.value).Str("Command", cmd).Msg("host: overwriting unconsumed command")
	}

	s.value = cmd
	s.pending = true
	s.seq += 1
	slotPublishedCounter.Inc()

	return nil
}

// Take consumes the pending command, if any.
func (s *Slot) Take() (cmd string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return "", false
	}

	s.pending = false

	return s.value, true
}

// Peek returns the last published command without consuming it, along with its
// sequence number. seq is 0 if nothing was ever published.
func (s *Slot) Peek() (cmd string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value, s.seq
}
