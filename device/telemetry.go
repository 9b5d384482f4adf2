package device

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	SummaryDisconnected = "N/A (Disconnected)"
	SummaryReadError    = "Error reading data"
)

// Telemetry is the last known clutch and PWM readings of the wheel.
type Telemetry struct {
	ClutchA   int
	ClutchB   int
	PWMOutput int
	Summary   string
}

// DisconnectedTelemetry is what the bridge reports while no device is attached.
func DisconnectedTelemetry() Telemetry {
	return Telemetry{Summary: SummaryDisconnected}
}

func FormatSummary(clutchA, clutchB, pwm int) string {
	return fmt.Sprintf("A:%d B:%d PWM:%d", clutchA, clutchB, pwm)
}

func (t Telemetry) String() string {
	return fmt.Sprintf("Telemetry[ClutchA=%d,ClutchB=%d,PWMOutput=%d,Summary=%q]",
		t.ClutchA, t.ClutchB, t.PWMOutput, t.Summary)
}

// ParseInt converts a raw host value to an integer. Hosts hand back whatever type
// the producing script stored, so numbers, numeric strings and booleans are accepted.
// Floats are rounded half to even.
func ParseInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return checkedInt(float64(n), v)
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return checkedInt(float64(n), v)
	case uint64:
		return checkedInt(float64(n), v)
	case float32:
		return checkedInt(math.RoundToEven(float64(n)), v)
	case float64:
		return checkedInt(math.RoundToEven(n), v)
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 32)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidValue, "cannot parse %q as integer", n)
		}
		return int(i), nil
	case fmt.Stringer:
		return ParseInt(n.String())
	}

	return 0, errors.Wrapf(ErrInvalidValue, "unsupported value type %T", v)
}

func checkedInt(f float64, raw any) (int, error) {
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, errors.Wrapf(ErrInvalidValue, "value %v out of integer range", raw)
	}

	return int(f), nil
}
