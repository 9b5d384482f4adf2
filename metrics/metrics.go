package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robertof/wheel-bridge/bridge"
	"github.com/robertof/wheel-bridge/device"
)

var (
	descBitePoint = prometheus.NewDesc(
		"wheel_clutch_bite_point_percent",
		"Clutch bite point configured on the wheel.",
		[]string{"device"},
		nil,
	)

	descAdjustmentMode = prometheus.NewDesc(
		"wheel_clutch_adjustment_mode",
		"Whether bite point adjustment is enabled. 0 = disabled, 1 = enabled.",
		[]string{"device"},
		nil,
	)

	descConnected = prometheus.NewDesc(
		"wheel_device_connected",
		"Whether the wheel is connected to the host. 0 = disconnected, 1 = connected.",
		[]string{"device"},
		nil,
	)

	descClutchPosition = prometheus.NewDesc(
		"wheel_clutch_position",
		"Raw clutch paddle position reported by the wheel.",
		[]string{"device", "paddle"},
		nil,
	)

	descPWMOutput = prometheus.NewDesc(
		"wheel_clutch_pwm_output",
		"Combined clutch PWM output reported by the wheel.",
		[]string{"device"},
		nil,
	)
)

type CollectFunc func() bridge.State

type collector struct {
	CollectFunc
	device device.Identity
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	s := c.CollectFunc()
	name := c.device.DisplayName

	ch <- prometheus.MustNewConstMetric(descBitePoint, prometheus.GaugeValue, s.BitePoint, name)
	ch <- prometheus.MustNewConstMetric(descAdjustmentMode, prometheus.GaugeValue, boolToFloat(s.AdjustmentMode), name)
	ch <- prometheus.MustNewConstMetric(descConnected, prometheus.GaugeValue,
		boolToFloat(s.Connection == device.Connected), name)

	paddles := []struct {
		label string
		value int
	}{
		{"a", s.Telemetry.ClutchA},
		{"b", s.Telemetry.ClutchB},
	}

	for _, p := range paddles {
		position := prometheus.MustNewConstMetric(
			descClutchPosition,
			prometheus.GaugeValue,
			float64(p.value),
			name,
			p.label,
		)

		if s.LastUpdate.IsZero() {
			ch <- position
		} else {
			ch <- prometheus.NewMetricWithTimestamp(s.LastUpdate, position)
		}
	}

	pwm := prometheus.MustNewConstMetric(descPWMOutput, prometheus.GaugeValue, float64(s.Telemetry.PWMOutput), name)

	if s.LastUpdate.IsZero() {
		ch <- pwm
	} else {
		ch <- prometheus.NewMetricWithTimestamp(s.LastUpdate, pwm)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

func RegisterCollector(f CollectFunc, id device.Identity, reg prometheus.Registerer) {
	c := &collector{CollectFunc: f, device: id}

	reg.MustRegister(c)
}
