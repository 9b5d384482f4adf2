package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robertof/wheel-bridge/bridge"
	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/device/rb19"
)

type config struct {
	Debug, Trace         bool
	BindAddress          string
	EnableMetamonitoring bool
	TickInterval         time.Duration
	RulesFile            string
	RulesVersion         string
	Namespace            string
	GenericAlias         string
	LogHistory           int
	ReplayScript         string
	Device               *device.Identity
}

type boundDevice struct {
	device.Factory
	name   string
	target **device.Identity
}

var deviceFactories = map[string]device.Factory{
	"rb19": &rb19.Factory{},
}

func (d *boundDevice) String() string {
	return ""
}

func (d *boundDevice) Set(v string) error {
	if *d.target != nil {
		return errors.New("only one device can be bridged")
	}

	id, err := d.FromSpec(device.NewDeviceSpec(v))
	if err != nil {
		return fmt.Errorf("failed to create %s device: %w", d.name, err)
	}

	*d.target = &id

	return nil
}

func (c config) Paths() device.Paths {
	return device.Paths{
		Namespace:    c.Namespace,
		GenericAlias: c.GenericAlias,
		Identity:     *c.Device,
	}
}

func ParseArgs() config {
	var cfg config

	flag.StringVar(&cfg.BindAddress, "bind", "localhost:9103", "Where the bridge will bind to")
	flag.BoolVar(&cfg.EnableMetamonitoring, "metamonitoring", true, "Enable Go runtime and process metrics")
	flag.DurationVar(&cfg.TickInterval, "interval", bridge.DefaultInterval,
		"How frequently the host log and telemetry are polled")
	flag.StringVar(&cfg.RulesFile, "rules", "", "Connection rule table (YAML). Overrides -rules-version")
	flag.StringVar(&cfg.RulesVersion, "rules-version", classifier.DefaultVersion,
		fmt.Sprintf("Builtin connection rule table (one of %v)", classifier.BuiltinVersions()))
	flag.StringVar(&cfg.Namespace, "namespace", device.DefaultNamespace, "Host property namespace for telemetry")
	flag.StringVar(&cfg.GenericAlias, "generic-alias", device.DefaultGenericAlias,
		"Device alias used when telemetry is not published under the device unique ID")
	flag.IntVar(&cfg.LogHistory, "log-history", bridge.DefaultHistorySize, "Number of distinct host log lines kept for diagnostics")
	flag.StringVar(&cfg.ReplayScript, "replay", "", "Run a replay script against an in-memory host and quit")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logs")
	flag.BoolVar(&cfg.Trace, "trace", false, "Enable trace logs")

	for deviceName, deviceFactory := range deviceFactories {
		bound := boundDevice{
			name:    deviceName,
			Factory: deviceFactory,
			target:  &cfg.Device,
		}

		help := "Device spec for this device in the form of `key=value,key=value`."

		if docs, ok := deviceFactory.(device.FactoryDocs); ok {
			help += "\n" + docs.Help()
		}

		flag.Var(&bound, deviceName, help)
	}

	flag.Parse()

	if cfg.Device == nil {
		id := rb19.Default()
		cfg.Device = &id
	}

	if cfg.TickInterval <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -interval must be positive!")
		flag.Usage()
		os.Exit(1)
	}

	return cfg
}
