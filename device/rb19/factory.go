// Package rb19 describes the RB19 steering interface pre-processor firmware as seen
// by the host.
package rb19

import (
	"github.com/pkg/errors"
	"github.com/robertof/wheel-bridge/device"
	"github.com/rs/zerolog/log"
)

const (
	DefaultUniqueID    = "f35eabd7-6b75-4e14-812d-6c88668e76fb"
	DefaultDisplayName = "Redbull RB19 Steering Interface Pre-Processor"
)

type Factory struct{}

// Default is the identity baked into the stock firmware.
func Default() device.Identity {
	return device.Identity{
		UniqueID:    DefaultUniqueID,
		DisplayName: DefaultDisplayName,
	}
}

func (f *Factory) FromSpec(spec device.DeviceSpec) (device.Identity, error) {
	id := Default()

	for key := range spec {
		if key != device.DeviceSpecFieldID && key != device.DeviceSpecFieldName {
			return id, errors.Wrapf(device.ErrInvalidSpec, "unknown parameter %q", key)
		}
	}

	if uid := spec.ID(); uid != "" {
		id.UniqueID = uid
	}

	if name := spec.Name(); name != "" {
		id.DisplayName = name
	}

	log.Debug().Stringer("Device", id).Msg("rb19: built device identity from spec")

	return id, nil
}

func (f *Factory) Help() string {
	return `Supported parameters:
id (string): Unique ID reported by the firmware. Defaults to the stock firmware ID.
name (string): Device name reported by the firmware. Defaults to the stock firmware name.`
}
