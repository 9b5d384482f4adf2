package device

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSpec  = errors.New("invalid device spec")
	ErrInvalidValue = errors.New("invalid telemetry value")
)

const (
	DefaultNamespace    = "DataCorePlugin.ExternalScript"
	DefaultGenericAlias = "Arduino"
)

// Telemetry fields published by the wheel firmware through the host.
const (
	FieldClutchA   = "ClutchA"
	FieldClutchB   = "ClutchB"
	FieldPWMOutput = "PWMOutput"
)

// Identity is the pair of fixed strings the host knows the device by. Both are used
// to qualify telemetry paths and to recognise the device in host log lines.
type Identity struct {
	UniqueID    string
	DisplayName string
}

func (id Identity) String() string {
	return fmt.Sprintf("device[name=%q, id=%v]", id.DisplayName, id.UniqueID)
}

// Paths builds host telemetry lookup paths for a device.
type Paths struct {
	Namespace    string
	GenericAlias string
	Identity
}

func NewPaths(id Identity) Paths {
	return Paths{
		Namespace:    DefaultNamespace,
		GenericAlias: DefaultGenericAlias,
		Identity:     id,
	}
}

// Qualified returns `<namespace>.<unique id>.<field>`.
func (p Paths) Qualified(field string) string {
	return p.Namespace + "." + p.UniqueID + "." + field
}

// Generic returns `<namespace>.<generic alias>.<field>`, used when the host has no
// id-qualified entry.
func (p Paths) Generic(field string) string {
	return p.Namespace + "." + p.GenericAlias + "." + field
}
