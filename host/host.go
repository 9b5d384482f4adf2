// Package host models the pieces of the host application the bridge talks to: its
// log stream, its key-value telemetry store and its outbound command channel.
package host

// LogSource returns the most recent line of the host's log stream.
type LogSource interface {
	LastLogLine() string
}

// TelemetrySource looks up host-managed values. ok is false when the path is absent.
type TelemetrySource interface {
	Value(path string) (v any, ok bool)
}

// CommandPublisher hands a formatted command to the device bridge. There is no
// delivery guarantee.
type CommandPublisher interface {
	Publish(cmd string) error
}

type PublisherFunc func(cmd string) error

func (f PublisherFunc) Publish(cmd string) error {
	return f(cmd)
}
