package host

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Memory is an in-process stand-in for the host: a settable last log line and a
// telemetry store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	logLine string
	values  map[string]any
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]any),
	}
}

func (m *Memory) SetLogLine(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logLine = line
}

func (m *Memory) LastLogLine() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.logLine
}

func (m *Memory) Set(path string, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[path] = v
}

func (m *Memory) Delete(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, path)
}

func (m *Memory) Value(path string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[path]

	return v, ok
}

// Paths lists every stored path, sorted.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := maps.Keys(m.values)
	slices.Sort(paths)

	return paths
}
