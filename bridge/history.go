package bridge

import "github.com/robertof/wheel-bridge/utils"

// logHistory keeps the last distinct log lines, oldest first.
type logHistory struct {
	size  int
	lines []string
}

func newLogHistory(size int) *logHistory {
	return &logHistory{
		size:  size,
		lines: make([]string, 0, size),
	}
}

func (h *logHistory) Add(line string) {
	if line == "" {
		return
	}

	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return
	}

	if len(h.lines) == h.size {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:h.size-1]
	}

	h.lines = append(h.lines, line)
}

func (h *logHistory) Recent() []string {
	return utils.Reverse(h.lines)
}
