// Package classifier infers the wheel's connection state from the host's free-text
// log lines.
package classifier

import (
	"strings"

	"github.com/robertof/wheel-bridge/device"
)

type compiledRule struct {
	Rule
	needles []string
}

type Classifier struct {
	version string
	rules   []compiledRule
}

// Result describes what a single log line did to the connection state.
type Result struct {
	// Duplicate is set when the line equals the previously processed one. No rule
	// has been evaluated.
	Duplicate bool
	// Rule is the name of the matching rule, empty when nothing matched.
	Rule   string
	Target Target
}

func (r Result) Matched() bool {
	return r.Rule != ""
}

// State returns the connection state asserted by the line, if any.
func (r Result) State() (device.ConnectionState, bool) {
	if r.Duplicate || !r.Matched() {
		return device.Disconnected, false
	}

	return r.Target.State()
}

func (r Result) String() string {
	switch {
	case r.Duplicate:
		return "duplicate"
	case !r.Matched():
		return "no-match"
	default:
		return r.Rule + "->" + r.Target.String()
	}
}

// New binds a rule table to a device identity. The rule set must be valid.
func New(rs *RuleSet, id device.Identity) *Classifier {
	expand := strings.NewReplacer(
		PlaceholderID, id.UniqueID,
		PlaceholderName, id.DisplayName,
	)

	c := &Classifier{
		version: rs.Version,
		rules:   make([]compiledRule, len(rs.Rules)),
	}

	for i, rule := range rs.Rules {
		needles := make([]string, len(rule.Contains))

		for j, n := range rule.Contains {
			needles[j] = expand.Replace(n)
		}

		c.rules[i] = compiledRule{Rule: rule, needles: needles}
	}

	return c
}

func (c *Classifier) Version() string {
	return c.version
}

func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))

	for i, r := range c.rules {
		out[i] = r.Rule
	}

	return out
}

// Classify evaluates line against the rules in order, unless it is identical to
// last. The caller owns the last processed line and must replace it with line
// afterwards, whatever the result.
func (c *Classifier) Classify(last, line string) Result {
	if line == last {
		return Result{Duplicate: true}
	}

	for _, rule := range c.rules {
		if containsAll(line, rule.needles) {
			return Result{Rule: rule.Name, Target: rule.Target}
		}
	}

	return Result{}
}

func containsAll(s string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(s, n) {
			return false
		}
	}

	return true
}
