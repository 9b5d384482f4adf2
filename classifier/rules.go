package classifier

import (
	"bytes"
	"embed"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/robertof/wheel-bridge/device"
	"gopkg.in/yaml.v3"
)

const DefaultVersion = "v2"

const (
	PlaceholderID   = "{id}"
	PlaceholderName = "{name}"
)

var (
	ErrInvalidRules   = errors.New("invalid rule table")
	ErrUnknownVersion = errors.New("unknown rule table version")
)

//go:embed rules/*.yaml
var builtinRules embed.FS

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

// Target is the connection state a rule asserts when it matches.
type Target uint8

const (
	// TargetNone stops rule evaluation without changing the connection state.
	TargetNone Target = iota
	TargetConnected
	TargetDisconnected
)

func (t Target) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetConnected:
		return "connected"
	case TargetDisconnected:
		return "disconnected"
	default:
		panic("unknown rule target: " + strconv.Itoa(int(t)))
	}
}

// State maps the target to a connection state. ok is false for TargetNone.
func (t Target) State() (state device.ConnectionState, ok bool) {
	switch t {
	case TargetConnected:
		return device.Connected, true
	case TargetDisconnected:
		return device.Disconnected, true
	}

	return device.Disconnected, false
}

func (t *Target) UnmarshalYAML(value *yaml.Node) error {
	var s string

	if err := value.Decode(&s); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		*t = TargetNone
	case "connected":
		*t = TargetConnected
	case "disconnected":
		*t = TargetDisconnected
	default:
		return errors.Errorf("line %d: unknown state %q (must be one of none, connected, disconnected)",
			value.Line, s)
	}

	return nil
}

func (t Target) MarshalYAML() (any, error) {
	return t.String(), nil
}

type Rule struct {
	Name     string   `yaml:"name"`
	Contains []string `yaml:"contains"`
	Target   Target   `yaml:"state"`
}

func (r Rule) String() string {
	return r.Name + "->" + r.Target.String()
}

// RuleSet is an ordered, versioned table of classification rules.
type RuleSet struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

func (rs *RuleSet) Validate() error {
	if rs.Version == "" {
		return errors.Wrap(ErrInvalidRules, "missing version")
	}

	if len(rs.Rules) == 0 {
		return errors.Wrapf(ErrInvalidRules, "rule table %s has no rules", rs.Version)
	}

	names := make(map[string]bool, len(rs.Rules))

	for i, rule := range rs.Rules {
		if rule.Name == "" {
			return errors.Wrapf(ErrInvalidRules, "rule #%d has no name", i)
		}

		if names[rule.Name] {
			return errors.Wrapf(ErrInvalidRules, "duplicate rule name %q", rule.Name)
		}

		names[rule.Name] = true

		if len(rule.Contains) == 0 {
			return errors.Wrapf(ErrInvalidRules, "rule %q matches every line", rule.Name)
		}

		for _, needle := range rule.Contains {
			if needle == "" {
				return errors.Wrapf(ErrInvalidRules, "rule %q has an empty substring", rule.Name)
			}

			for _, p := range placeholderRe.FindAllString(needle, -1) {
				if p != PlaceholderID && p != PlaceholderName {
					return errors.Wrapf(ErrInvalidRules, "rule %q uses unknown placeholder %s", rule.Name, p)
				}
			}
		}
	}

	return nil
}

func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&rs); err != nil {
		return nil, errors.Wrap(ErrInvalidRules, err.Error())
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}

	return &rs, nil
}

func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read rule table %q", path)
	}

	rs, err := ParseRules(data)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load rule table %q", path)
	}

	return rs, nil
}

// BuiltinRules returns one of the rule tables shipped with the bridge.
func BuiltinRules(version string) (*RuleSet, error) {
	data, err := builtinRules.ReadFile("rules/" + version + ".yaml")
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownVersion, "%q (available: %v)", version, BuiltinVersions())
	}

	return ParseRules(data)
}

func BuiltinVersions() []string {
	entries, err := builtinRules.ReadDir("rules")
	if err != nil {
		panic("embedded rule tables are missing: " + err.Error())
	}

	versions := make([]string, 0, len(entries))

	for _, e := range entries {
		versions = append(versions, strings.TrimSuffix(e.Name(), ".yaml"))
	}

	sort.Strings(versions)

	return versions
}
