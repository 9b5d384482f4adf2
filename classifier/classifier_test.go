package classifier_test

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/device/rb19"
	"gopkg.in/yaml.v3"
)

const (
	foundLine     = `Found one device on COM4 : {"DeviceName":"Redbull RB19 Steering Interface Pre-Processor","UniqueId":"f35eabd7-6b75-4e14-812d-6c88668e76fb"}`
	connectedLine = "Connected to device on COM4 named Redbull RB19 Steering Interface Pre-Processor (@115200bps)"
	reportLine    = "Arduino performance report for Redbull RB19 Steering Interface Pre-Processor@COM4 : 60 msg/s"
)

func newClassifier(t *testing.T, version string) *classifier.Classifier {
	t.Helper()

	rs, err := classifier.BuiltinRules(version)
	if err != nil {
		t.Fatalf("BuiltinRules(%q) got error: %v", version, err)
	}

	return classifier.New(rs, rb19.Default())
}

func TestClassify_RulePriority(t *testing.T) {
	c := newClassifier(t, classifier.DefaultVersion)

	tests := []struct {
		line string
		want classifier.Result
	}{
		{foundLine, classifier.Result{Rule: "device-found", Target: classifier.TargetConnected}},
		{connectedLine, classifier.Result{Rule: "device-connected", Target: classifier.TargetConnected}},
		{reportLine, classifier.Result{Rule: "performance-report", Target: classifier.TargetDisconnected}},
		{"Found one device on COM4 without identity", classifier.Result{}},
		{"", classifier.Result{}},
	}

	for _, tc := range tests {
		got := c.Classify("previous line", tc.line)

		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Classify(%q): got %+v, wanted %+v", tc.line, got, tc.want)
		}
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	c := newClassifier(t, classifier.DefaultVersion)

	// mentions both a connection and a performance report; the earlier rule wins.
	line := connectedLine + " / " + reportLine
	got := c.Classify("", line)

	if got.Rule != "device-connected" {
		t.Fatalf("Classify(%q): got rule %q, wanted device-connected", line, got.Rule)
	}
}

func TestClassify_DuplicateLineIsNoChange(t *testing.T) {
	c := newClassifier(t, classifier.DefaultVersion)

	got := c.Classify(foundLine, foundLine)

	if !got.Duplicate || got.Matched() {
		t.Fatalf("Classify(dup): got %+v, wanted duplicate without match", got)
	}

	if _, ok := got.State(); ok {
		t.Fatalf("Classify(dup).State(): got a state, wanted none")
	}
}

func TestClassify_RequiresDeviceIdentity(t *testing.T) {
	rs, err := classifier.BuiltinRules(classifier.DefaultVersion)
	if err != nil {
		t.Fatalf("BuiltinRules got error: %v", err)
	}

	c := classifier.New(rs, device.Identity{UniqueID: "other-id", DisplayName: "Other Wheel"})

	for _, line := range []string{foundLine, connectedLine, reportLine} {
		if got := c.Classify("", line); got.Matched() {
			t.Fatalf("Classify(%q) for another device: got %+v, wanted no match", line, got)
		}
	}
}

func TestParseRules_Invalid(t *testing.T) {
	tests := map[string]string{
		"no version":          "rules:\n  - name: a\n    contains: [x]\n    state: connected\n",
		"no rules":            "version: x\n",
		"empty contains":      "version: x\nrules:\n  - name: a\n    contains: []\n",
		"unknown state":       "version: x\nrules:\n  - name: a\n    contains: [x]\n    state: maybe\n",
		"unknown placeholder": "version: x\nrules:\n  - name: a\n    contains: ['{port}']\n",
		"unknown field":       "version: x\nrules:\n  - name: a\n    contains: [x]\n    priority: 1\n",
		"duplicate name":      "version: x\nrules:\n  - name: a\n    contains: [x]\n  - name: a\n    contains: [y]\n",
	}

	for name, data := range tests {
		if _, err := classifier.ParseRules([]byte(data)); !errors.Is(err, classifier.ErrInvalidRules) {
			t.Fatalf("ParseRules(%s): got error %v, wanted ErrInvalidRules", name, err)
		}
	}
}

func TestBuiltinRules_UnknownVersion(t *testing.T) {
	if _, err := classifier.BuiltinRules("v0"); !errors.Is(err, classifier.ErrUnknownVersion) {
		t.Fatalf("BuiltinRules(v0): got error %v, wanted ErrUnknownVersion", err)
	}

	want := []string{"v1", "v2"}
	if got := classifier.BuiltinVersions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("BuiltinVersions(): got %v, wanted %v", got, want)
	}
}

type fixture struct {
	Name  string `yaml:"name"`
	Rules string `yaml:"rules"`
	Lines []struct {
		Line  string `yaml:"line"`
		State string `yaml:"state"`
	} `yaml:"lines"`
}

func TestClassify_Fixtures(t *testing.T) {
	data, err := os.ReadFile("testdata/fixtures.yaml")
	if err != nil {
		t.Fatalf("cannot read fixtures: %v", err)
	}

	var fixtures []fixture

	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		t.Fatalf("cannot parse fixtures: %v", err)
	}

	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			c := newClassifier(t, f.Rules)
			state, last := device.Disconnected, ""

			for i, l := range f.Lines {
				if next, ok := c.Classify(last, l.Line).State(); ok {
					state = next
				}

				last = l.Line

				want, err := device.ParseConnectionState(l.State)
				if err != nil {
					t.Fatalf("line %d: %v", i, err)
				}

				if state != want {
					t.Fatalf("line %d (%q): got %v, wanted %v", i, l.Line, state, want)
				}
			}
		})
	}
}
