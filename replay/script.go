// Package replay drives a bridge against an in-memory host from a small script, so
// rule tables can be checked against captured host logs without the host itself.
package replay

import (
	"bufio"
	"io"
	"os"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

var (
	ErrSyntax            = errors.New("syntax error")
	ErrExpectationFailed = errors.New("expectation failed")
)

const (
	OpLog             = "log"
	OpSet             = "set"
	OpUnset           = "unset"
	OpTick            = "tick"
	OpAction          = "action"
	OpBitePoint       = "bitepoint"
	OpMode            = "mode"
	OpExpect          = "expect"
	OpExpectCommand   = "expect-command"
	OpExpectNoCommand = "expect-no-command"
)

// allowed argument counts per op, as {min, max}.
var arity = map[string][2]int{
	OpLog:             {1, 1},
	OpSet:             {2, 2},
	OpUnset:           {1, 1},
	OpTick:            {0, 1},
	OpAction:          {1, 1},
	OpBitePoint:       {1, 1},
	OpMode:            {1, 1},
	OpExpect:          {2, 2},
	OpExpectCommand:   {1, 1},
	OpExpectNoCommand: {0, 0},
}

type Step struct {
	Line int
	Op   string
	Args []string
}

type Script struct {
	Name  string
	Steps []Step
}

func Parse(r io.Reader, name string) (*Script, error) {
	s := &Script{Name: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo += 1

		words, err := shlex.Split(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "%s:%d: %v", name, lineNo, err)
		}

		if len(words) == 0 {
			continue
		}

		op, args := words[0], words[1:]
		bounds, ok := arity[op]

		if !ok {
			return nil, errors.Wrapf(ErrSyntax, "%s:%d: unknown operation %q", name, lineNo, op)
		}

		if len(args) < bounds[0] || len(args) > bounds[1] {
			return nil, errors.Wrapf(ErrSyntax, "%s:%d: %s takes %d to %d arguments, got %d",
				name, lineNo, op, bounds[0], bounds[1], len(args))
		}

		s.Steps = append(s.Steps, Step{Line: lineNo, Op: op, Args: args})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "cannot read script %s", name)
	}

	return s, nil
}

func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open script %q", path)
	}
	defer f.Close()

	return Parse(f, path)
}
