package replay

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/robertof/wheel-bridge/bridge"
	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/device"
	"github.com/robertof/wheel-bridge/host"
	"github.com/rs/zerolog/log"
)

// Env is a controller wired to an in-memory host.
type Env struct {
	Host       *host.Memory
	Slot       *host.Slot
	Controller *bridge.Controller
	Actions    bridge.Actions
}

// NewEnv builds an Env for the device described by paths.
func NewEnv(cls *classifier.Classifier, paths device.Paths) *Env {
	env := &Env{
		Host:    host.NewMemory(),
		Slot:    host.NewSlot(),
		Actions: bridge.Actions{},
	}

	env.Controller = bridge.New(bridge.Options{
		Identity:   paths.Identity,
		Paths:      &paths,
		Classifier: cls,
		Logs:       env.Host,
		Telemetry:  env.Host,
		Publisher:  env.Slot,
	})
	env.Controller.RegisterActions(env.Actions)

	return env
}

// Run executes every step in order and stops at the first failure.
func (s *Script) Run(ctx context.Context, env *Env) error {
	log.Debug().Str("Script", s.Name).Int("Steps", len(s.Steps)).Msg("replay: starting script")

	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := step.run(env); err != nil {
			return errors.Wrapf(err, "%s:%d", s.Name, step.Line)
		}
	}

	log.Debug().
		Str("Script", s.Name).
		Stringer("State", env.Controller.Snapshot()).
		Msg("replay: script finished")

	return nil
}

func (step Step) run(env *Env) error {
	args := step.Args

	switch step.Op {
	case OpLog:
		env.Host.SetLogLine(args[0])
	case OpSet:
		env.Host.Set(args[0], args[1])
	case OpUnset:
		env.Host.Delete(args[0])
	case OpTick:
		n := 1

		if len(args) == 1 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil || n < 0 {
				return errors.Wrapf(ErrSyntax, "invalid tick count %q", args[0])
			}
		}

		for i := 0; i < n; i++ {
			res := env.Controller.Tick()

			log.Trace().
				Stringer("Classification", res.Classification).
				Stringer("Poll", res.Poll).
				Msg("replay: tick")
		}
	case OpAction:
		if !env.Actions.Invoke(args[0]) {
			return errors.Wrapf(ErrSyntax, "unknown action %q (available: %v)", args[0], env.Actions.Names())
		}
	case OpBitePoint:
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return errors.Wrapf(ErrSyntax, "invalid bite point %q", args[0])
		}

		env.Controller.SetBitePoint(v)
	case OpMode:
		enabled, err := parseSwitch(args[0])
		if err != nil {
			return err
		}

		env.Controller.SetAdjustmentMode(enabled)
	case OpExpect:
		v, ok := env.Controller.Property(args[0])
		if !ok {
			return errors.Wrapf(ErrSyntax, "unknown property %q (available: %v)", args[0], bridge.PropertyNames())
		}

		if got := formatValue(v); got != args[1] {
			return errors.Wrapf(ErrExpectationFailed, "%s: got %q, wanted %q", args[0], got, args[1])
		}
	case OpExpectCommand:
		cmd, ok := env.Slot.Take()
		if !ok {
			return errors.Wrapf(ErrExpectationFailed, "no command published, wanted %q", args[0])
		}

		if cmd != args[0] {
			return errors.Wrapf(ErrExpectationFailed, "got command %q, wanted %q", cmd, args[0])
		}
	case OpExpectNoCommand:
		if cmd, ok := env.Slot.Take(); ok {
			return errors.Wrapf(ErrExpectationFailed, "got command %q, wanted none", cmd)
		}
	default:
		panic("unknown replay operation: " + step.Op)
	}

	return nil
}

func parseSwitch(v string) (bool, error) {
	switch v {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(ErrSyntax, "invalid switch %q (must be on or off)", v)
	}

	return b, nil
}

func formatValue(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return fmt.Sprint(v)
}
