package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertof/wheel-bridge/bridge"
	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/host"
	"github.com/robertof/wheel-bridge/metrics"
	"github.com/robertof/wheel-bridge/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	zerolog.DurationFieldUnit = time.Second
	zerolog.TimeFieldFormat = time.RFC3339Nano

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.000",
	})

	cfg := ParseArgs()

	zerolog.SetGlobalLevel(utils.LogLevel(cfg.Debug, cfg.Trace))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cls := initClassifier(cfg)

	if cfg.ReplayScript != "" {
		doReplay(ctx, cfg, cls)
		return
	}

	log.Info().
		Str("BindAddr", cfg.BindAddress).
		Stringer("Device", cfg.Device).
		Str("Rules", cls.Version()).
		Dur("Interval", cfg.TickInterval).
		Msg("Starting with the specified configuration")

	mem, slot := host.NewMemory(), host.NewSlot()
	paths := cfg.Paths()

	ctl := bridge.New(bridge.Options{
		Identity:    *cfg.Device,
		Paths:       &paths,
		Classifier:  cls,
		Logs:        mem,
		Telemetry:   mem,
		Publisher:   slot,
		HistorySize: cfg.LogHistory,
	})

	actions := bridge.Actions{}
	ctl.RegisterActions(actions)

	registry := prometheus.NewRegistry()

	metrics.RegisterCollector(ctl.Snapshot, *cfg.Device, registry)
	bridge.RegisterMetrics(registry)
	host.RegisterMetrics(registry)

	if cfg.EnableMetamonitoring {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	host.RegisterHandlers(mux, mem, slot)
	registerControlHandlers(mux, ctl, actions)

	srv := &http.Server{
		Addr:              cfg.BindAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return bridge.NewRecurring(ctl).Start(ctx, cfg.TickInterval)
	})

	eg.Go(func() error {
		log.Info().
			Str("ListenAddress", cfg.BindAddress).
			Strs("Actions", actions.Names()).
			Msg("Starting HTTP server")

		if err := srv.ListenAndServe(); !utils.ErrorIsAnyOf(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil && !utils.ErrorIsAnyOf(err, context.Canceled, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Bridge stopped unexpectedly")
	}

	log.Info().Msg("Bridge stopped")
}

func initClassifier(cfg config) *classifier.Classifier {
	var rules *classifier.RuleSet
	var err error

	if cfg.RulesFile != "" {
		rules, err = classifier.LoadRulesFile(cfg.RulesFile)
	} else {
		rules, err = classifier.BuiltinRules(cfg.RulesVersion)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load connection rules")
	}

	log.Debug().
		Str("Version", rules.Version).
		Array("Rules", utils.ToZeroLogArray(rules.Rules)).
		Msg("Loaded connection rules")

	return classifier.New(rules, *cfg.Device)
}
