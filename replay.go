package main

import (
	"context"

	"github.com/robertof/wheel-bridge/classifier"
	"github.com/robertof/wheel-bridge/replay"
	"github.com/rs/zerolog/log"
)

func doReplay(ctx context.Context, cfg config, cls *classifier.Classifier) {
	log.Info().
		Str("Script", cfg.ReplayScript).
		Str("Rules", cls.Version()).
		Msg("Starting in replay mode")

	script, err := replay.ParseFile(cfg.ReplayScript)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse replay script")
	}

	env := replay.NewEnv(cls, cfg.Paths())

	if err := script.Run(ctx, env); err != nil {
		log.Fatal().
			Err(err).
			Strs("RecentLogLines", env.Controller.RecentLogLines()).
			Msg("Replay failed")
	}

	log.Info().
		Int("Steps", len(script.Steps)).
		Stringer("State", env.Controller.Snapshot()).
		Msg("Replay finished")
}
