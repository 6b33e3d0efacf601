package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"marketplace-engine/internal/adapters/scheduler"
)

func newSweepCommand() *cobra.Command {
	var dispatch bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one lifecycle sweep and exit",
		Long: `Activate due flash deals, expire ended deals and auctions, then exit.

Intended for cron-style deployments where serve runs with --no-sweep.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), dispatch)
		},
	}

	cmd.Flags().BoolVar(&dispatch, "dispatch", true, "also drain the notification outbox once")

	return cmd
}

func runSweep(ctx context.Context, dispatch bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	e, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.close()

	sweeper := scheduler.NewSweeper(scheduler.SweeperParams{
		Sweeps:   e.sweeps,
		Interval: cfg.Scheduler.SweepInterval,
		Logger:   log.Logger,
	})
	report := sweeper.RunOnce(ctx)

	log.Info().
		Int("activated_deals", report.ActivatedDeals.Processed).
		Int("expired_deals", report.ExpiredDeals.Processed).
		Int("expired_auctions", report.ExpiredAuctions.Processed).
		Msg("Sweep finished")

	if !dispatch {
		return nil
	}

	dispatcher := newDispatcher(cfg, e)
	defer dispatcher.Stop()

	delivered, err := dispatcher.DispatchOnce(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("delivered", delivered).Msg("Outbox drained")
	return nil
}
