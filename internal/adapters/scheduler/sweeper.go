package scheduler

import (
	"context"
	"sync"
	"time"

	"marketplace-engine/internal/ports/inbound"

	"github.com/rs/zerolog"
)

const defaultSweepInterval = 30 * time.Second

// Report collects the outcome of one pass over every sweep
type Report struct {
	ActivatedDeals  inbound.SweepResult `json:"activated_deals"`
	ExpiredDeals    inbound.SweepResult `json:"expired_deals"`
	ExpiredAuctions inbound.SweepResult `json:"expired_auctions"`
}

// Sweeper runs the periodic batch transitions on a ticker
type Sweeper struct {
	sweeps   inbound.SweepService
	interval time.Duration
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}
type SweeperParams struct {
	Sweeps   inbound.SweepService
	Interval time.Duration
	Logger   zerolog.Logger
}

func NewSweeper(params SweeperParams) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())

	interval := params.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		sweeps:   params.Sweeps,
		interval: interval,
		logger:   params.Logger.With().Str("component", "sweeper").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the sweep loop
func (s *Sweeper) Start() {
	s.logger.Info().Dur("interval", s.interval).Msg("Starting sweeper")

	s.wg.Add(1)
	go s.loop()
}

// Stop gracefully stops the sweeper, letting an in-flight pass finish its current item
func (s *Sweeper) Stop() {
	s.logger.Info().Msg("Stopping sweeper")
	s.cancel()
	s.wg.Wait()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(s.ctx)
		case <-s.ctx.Done():
			s.logger.Info().Msg("Sweeper loop stopped")
			return
		}
	}
}

// RunOnce runs every sweep in order: scheduled deals open before ended ones
// close, so a deal whose window already passed is opened and expired in one pass.
// A failing sweep does not stop the others.
func (s *Sweeper) RunOnce(ctx context.Context) Report {
	var (
		report Report
		err    error
	)

	if report.ActivatedDeals, err = s.sweeps.ActivateScheduledDeals(ctx); err != nil {
		s.logger.Error().Err(err).Str("sweep", "activate_deals").Msg("Sweep failed")
	}
	if report.ExpiredDeals, err = s.sweeps.ExpireDeals(ctx); err != nil {
		s.logger.Error().Err(err).Str("sweep", "expire_deals").Msg("Sweep failed")
	}
	if report.ExpiredAuctions, err = s.sweeps.ExpireAuctions(ctx); err != nil {
		s.logger.Error().Err(err).Str("sweep", "expire_auctions").Msg("Sweep failed")
	}

	s.logger.Debug().
		Int("activated_deals", report.ActivatedDeals.Processed).
		Int("expired_deals", report.ExpiredDeals.Processed).
		Int("expired_auctions", report.ExpiredAuctions.Processed).
		Msg("Sweep pass finished")
	return report
}
