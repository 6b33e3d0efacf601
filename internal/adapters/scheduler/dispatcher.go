package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/ports/outbound"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultDispatchInterval = 2 * time.Second
	defaultDispatchBatch    = 100
	defaultDispatchWorkers  = 4
)

// Dispatcher drains the notification outbox into a sink. A notification the
// sink rejects stays undispatched and is retried on the next tick.
type Dispatcher struct {
	repo       outbound.NotificationRepository
	sink       outbound.NotificationSink
	clock      outbound.Clock
	interval   time.Duration
	batch      int
	workerPool *pond.WorkerPool
	logger     zerolog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}
type DispatcherParams struct {
	NotificationRepo outbound.NotificationRepository
	Sink             outbound.NotificationSink
	Clock            outbound.Clock
	Interval         time.Duration
	BatchSize        int
	Workers          int
	Logger           zerolog.Logger
}

func NewDispatcher(params DispatcherParams) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	interval := params.Interval
	if interval <= 0 {
		interval = defaultDispatchInterval
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultDispatchBatch
	}
	workers := params.Workers
	if workers <= 0 {
		workers = defaultDispatchWorkers
	}
	clock := params.Clock
	if clock == nil {
		clock = outbound.SystemClock{}
	}

	pool := pond.New(
		workers,
		batch,
		pond.Context(ctx),
		pond.Strategy(pond.Balanced()),
	)

	return &Dispatcher{
		repo:       params.NotificationRepo,
		sink:       params.Sink,
		clock:      clock,
		interval:   interval,
		batch:      batch,
		workerPool: pool,
		logger:     params.Logger.With().Str("component", "outbox_dispatcher").Logger(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins the dispatch loop
func (d *Dispatcher) Start() {
	d.logger.Info().Dur("interval", d.interval).Int("batch_size", d.batch).Msg("Starting outbox dispatcher")

	d.wg.Add(1)
	go d.loop()
}

// Stop stops the loop and waits for in-flight deliveries
func (d *Dispatcher) Stop() {
	d.logger.Info().Msg("Stopping outbox dispatcher")
	d.cancel()
	d.wg.Wait()
	d.workerPool.StopAndWait()
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := d.DispatchOnce(d.ctx); err != nil {
				d.logger.Error().Err(err).Msg("Outbox dispatch failed")
			}
		case <-d.ctx.Done():
			d.logger.Info().Msg("Dispatcher loop stopped")
			return
		}
	}
}

// DispatchOnce hands one batch of undispatched notifications to the sink and
// returns how many were delivered
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	pending, err := d.repo.ListUndispatched(ctx, d.batch)
	if err != nil {
		return 0, fmt.Errorf("failed to list undispatched notifications: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var (
		mu        sync.Mutex
		delivered = make([]uuid.UUID, 0, len(pending))
	)
	group := d.workerPool.Group()
	for _, n := range pending {
		n := n
		group.Submit(func() {
			if err := d.deliver(ctx, n); err != nil {
				d.logger.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("Notification delivery failed, will retry")
				return
			}
			mu.Lock()
			delivered = append(delivered, n.ID)
			mu.Unlock()
		})
	}
	group.Wait()

	if len(delivered) == 0 {
		return 0, nil
	}
	if err := d.repo.MarkDispatched(ctx, delivered, d.clock.Now()); err != nil {
		return 0, fmt.Errorf("failed to mark notifications dispatched: %w", err)
	}

	d.logger.Debug().Int("delivered", len(delivered)).Int("pending", len(pending)).Msg("Outbox batch dispatched")
	return len(delivered), nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *notification.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return d.sink.Enqueue(ctx, n)
}
