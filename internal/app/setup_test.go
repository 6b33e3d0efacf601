package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"marketplace-engine/internal/adapters/memory"
	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/outbound"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubProcessor struct {
	result *outbound.ChargeResult
	err    error
	calls  int
}

func (p *stubProcessor) Charge(ctx context.Context, req outbound.ChargeRequest) (*outbound.ChargeResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type testEnv struct {
	repos     outbound.Store
	clock     *fakeClock
	processor *stubProcessor
	auctions  *AuctionService
	deals     *FlashDealService
	payments  *PaymentService
	users     *UserService
	sweeps    *Sweeps
}

// newTestEnv wires every service over a fresh memory store. Wraps replace
// repositories seen by the services; env.repos keeps the plain store.
func newTestEnv(t *testing.T, wraps ...func(*outbound.Store)) *testEnv {
	t.Helper()

	store := memory.NewStore().Repositories()
	repos := store
	for _, wrap := range wraps {
		wrap(&repos)
	}
	clock := newFakeClock()
	locker := memory.NewKeyedLocker()
	rules := DefaultRules()
	logger := zerolog.Nop()
	processor := &stubProcessor{result: &outbound.ChargeResult{Approved: true, Reference: "ch_test"}}

	env := &testEnv{repos: store, clock: clock, processor: processor}
	env.auctions = NewAuctionService(AuctionServiceParams{
		AuctionRepo:      repos.Auctions,
		BidRepo:          repos.Bids,
		JobRepo:          repos.Jobs,
		UserRepo:         repos.Users,
		NotificationRepo: repos.Notifications,
		Locker:           locker,
		Clock:            clock,
		Rules:            rules,
		Logger:           logger,
	})
	env.deals = NewFlashDealService(FlashDealServiceParams{
		DealRepo:         repos.Deals,
		ClaimRepo:        repos.Claims,
		UserRepo:         repos.Users,
		BroadcastRepo:    repos.Broadcasts,
		NotificationRepo: repos.Notifications,
		Locker:           locker,
		Clock:            clock,
		Rules:            rules,
		Logger:           logger,
	})
	env.payments = NewPaymentService(PaymentServiceParams{
		MethodRepo:       repos.PaymentMethods,
		TransactionRepo:  repos.Transactions,
		JobRepo:          repos.Jobs,
		UserRepo:         repos.Users,
		NotificationRepo: repos.Notifications,
		Processor:        processor,
		Locker:           locker,
		Clock:            clock,
		Rules:            rules,
		Logger:           logger,
	})
	env.users = NewUserService(UserServiceParams{
		UserRepo:         repos.Users,
		NotificationRepo: repos.Notifications,
		Clock:            clock,
		Rules:            rules,
		Logger:           logger,
	})
	env.sweeps = NewSweeps(env.auctions, env.deals)
	return env
}

// seedUser registers a user and returns the principal that resolves to it
func (env *testEnv) seedUser(t *testing.T, role shared.Role, mutate ...func(*shared.User)) (*shared.Principal, *shared.User) {
	t.Helper()
	u := &shared.User{
		ID:         uuid.New(),
		ExternalID: "sub-" + uuid.NewString(),
		Name:       string(role) + " user",
		Role:       role,
		CreatedAt:  env.clock.Now(),
		UpdatedAt:  env.clock.Now(),
	}
	for _, fn := range mutate {
		fn(u)
	}
	require.NoError(t, env.repos.Users.Save(context.Background(), u))
	return &shared.Principal{Subject: u.ExternalID, DisplayName: u.Name}, u
}

var errUnavailable = errors.New("unavailable")

// flakyUsers fails ListReachable the given number of times
type flakyUsers struct {
	outbound.UserRepository
	mu       sync.Mutex
	failures int
}

func (r *flakyUsers) ListReachable(ctx context.Context) ([]*shared.User, error) {
	r.mu.Lock()
	fail := r.failures > 0
	if fail {
		r.failures--
	}
	r.mu.Unlock()
	if fail {
		return nil, errUnavailable
	}
	return r.UserRepository.ListReachable(ctx)
}

// flakyOutbox fails Append the given number of times
type flakyOutbox struct {
	outbound.NotificationRepository
	mu       sync.Mutex
	failures int
}

func (r *flakyOutbox) Append(ctx context.Context, batch ...*notification.Notification) error {
	r.mu.Lock()
	fail := r.failures > 0
	if fail {
		r.failures--
	}
	r.mu.Unlock()
	if fail {
		return errUnavailable
	}
	return r.NotificationRepository.Append(ctx, batch...)
}

// flakyBids fails Create the given number of times
type flakyBids struct {
	outbound.BidRepository
	failures int
}

func (r *flakyBids) Create(ctx context.Context, b *bid.Bid) error {
	if r.failures > 0 {
		r.failures--
		return errUnavailable
	}
	return r.BidRepository.Create(ctx, b)
}

// racedAuctions reports a version conflict on the first Update calls
type racedAuctions struct {
	outbound.AuctionRepository
	conflicts int
}

func (r *racedAuctions) Update(ctx context.Context, a *auction.Auction) error {
	if r.conflicts > 0 {
		r.conflicts--
		return shared.ErrConflict
	}
	return r.AuctionRepository.Update(ctx, a)
}

// brokenClaims fails every ListByDeal for one deal
type brokenClaims struct {
	outbound.ClaimRepository
	dealID uuid.UUID
}

func (r *brokenClaims) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*flashdeal.Claim, error) {
	if dealID == r.dealID {
		return nil, errUnavailable
	}
	return r.ClaimRepository.ListByDeal(ctx, dealID)
}

func (env *testEnv) inbox(t *testing.T, userID uuid.UUID) []*notification.Notification {
	t.Helper()
	list, err := env.repos.Notifications.ListByUser(context.Background(), userID, false, 100)
	require.NoError(t, err)
	return list
}

func countType(list []*notification.Notification, typ notification.Type) int {
	n := 0
	for _, item := range list {
		if item.Type == typ {
			n++
		}
	}
	return n
}

func at(lat, lng float64) func(*shared.User) {
	return func(u *shared.User) {
		u.Location = &shared.Location{Lat: lat, Lng: lng}
	}
}

func withPush(u *shared.User) {
	u.PushToken = "device-" + u.ID.String()
}

func ptr[T any](v T) *T {
	return &v
}
