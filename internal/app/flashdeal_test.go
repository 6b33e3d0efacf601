package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"
)

const (
	bogotaLat = 4.6533
	bogotaLng = -74.0836
)

func (env *testEnv) seedRestaurant(t *testing.T) (*shared.Principal, *shared.User) {
	t.Helper()
	return env.seedUser(t, shared.RoleRestaurant, at(bogotaLat, bogotaLng), withPush, func(u *shared.User) {
		u.Phone = "+57 300 000 0000"
		u.RestaurantInfo = &shared.RestaurantInfo{BusinessName: "La Esquina", Cuisine: []string{"colombian"}}
	})
}

func (env *testEnv) publishDeal(t *testing.T, restaurant *shared.Principal, ttl time.Duration, items ...flashdeal.Item) uuid.UUID {
	t.Helper()
	if len(items) == 0 {
		items = []flashdeal.Item{{Name: "empanada", OriginalPrice: 5000, DiscountedPrice: 2500, Quantity: ptr(10)}}
	}
	id, err := env.deals.CreateFlashDeal(context.Background(), restaurant, inbound.CreateFlashDealRequest{
		Title:              "Evening empanadas",
		Items:              items,
		DiscountPercentage: 50,
		EndTime:            env.clock.Now().Add(ttl),
	})
	require.NoError(t, err)
	return id
}

func TestCreateFlashDealFansOutOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, restaurantUser := env.seedRestaurant(t)
	_, near := env.seedUser(t, shared.RoleClient, at(bogotaLat+0.01, bogotaLng), withPush)
	_, far := env.seedUser(t, shared.RoleClient, at(6.2442, -75.5812), withPush)
	_, silent := env.seedUser(t, shared.RoleClient, at(bogotaLat, bogotaLng))
	_, nowhere := env.seedUser(t, shared.RoleClient, withPush)

	id := env.publishDeal(t, restaurant, 2*time.Hour)

	d, err := env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.StatusActive, d.Status)
	assert.Equal(t, 5.0, d.NotificationRadius)
	assert.True(t, d.PushNotificationSent)
	require.NotNil(t, d.PushNotificationSentAt)
	assert.Equal(t, restaurantUser.Location.Lat, d.Location.Lat)

	assert.Equal(t, 1, countType(env.inbox(t, near.ID), notification.TypeFlashDeal))
	assert.Empty(t, env.inbox(t, far.ID))
	assert.Empty(t, env.inbox(t, silent.ID))
	assert.Empty(t, env.inbox(t, nowhere.ID))
	assert.Empty(t, env.inbox(t, restaurantUser.ID))

	sent, err := env.deals.fanOut(ctx, d)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, 1, countType(env.inbox(t, near.ID), notification.TypeFlashDeal))
}

func TestCreateFlashDealValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, _ := env.seedRestaurant(t)
	client, _ := env.seedUser(t, shared.RoleClient, at(bogotaLat, bogotaLng))
	homeless, _ := env.seedUser(t, shared.RoleRestaurant)

	valid := inbound.CreateFlashDealRequest{
		Title:   "Lunch",
		Items:   []flashdeal.Item{{Name: "soup", DiscountedPrice: 8000}},
		EndTime: env.clock.Now().Add(time.Hour),
	}

	_, err := env.deals.CreateFlashDeal(ctx, client, valid)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = env.deals.CreateFlashDeal(ctx, homeless, valid)
	assert.ErrorIs(t, err, shared.ErrPreconditionFailed)

	past := valid
	past.EndTime = env.clock.Now()
	_, err = env.deals.CreateFlashDeal(ctx, restaurant, past)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	empty := valid
	empty.Items = nil
	_, err = env.deals.CreateFlashDeal(ctx, restaurant, empty)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	zero := valid
	zero.Items = []flashdeal.Item{{Name: "soup", Quantity: ptr(0)}}
	_, err = env.deals.CreateFlashDeal(ctx, restaurant, zero)
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestScheduledDealActivatesThroughSweep(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, _ := env.seedRestaurant(t)
	_, near := env.seedUser(t, shared.RoleClient, at(bogotaLat, bogotaLng+0.01), withPush)

	id := env.publishDeal(t, restaurant, 6*time.Hour)
	d, err := env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.StatusScheduled, d.Status)
	assert.False(t, d.PushNotificationSent)
	assert.Empty(t, env.inbox(t, near.ID))

	env.clock.Advance(time.Minute)
	result, err := env.sweeps.ActivateScheduledDeals(ctx)
	require.NoError(t, err)
	assert.Equal(t, inbound.SweepResult{Processed: 1}, result)

	d, err = env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.StatusActive, d.Status)
	assert.True(t, d.PushNotificationSent)
	assert.Equal(t, 1, countType(env.inbox(t, near.ID), notification.TypeFlashDeal))

	result, err = env.sweeps.ActivateScheduledDeals(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Equal(t, 1, countType(env.inbox(t, near.ID), notification.TypeFlashDeal))
}

func TestActivationSweepRetriesFailedFanOut(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		wrap    func(*outbound.Store)
		advance time.Duration
	}{
		{
			name: "scheduled deal while reachable users cannot be listed",
			ttl:  6 * time.Hour,
			wrap: func(s *outbound.Store) {
				s.Users = &flakyUsers{UserRepository: s.Users, failures: 1}
			},
			advance: time.Minute,
		},
		{
			name: "active deal created while the outbox is down",
			ttl:  time.Hour,
			wrap: func(s *outbound.Store) {
				s.Notifications = &flakyOutbox{NotificationRepository: s.Notifications, failures: 1}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, tt.wrap)
			restaurant, _ := env.seedRestaurant(t)
			_, near := env.seedUser(t, shared.RoleClient, at(bogotaLat, bogotaLng+0.01), withPush)

			id := env.publishDeal(t, restaurant, tt.ttl)
			env.clock.Advance(tt.advance)

			// the first sweep may hit the failure; the deal must still end up active
			_, err := env.sweeps.ActivateScheduledDeals(ctx)
			require.NoError(t, err)
			_, err = env.sweeps.ActivateScheduledDeals(ctx)
			require.NoError(t, err)

			d, err := env.repos.Deals.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, flashdeal.StatusActive, d.Status)
			assert.True(t, d.PushNotificationSent)
			assert.Equal(t, 1, countType(env.inbox(t, near.ID), notification.TypeFlashDeal))

			result, err := env.sweeps.ActivateScheduledDeals(ctx)
			require.NoError(t, err)
			assert.Zero(t, result.Processed)
			assert.Equal(t, 1, countType(env.inbox(t, near.ID), notification.TypeFlashDeal))
		})
	}
}

func TestFanOutIsNotFlaggedWithoutQueuedNotifications(t *testing.T) {
	ctx := context.Background()
	outbox := &flakyOutbox{failures: 1}
	env := newTestEnv(t, func(s *outbound.Store) {
		outbox.NotificationRepository = s.Notifications
		s.Notifications = outbox
	})
	restaurant, _ := env.seedRestaurant(t)
	_, near := env.seedUser(t, shared.RoleClient, at(bogotaLat, bogotaLng+0.01), withPush)

	id := env.publishDeal(t, restaurant, time.Hour)

	d, err := env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.StatusActive, d.Status)
	assert.False(t, d.PushNotificationSent)
	assert.Empty(t, env.inbox(t, near.ID))
}

func TestClaimDeal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, restaurantUser := env.seedRestaurant(t)
	diner, dinerUser := env.seedUser(t, shared.RoleClient)
	id := env.publishDeal(t, restaurant, time.Hour,
		flashdeal.Item{Name: "empanada", DiscountedPrice: 2500, Quantity: ptr(5)},
		flashdeal.Item{Name: "coffee", DiscountedPrice: 1500},
	)

	receipt, err := env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{
		{Name: "empanada", Quantity: 2},
		{Name: "coffee", Quantity: 3},
	}})
	require.NoError(t, err)
	assert.Equal(t, 9500.0, receipt.TotalAmount)
	assert.True(t, flashdeal.ValidPickupCode(receipt.PickupCode))

	c, err := env.repos.Claims.GetByID(ctx, receipt.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.ClaimPending, c.Status)
	assert.Equal(t, dinerUser.ID, c.UserID)

	d, err := env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, d.ClaimCount)
	assert.Equal(t, 1, countType(env.inbox(t, restaurantUser.ID), notification.TypeFlashDealClaimed))

	// the second line of the same request counts against the first
	_, err = env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{
		{Name: "empanada", Quantity: 2},
		{Name: "empanada", Quantity: 2},
	}})
	var capErr *shared.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "empanada", capErr.Item)
	assert.Equal(t, 1, capErr.Remaining)
	assert.ErrorIs(t, err, shared.ErrCapacityExceeded)

	_, err = env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "arepa", Quantity: 1}}})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "coffee", Quantity: 0}}})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: uuid.New(), Items: []inbound.ClaimLine{{Name: "coffee", Quantity: 1}}})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	env.clock.Advance(2 * time.Hour)
	_, err = env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "coffee", Quantity: 1}}})
	assert.ErrorIs(t, err, shared.ErrExpired)

	t.Run("retrying with the remaining quantity succeeds", func(t *testing.T) {
		env := newTestEnv(t)
		restaurant, _ := env.seedRestaurant(t)
		first, _ := env.seedUser(t, shared.RoleClient)
		second, _ := env.seedUser(t, shared.RoleClient)
		id := env.publishDeal(t, restaurant, time.Hour, flashdeal.Item{Name: "pizza", DiscountedPrice: 20000, Quantity: ptr(3)})

		steps := []struct {
			who       *shared.Principal
			quantity  int
			remaining int
			ok        bool
		}{
			{who: first, quantity: 2, ok: true},
			{who: second, quantity: 2, remaining: 1},
			{who: second, quantity: 1, ok: true},
			{who: second, quantity: 1, remaining: 0},
		}
		for i, step := range steps {
			receipt, err := env.deals.ClaimDeal(ctx, step.who, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "pizza", Quantity: step.quantity}}})
			if step.ok {
				require.NoError(t, err, "step %d", i)
				assert.True(t, flashdeal.ValidPickupCode(receipt.PickupCode))
				continue
			}
			var capErr *shared.CapacityError
			require.ErrorAs(t, err, &capErr, "step %d", i)
			assert.Equal(t, step.remaining, capErr.Remaining, "step %d", i)
		}

		claims, err := env.repos.Claims.ListByDeal(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 3, flashdeal.ClaimedQuantity(claims, "pizza"))
	})
}

func TestConcurrentClaimsNeverOversell(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, _ := env.seedRestaurant(t)
	id := env.publishDeal(t, restaurant, time.Hour)

	const diners = 30
	principals := make([]*shared.Principal, diners)
	for i := range principals {
		principals[i], _ = env.seedUser(t, shared.RoleClient)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < diners; i++ {
		wg.Add(1)
		go func(p *shared.Principal) {
			defer wg.Done()
			_, err := env.deals.ClaimDeal(ctx, p, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 1}}})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, shared.ErrCapacityExceeded)
		}(principals[i])
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	claims, err := env.repos.Claims.ListByDeal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, flashdeal.ClaimedQuantity(claims, "empanada"))

	d, err := env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, d.ClaimCount)
}

func TestClaimRedemption(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, _ := env.seedRestaurant(t)
	stranger, _ := env.seedRestaurant(t)
	diner, dinerUser := env.seedUser(t, shared.RoleClient)
	id := env.publishDeal(t, restaurant, time.Hour)

	receipt, err := env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 1}}})
	require.NoError(t, err)

	assert.ErrorIs(t, env.deals.ConfirmClaim(ctx, stranger, receipt.ClaimID), shared.ErrForbidden)
	assert.ErrorIs(t, env.deals.ConfirmClaim(ctx, restaurant, uuid.New()), shared.ErrNotFound)

	require.NoError(t, env.deals.ConfirmClaim(ctx, restaurant, receipt.ClaimID))
	assert.ErrorIs(t, env.deals.ConfirmClaim(ctx, restaurant, receipt.ClaimID), shared.ErrInvalidState)
	assert.Equal(t, 1, countType(env.inbox(t, dinerUser.ID), notification.TypeSystem))

	wrong := "ZZZZZZ"
	if receipt.PickupCode == wrong {
		wrong = "YYYYYY"
	}
	err = env.deals.MarkAsPickedUp(ctx, restaurant, inbound.PickupRequest{ClaimID: receipt.ClaimID, PickupCode: wrong})
	assert.ErrorIs(t, err, shared.ErrInvalidCredential)

	err = env.deals.MarkAsPickedUp(ctx, restaurant, inbound.PickupRequest{ClaimID: receipt.ClaimID, PickupCode: strings.ToLower(receipt.PickupCode)})
	require.NoError(t, err)

	c, err := env.repos.Claims.GetByID(ctx, receipt.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.ClaimPickedUp, c.Status)
	require.NotNil(t, c.ConfirmedAt)
	require.NotNil(t, c.PickedUpAt)

	err = env.deals.MarkAsPickedUp(ctx, restaurant, inbound.PickupRequest{ClaimID: receipt.ClaimID, PickupCode: receipt.PickupCode})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCancelDealCancelsOpenClaims(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, _ := env.seedRestaurant(t)
	diner, dinerUser := env.seedUser(t, shared.RoleClient)
	id := env.publishDeal(t, restaurant, time.Hour)

	receipt, err := env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 3}}})
	require.NoError(t, err)

	assert.ErrorIs(t, env.deals.CancelDeal(ctx, diner, id), shared.ErrForbidden)
	require.NoError(t, env.deals.CancelDeal(ctx, restaurant, id))

	d, err := env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.StatusCancelled, d.Status)

	c, err := env.repos.Claims.GetByID(ctx, receipt.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.ClaimCancelled, c.Status)
	assert.Equal(t, 1, countType(env.inbox(t, dinerUser.ID), notification.TypeSystem))

	assert.ErrorIs(t, env.deals.CancelDeal(ctx, restaurant, id), shared.ErrInvalidState)

	_, err = env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 1}}})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestExpireDeals(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, _ := env.seedRestaurant(t)
	diner, _ := env.seedUser(t, shared.RoleClient)
	id := env.publishDeal(t, restaurant, time.Hour)

	pending, err := env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 1}}})
	require.NoError(t, err)
	confirmed, err := env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: id, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 1}}})
	require.NoError(t, err)
	require.NoError(t, env.deals.ConfirmClaim(ctx, restaurant, confirmed.ClaimID))

	result, err := env.sweeps.ExpireDeals(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)

	env.clock.Advance(time.Hour)
	result, err = env.sweeps.ExpireDeals(ctx)
	require.NoError(t, err)
	assert.Equal(t, inbound.SweepResult{Processed: 1}, result)

	d, err := env.repos.Deals.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.StatusExpired, d.Status)

	c, err := env.repos.Claims.GetByID(ctx, pending.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.ClaimExpired, c.Status)
	c, err = env.repos.Claims.GetByID(ctx, confirmed.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, flashdeal.ClaimConfirmed, c.Status)

	result, err = env.sweeps.ExpireDeals(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)

	t.Run("a failing deal does not hold back the others", func(t *testing.T) {
		claims := &brokenClaims{}
		env := newTestEnv(t, func(s *outbound.Store) {
			claims.ClaimRepository = s.Claims
			s.Claims = claims
		})
		restaurant, _ := env.seedRestaurant(t)
		broken := env.publishDeal(t, restaurant, time.Hour)
		healthy := env.publishDeal(t, restaurant, time.Hour)
		claims.dealID = broken

		env.clock.Advance(time.Hour)
		result, err := env.sweeps.ExpireDeals(ctx)
		require.NoError(t, err)
		assert.Equal(t, inbound.SweepResult{Processed: 1, Failed: 1}, result)

		d, err := env.repos.Deals.GetByID(ctx, healthy)
		require.NoError(t, err)
		assert.Equal(t, flashdeal.StatusExpired, d.Status)

		// left active so the next run tries again
		d, err = env.repos.Deals.GetByID(ctx, broken)
		require.NoError(t, err)
		assert.Equal(t, flashdeal.StatusActive, d.Status)

		claims.dealID = uuid.Nil
		result, err = env.sweeps.ExpireDeals(ctx)
		require.NoError(t, err)
		assert.Equal(t, inbound.SweepResult{Processed: 1}, result)
	})
}

func TestFlashDealQueries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	restaurant, restaurantUser := env.seedRestaurant(t)
	diner, _ := env.seedUser(t, shared.RoleClient)
	late := env.publishDeal(t, restaurant, 3*time.Hour)
	soon := env.publishDeal(t, restaurant, time.Hour)

	picked, err := env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: soon, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 2}}})
	require.NoError(t, err)
	require.NoError(t, env.deals.MarkAsPickedUp(ctx, restaurant, inbound.PickupRequest{ClaimID: picked.ClaimID, PickupCode: picked.PickupCode}))
	waiting, err := env.deals.ClaimDeal(ctx, diner, inbound.ClaimDealRequest{DealID: soon, Items: []inbound.ClaimLine{{Name: "empanada", Quantity: 1}}})
	require.NoError(t, err)
	require.NoError(t, env.deals.ConfirmClaim(ctx, restaurant, waiting.ClaimID))
	require.NoError(t, env.deals.IncrementViews(ctx, soon))

	active, err := env.deals.GetActiveDeals(ctx, 0)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, soon, active[0].ID)
	assert.Equal(t, late, active[1].ID)
	require.NotNil(t, active[0].Restaurant)
	assert.Equal(t, "La Esquina", active[0].Restaurant.Name)
	assert.Equal(t, time.Hour.Milliseconds(), active[0].TimeRemainingMs)

	limited, err := env.deals.GetActiveDeals(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	nearby, err := env.deals.GetNearbyDeals(ctx, inbound.NearbyRequest{Lat: bogotaLat, Lng: bogotaLng + 0.02})
	require.NoError(t, err)
	assert.Len(t, nearby, 2)
	far, err := env.deals.GetNearbyDeals(ctx, inbound.NearbyRequest{Lat: 6.2442, Lng: -75.5812})
	require.NoError(t, err)
	assert.Empty(t, far)

	detail, err := env.deals.GetDeal(ctx, soon)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.ConfirmedClaims)
	assert.Equal(t, 1, detail.ViewCount)
	require.NotNil(t, detail.Restaurant)
	assert.Equal(t, restaurantUser.Phone, detail.Restaurant.Phone)

	_, err = env.deals.GetDeal(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	mine, err := env.deals.GetMyDeals(ctx, restaurant)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	var stats inbound.DealStats
	for _, m := range mine {
		if m.ID == soon {
			stats = m.Stats
		}
	}
	assert.Equal(t, inbound.DealStats{TotalClaims: 2, ConfirmedClaims: 1, PickedUpClaims: 1, Revenue: 5000}, stats)

	_, err = env.deals.GetMyDeals(ctx, diner)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	claims, err := env.deals.GetMyClaims(ctx, diner)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	require.NotNil(t, claims[0].Deal)
	assert.Equal(t, "Evening empanadas", claims[0].Deal.Title)
	require.NotNil(t, claims[0].Restaurant)
	assert.NotNil(t, claims[0].Restaurant.Location)
}
