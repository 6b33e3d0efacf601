package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/job"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"
)

func (env *testEnv) openAuction(t *testing.T, client *shared.Principal, typ auction.Type) uuid.UUID {
	t.Helper()
	id, err := env.auctions.CreateAuction(context.Background(), client, inbound.CreateAuctionRequest{
		Title:        "Fix kitchen sink",
		Category:     "plumbing",
		InitialOffer: shared.Money{Amount: 100000, Currency: "COP"},
		Location:     shared.Location{Lat: 4.711, Lng: -74.0721},
		Type:         typ,
	})
	require.NoError(t, err)
	return id
}

func TestCreateAuction(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, clientUser := env.seedUser(t, shared.RoleClient)
	_, matched := env.seedUser(t, shared.RoleHandyman, withPush, func(u *shared.User) { u.Categories = []string{"plumbing"} })
	_, other := env.seedUser(t, shared.RoleHandyman, withPush, func(u *shared.User) { u.Categories = []string{"painting"} })

	id := env.openAuction(t, client, "")

	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, auction.StatusActive, a.Status)
	assert.Equal(t, auction.TypeReverse, a.Config.Type)
	assert.Equal(t, clientUser.ID, a.ClientID)
	assert.Equal(t, env.clock.Now().Add(24*time.Hour), a.Config.EndTime)
	assert.Equal(t, 5, a.Config.AutoExtendMinutes)
	assert.Nil(t, a.CurrentBestBid)

	assert.Equal(t, 1, countType(env.inbox(t, matched.ID), notification.TypeJobMatch))
	assert.Empty(t, env.inbox(t, other.ID))
}

func TestCreateAuctionValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)

	valid := inbound.CreateAuctionRequest{
		Title:        "Paint the fence",
		Category:     "painting",
		InitialOffer: shared.Money{Amount: 50000},
	}

	tests := []struct {
		name   string
		mutate func(*inbound.CreateAuctionRequest)
		want   error
	}{
		{"zero offer", func(r *inbound.CreateAuctionRequest) { r.InitialOffer.Amount = 0 }, shared.ErrInvalidArgument},
		{"negative duration", func(r *inbound.CreateAuctionRequest) { r.DurationHours = ptr(-1.0) }, shared.ErrInvalidArgument},
		{"missing title", func(r *inbound.CreateAuctionRequest) { r.Title = " " }, shared.ErrInvalidArgument},
		{"unknown type", func(r *inbound.CreateAuctionRequest) { r.Type = "dutch" }, shared.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := env.auctions.CreateAuction(ctx, client, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := env.auctions.CreateAuction(ctx, &shared.Principal{Subject: "stranger"}, valid)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)

	id, err := env.auctions.CreateAuction(ctx, client, inbound.CreateAuctionRequest{
		Title: "Quick", Category: "painting", InitialOffer: shared.Money{Amount: 10}, DurationHours: ptr(0.0),
	})
	require.NoError(t, err)
	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "COP", a.InitialOffer.Currency)
	assert.Equal(t, env.clock.Now().Add(24*time.Hour), a.Config.EndTime)
}

func TestPlaceBidReverseAuction(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, clientUser := env.seedUser(t, shared.RoleClient)
	first, firstUser := env.seedUser(t, shared.RoleHandyman)
	second, secondUser := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeReverse)

	_, err := env.auctions.PlaceBid(ctx, first, inbound.PlaceBidRequest{AuctionID: id, Amount: 120000})
	var bidErr *shared.BidError
	require.ErrorAs(t, err, &bidErr)
	assert.Equal(t, 100000.0, bidErr.Bound)
	assert.False(t, bidErr.Ascending)

	placed, err := env.auctions.PlaceBid(ctx, first, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000, Message: "today"})
	require.NoError(t, err)
	assert.Equal(t, bid.StatusActive, placed.Status)
	assert.Equal(t, "COP", placed.Currency)

	_, err = env.auctions.PlaceBid(ctx, second, inbound.PlaceBidRequest{AuctionID: id, Amount: 95000})
	require.ErrorIs(t, err, shared.ErrInvalidBid)

	_, err = env.auctions.PlaceBid(ctx, second, inbound.PlaceBidRequest{AuctionID: id, Amount: 80000})
	require.NoError(t, err)

	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, a.CurrentBestBid)
	assert.Equal(t, 80000.0, a.CurrentBestBid.Amount)
	assert.Equal(t, secondUser.ID, a.CurrentBestBid.BidderID)
	assert.Equal(t, 2, a.TotalBids)

	assert.Equal(t, 1, countType(env.inbox(t, firstUser.ID), notification.TypeAuctionOutbid))
	assert.Equal(t, 2, countType(env.inbox(t, clientUser.ID), notification.TypeAuctionNewBid))
}

func TestPlaceBidMatchingBestIsRejected(t *testing.T) {
	tests := []struct {
		name    string
		typ     auction.Type
		leading float64
	}{
		{name: "reverse auction", typ: auction.TypeReverse, leading: 90000},
		{name: "standard auction", typ: auction.TypeStandard, leading: 110000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			client, _ := env.seedUser(t, shared.RoleClient)
			leader, leaderUser := env.seedUser(t, shared.RoleHandyman)
			challenger, _ := env.seedUser(t, shared.RoleHandyman)
			id := env.openAuction(t, client, tt.typ)

			// matching the opening offer does not improve on it either
			_, err := env.auctions.PlaceBid(ctx, challenger, inbound.PlaceBidRequest{AuctionID: id, Amount: 100000})
			require.ErrorIs(t, err, shared.ErrInvalidBid)

			_, err = env.auctions.PlaceBid(ctx, leader, inbound.PlaceBidRequest{AuctionID: id, Amount: tt.leading})
			require.NoError(t, err)

			_, err = env.auctions.PlaceBid(ctx, challenger, inbound.PlaceBidRequest{AuctionID: id, Amount: tt.leading})
			var bidErr *shared.BidError
			require.ErrorAs(t, err, &bidErr)
			assert.Equal(t, tt.leading, bidErr.Bound)
			assert.ErrorIs(t, err, shared.ErrInvalidBid)

			a, err := env.repos.Auctions.GetByID(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, a.CurrentBestBid)
			assert.Equal(t, tt.leading, a.CurrentBestBid.Amount)
			assert.Equal(t, leaderUser.ID, a.CurrentBestBid.BidderID)
			assert.Equal(t, 1, a.TotalBids)
		})
	}
}

func TestPlaceBidKeepsAuctionAndBidsInStep(t *testing.T) {
	t.Run("failed bid write leaves the auction untouched", func(t *testing.T) {
		ctx := context.Background()
		bids := &flakyBids{failures: 1}
		env := newTestEnv(t, func(s *outbound.Store) {
			bids.BidRepository = s.Bids
			s.Bids = bids
		})
		client, _ := env.seedUser(t, shared.RoleClient)
		handyman, handymanUser := env.seedUser(t, shared.RoleHandyman)
		id := env.openAuction(t, client, auction.TypeReverse)

		_, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
		require.ErrorIs(t, err, errUnavailable)

		a, err := env.repos.Auctions.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, a.CurrentBestBid)
		assert.Zero(t, a.TotalBids)

		placed, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
		require.NoError(t, err)

		a, err = env.repos.Auctions.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, a.CurrentBestBid)
		assert.Equal(t, handymanUser.ID, a.CurrentBestBid.BidderID)
		assert.Equal(t, 1, a.TotalBids)

		stored, err := env.repos.Bids.ListByAuction(ctx, id)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, placed.ID, stored[0].ID)
	})

	t.Run("version conflict retries without double counting", func(t *testing.T) {
		ctx := context.Background()
		auctions := &racedAuctions{}
		env := newTestEnv(t, func(s *outbound.Store) {
			auctions.AuctionRepository = s.Auctions
			s.Auctions = auctions
		})
		client, _ := env.seedUser(t, shared.RoleClient)
		handyman, _ := env.seedUser(t, shared.RoleHandyman)
		id := env.openAuction(t, client, auction.TypeReverse)

		auctions.conflicts = 1
		_, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
		require.NoError(t, err)

		a, err := env.repos.Auctions.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, a.TotalBids)
		assert.Equal(t, 90000.0, a.CurrentBestBid.Amount)

		bids, err := env.repos.Bids.ListByAuction(ctx, id)
		require.NoError(t, err)
		assert.Len(t, bids, 1)
	})
}

func TestPlaceBidStandardAuction(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	handyman, _ := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeStandard)

	_, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	var bidErr *shared.BidError
	require.ErrorAs(t, err, &bidErr)
	assert.True(t, bidErr.Ascending)

	_, err = env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 110000})
	require.NoError(t, err)
}

func TestPlaceBidRevisesExistingBid(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	handyman, handymanUser := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeReverse)

	first, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	require.NoError(t, err)
	revised, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 85000, Message: "cheaper"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, revised.ID)
	assert.Equal(t, 85000.0, revised.Amount)

	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalBids)

	bids, err := env.repos.Bids.ListByAuction(ctx, id)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, "cheaper", bids[0].Message)

	// improving on your own best bid does not notify you
	assert.Zero(t, countType(env.inbox(t, handymanUser.ID), notification.TypeAuctionOutbid))
}

func TestPlaceBidRejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	otherClient, _ := env.seedUser(t, shared.RoleClient)
	handyman, _ := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeReverse)

	_, err := env.auctions.PlaceBid(ctx, client, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = env.auctions.PlaceBid(ctx, otherClient, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: uuid.New(), Amount: 90000})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = env.auctions.PlaceBid(ctx, nil, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)

	env.clock.Advance(25 * time.Hour)
	_, err = env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	assert.ErrorIs(t, err, shared.ErrAuctionEnded)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestPlaceBidAutoExtendsNearDeadline(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	handyman, _ := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeReverse)

	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	deadline := a.Config.EndTime

	_, err = env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 95000})
	require.NoError(t, err)
	a, err = env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, deadline, a.Config.EndTime)

	env.clock.Advance(24*time.Hour - 2*time.Minute)
	_, err = env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	require.NoError(t, err)
	a, err = env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, deadline.Add(5*time.Minute), a.Config.EndTime)
}

func TestConcurrentBidsKeepBestOffer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	id := env.openAuction(t, client, auction.TypeReverse)

	const bidders = 20
	principals := make([]*shared.Principal, bidders)
	for i := range principals {
		principals[i], _ = env.seedUser(t, shared.RoleHandyman)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := float64(99000 - i*1000)
			_, err := env.auctions.PlaceBid(ctx, principals[i], inbound.PlaceBidRequest{AuctionID: id, Amount: amount})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, shared.ErrInvalidBid, fmt.Sprintf("bidder %d", i))
		}(i)
	}
	wg.Wait()

	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, a.CurrentBestBid)
	assert.Equal(t, float64(99000-(bidders-1)*1000), a.CurrentBestBid.Amount)
	assert.Equal(t, accepted, a.TotalBids)

	bids, err := env.repos.Bids.ListByAuction(ctx, id)
	require.NoError(t, err)
	assert.Len(t, bids, accepted)
}

func TestSelectWinner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, clientUser := env.seedUser(t, shared.RoleClient)
	winner, winnerUser := env.seedUser(t, shared.RoleHandyman)
	loser, loserUser := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeReverse)

	_, err := env.auctions.PlaceBid(ctx, loser, inbound.PlaceBidRequest{AuctionID: id, Amount: 80000})
	require.NoError(t, err)
	_, err = env.auctions.PlaceBid(ctx, winner, inbound.PlaceBidRequest{AuctionID: id, Amount: 70000})
	require.NoError(t, err)

	_, err = env.auctions.SelectWinner(ctx, winner, inbound.SelectWinnerRequest{AuctionID: id, WinnerID: winnerUser.ID})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = env.auctions.SelectWinner(ctx, client, inbound.SelectWinnerRequest{AuctionID: id, WinnerID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	jobID, err := env.auctions.SelectWinner(ctx, client, inbound.SelectWinnerRequest{AuctionID: id, WinnerID: winnerUser.ID})
	require.NoError(t, err)

	j, err := env.repos.Jobs.GetByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, j.Status)
	assert.Equal(t, clientUser.ID, j.ClientID)
	assert.Equal(t, winnerUser.ID, j.HandymanID)
	assert.Equal(t, 70000.0, j.Budget.Max)
	require.NotNil(t, j.AuctionID)
	assert.Equal(t, id, *j.AuctionID)

	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, auction.StatusClosed, a.Status)
	require.NotNil(t, a.WinnerID)
	assert.Equal(t, winnerUser.ID, *a.WinnerID)

	bids, err := env.repos.Bids.ListByAuction(ctx, id)
	require.NoError(t, err)
	for _, b := range bids {
		if b.BidderID == winnerUser.ID {
			assert.Equal(t, bid.StatusWon, b.Status)
		} else {
			assert.Equal(t, bid.StatusLost, b.Status)
		}
	}

	assert.Equal(t, 1, countType(env.inbox(t, winnerUser.ID), notification.TypeAuctionWon))
	assert.Equal(t, 1, countType(env.inbox(t, loserUser.ID), notification.TypeAuctionLost))

	_, err = env.auctions.SelectWinner(ctx, client, inbound.SelectWinnerRequest{AuctionID: id, WinnerID: winnerUser.ID})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCancelAuctionWithdrawsBids(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	handyman, handymanUser := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeReverse)

	_, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	require.NoError(t, err)

	assert.ErrorIs(t, env.auctions.CancelAuction(ctx, handyman, id), shared.ErrForbidden)
	require.NoError(t, env.auctions.CancelAuction(ctx, client, id))

	a, err := env.repos.Auctions.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, auction.StatusCancelled, a.Status)

	bids, err := env.repos.Bids.ListByBidder(ctx, handymanUser.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, bid.StatusWithdrawn, bids[0].Status)
	assert.Equal(t, 1, countType(env.inbox(t, handymanUser.ID), notification.TypeSystem))

	assert.ErrorIs(t, env.auctions.CancelAuction(ctx, client, id), shared.ErrInvalidState)
}

func TestExpireAuctions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	handyman, _ := env.seedUser(t, shared.RoleHandyman)

	quiet := env.openAuction(t, client, auction.TypeReverse)
	busy := env.openAuction(t, client, auction.TypeReverse)
	_, err := env.auctions.PlaceBid(ctx, handyman, inbound.PlaceBidRequest{AuctionID: busy, Amount: 90000})
	require.NoError(t, err)

	result, err := env.sweeps.ExpireAuctions(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)

	env.clock.Advance(25 * time.Hour)
	result, err = env.sweeps.ExpireAuctions(ctx)
	require.NoError(t, err)
	assert.Equal(t, inbound.SweepResult{Processed: 1}, result)

	a, err := env.repos.Auctions.GetByID(ctx, quiet)
	require.NoError(t, err)
	assert.Equal(t, auction.StatusExpired, a.Status)
	a, err = env.repos.Auctions.GetByID(ctx, busy)
	require.NoError(t, err)
	assert.Equal(t, auction.StatusActive, a.Status)

	result, err = env.sweeps.ExpireAuctions(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
}

func TestAuctionQueries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client, _ := env.seedUser(t, shared.RoleClient)
	cheap, cheapUser := env.seedUser(t, shared.RoleHandyman, func(u *shared.User) {
		u.Rating = ptr(4.8)
		u.CompletedJobs = 12
	})
	pricey, _ := env.seedUser(t, shared.RoleHandyman)
	id := env.openAuction(t, client, auction.TypeReverse)

	_, err := env.auctions.PlaceBid(ctx, pricey, inbound.PlaceBidRequest{AuctionID: id, Amount: 90000})
	require.NoError(t, err)
	_, err = env.auctions.PlaceBid(ctx, cheap, inbound.PlaceBidRequest{AuctionID: id, Amount: 60000})
	require.NoError(t, err)
	require.NoError(t, env.auctions.IncrementViews(ctx, id))
	require.NoError(t, env.auctions.IncrementViews(ctx, uuid.New()))

	detail, err := env.auctions.GetAuction(ctx, id)
	require.NoError(t, err)
	require.Len(t, detail.Bids, 2)
	assert.Equal(t, 60000.0, detail.Bids[0].Amount)
	assert.Equal(t, cheapUser.ID, detail.Bids[0].Bidder.ID)
	require.NotNil(t, detail.Bids[0].Bidder.CompletedJobs)
	assert.Equal(t, 12, *detail.Bids[0].Bidder.CompletedJobs)
	assert.Equal(t, 1, detail.ViewCount)
	assert.Equal(t, (24 * time.Hour).Milliseconds(), detail.TimeRemainingMs)

	listings, err := env.auctions.GetActiveAuctions(ctx, inbound.ListAuctionsRequest{Category: "plumbing"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 2, listings[0].BidCount)

	listings, err = env.auctions.GetActiveAuctions(ctx, inbound.ListAuctionsRequest{Category: "gardening"})
	require.NoError(t, err)
	assert.Empty(t, listings)

	nearby, err := env.auctions.GetNearbyAuctions(ctx, inbound.NearbyRequest{Lat: 4.72, Lng: -74.07})
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Less(t, nearby[0].DistanceKm, 2.0)

	far, err := env.auctions.GetNearbyAuctions(ctx, inbound.NearbyRequest{Lat: 6.2442, Lng: -75.5812})
	require.NoError(t, err)
	assert.Empty(t, far)

	mine, err := env.auctions.GetMyAuctions(ctx, client)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	myBids, err := env.auctions.GetMyBids(ctx, cheap)
	require.NoError(t, err)
	require.Len(t, myBids, 1)
	require.NotNil(t, myBids[0].Auction)
	assert.Equal(t, "Fix kitchen sink", myBids[0].Auction.Title)
	assert.Equal(t, 60000.0, myBids[0].Auction.CurrentBestBid.Amount)
}
