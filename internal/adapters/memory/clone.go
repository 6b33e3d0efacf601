package memory

import (
	"maps"
	"slices"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/job"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"
)

func ptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneAuction(a *auction.Auction) *auction.Auction {
	c := *a
	c.CurrentBestBid = ptr(a.CurrentBestBid)
	c.WinnerID = ptr(a.WinnerID)
	c.Images = slices.Clone(a.Images)
	return &c
}

func cloneBid(b *bid.Bid) *bid.Bid {
	c := *b
	return &c
}

func cloneJob(j *job.Job) *job.Job {
	c := *j
	c.AuctionID = ptr(j.AuctionID)
	return &c
}

func cloneUser(u *shared.User) *shared.User {
	c := *u
	c.Location = ptr(u.Location)
	c.Categories = slices.Clone(u.Categories)
	c.Rating = ptr(u.Rating)
	if u.RestaurantInfo != nil {
		info := *u.RestaurantInfo
		info.Cuisine = slices.Clone(u.RestaurantInfo.Cuisine)
		c.RestaurantInfo = &info
	}
	return &c
}

func cloneDeal(d *flashdeal.Deal) *flashdeal.Deal {
	c := *d
	c.Items = make([]flashdeal.Item, len(d.Items))
	for i, it := range d.Items {
		it.Quantity = ptr(it.Quantity)
		c.Items[i] = it
	}
	c.PushNotificationSentAt = ptr(d.PushNotificationSentAt)
	return &c
}

func cloneClaim(cl *flashdeal.Claim) *flashdeal.Claim {
	c := *cl
	c.Items = slices.Clone(cl.Items)
	c.ConfirmedAt = ptr(cl.ConfirmedAt)
	c.PickedUpAt = ptr(cl.PickedUpAt)
	return &c
}

func cloneNotification(n *notification.Notification) *notification.Notification {
	c := *n
	c.Data = maps.Clone(n.Data)
	c.DispatchedAt = ptr(n.DispatchedAt)
	return &c
}

func cloneBroadcast(b *notification.Broadcast) *notification.Broadcast {
	c := *b
	c.Data = maps.Clone(b.Data)
	return &c
}

func cloneMethod(m *payment.Method) *payment.Method {
	c := *m
	return &c
}

func cloneTransaction(t *payment.Transaction) *payment.Transaction {
	c := *t
	c.JobID = ptr(t.JobID)
	c.AuctionID = ptr(t.AuctionID)
	c.FlashDealClaimID = ptr(t.FlashDealClaimID)
	c.RefundOf = ptr(t.RefundOf)
	return &c
}
