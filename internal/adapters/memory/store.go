package memory

import (
	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/job"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/outbound"
)

// Store holds every collection of the marketplace in process memory
type Store struct {
	auctions      *table[auction.Auction]
	bids          *table[bid.Bid]
	jobs          *table[job.Job]
	users         *table[shared.User]
	deals         *table[flashdeal.Deal]
	claims        *table[flashdeal.Claim]
	notifications *table[notification.Notification]
	broadcasts    *table[notification.Broadcast]
	methods       *table[payment.Method]
	transactions  *table[payment.Transaction]
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		auctions:      newTable(cloneAuction),
		bids:          newTable(cloneBid),
		jobs:          newTable(cloneJob),
		users:         newTable(cloneUser),
		deals:         newTable(cloneDeal),
		claims:        newTable(cloneClaim),
		notifications: newTable(cloneNotification),
		broadcasts:    newTable(cloneBroadcast),
		methods:       newTable(cloneMethod),
		transactions:  newTable(cloneTransaction),
	}
}

// Repositories exposes the store through the outbound ports
func (s *Store) Repositories() outbound.Store {
	return outbound.Store{
		Auctions:       &AuctionRepository{t: s.auctions},
		Bids:           &BidRepository{t: s.bids},
		Jobs:           &JobRepository{t: s.jobs},
		Users:          &UserRepository{t: s.users},
		Deals:          &FlashDealRepository{t: s.deals},
		Claims:         &ClaimRepository{t: s.claims},
		Notifications:  &NotificationRepository{t: s.notifications},
		Broadcasts:     &BroadcastRepository{t: s.broadcasts},
		PaymentMethods: &PaymentMethodRepository{t: s.methods},
		Transactions:   &TransactionRepository{t: s.transactions},
	}
}
