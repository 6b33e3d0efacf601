package outbound

import (
	"context"
	"time"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/job"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// AuctionRepository defines the interface for auction documents
type AuctionRepository interface {
	// Create stores a new auction at version 1
	Create(ctx context.Context, auction *auction.Auction) error

	// GetByID retrieves an auction by ID
	GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error)

	// Update replaces the auction if its stored version still equals
	// auction.Version, then bumps auction.Version. Fails with shared.ErrConflict otherwise.
	Update(ctx context.Context, auction *auction.Auction) error

	// ListByStatus retrieves auctions in the given status
	ListByStatus(ctx context.Context, status auction.Status) ([]*auction.Auction, error)

	// ListByClient retrieves the auctions created by a client
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*auction.Auction, error)
}

// BidRepository defines the interface for bid documents
type BidRepository interface {
	// Create creates a new bid
	Create(ctx context.Context, bid *bid.Bid) error

	// Update updates a bid
	Update(ctx context.Context, bid *bid.Bid) error

	// FindActive returns the bidder's active bid on an auction, or nil when there is none
	FindActive(ctx context.Context, auctionID, bidderID uuid.UUID) (*bid.Bid, error)

	// ListByAuction retrieves all bids for an auction
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error)

	// ListByBidder retrieves all bids placed by a user
	ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*bid.Bid, error)
}

// JobRepository defines the interface for job documents
type JobRepository interface {
	Create(ctx context.Context, job *job.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	Update(ctx context.Context, job *job.Job) error
}

// UserRepository defines the interface for user documents
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error)

	// GetByExternalID retrieves the user bound to an identity provider subject
	GetByExternalID(ctx context.Context, externalID string) (*shared.User, error)

	// Save inserts or replaces a user
	Save(ctx context.Context, user *shared.User) error

	// ListByRole retrieves users holding a role
	ListByRole(ctx context.Context, role shared.Role) ([]*shared.User, error)

	// ListReachable retrieves users with a registered push endpoint
	ListReachable(ctx context.Context) ([]*shared.User, error)
}

// FlashDealRepository defines the interface for flash deal documents
type FlashDealRepository interface {
	// Create stores a new deal at version 1
	Create(ctx context.Context, deal *flashdeal.Deal) error

	// GetByID retrieves a deal by ID
	GetByID(ctx context.Context, id uuid.UUID) (*flashdeal.Deal, error)

	// Update is a compare-and-swap on deal.Version, like AuctionRepository.Update
	Update(ctx context.Context, deal *flashdeal.Deal) error

	// ListByStatus retrieves deals in the given status
	ListByStatus(ctx context.Context, status flashdeal.Status) ([]*flashdeal.Deal, error)

	// ListByRestaurant retrieves the deals published by a restaurant
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*flashdeal.Deal, error)
}

// ClaimRepository defines the interface for claim documents
type ClaimRepository interface {
	Create(ctx context.Context, claim *flashdeal.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*flashdeal.Claim, error)
	Update(ctx context.Context, claim *flashdeal.Claim) error
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*flashdeal.Claim, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*flashdeal.Claim, error)
}

// NotificationRepository is the notification outbox
type NotificationRepository interface {
	// Append stores new notifications
	Append(ctx context.Context, notifications ...*notification.Notification) error

	// GetByID retrieves a notification by ID
	GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error)

	// ListByUser retrieves a user's notifications, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*notification.Notification, error)

	// MarkRead flips the read flag
	MarkRead(ctx context.Context, id uuid.UUID) error

	// ListUndispatched retrieves up to limit notifications not yet handed to a sink, oldest first
	ListUndispatched(ctx context.Context, limit int) ([]*notification.Notification, error)

	// MarkDispatched stamps notifications as delivered to the sink
	MarkDispatched(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// BroadcastRepository stores aggregate fan-out records
type BroadcastRepository interface {
	Create(ctx context.Context, broadcast *notification.Broadcast) error
}

// PaymentMethodRepository defines the interface for stored payment methods
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *payment.Method) error
	GetByID(ctx context.Context, id uuid.UUID) (*payment.Method, error)
	Update(ctx context.Context, method *payment.Method) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*payment.Method, error)
}

// TransactionRepository defines the interface for ledger entries
type TransactionRepository interface {
	Create(ctx context.Context, tx *payment.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error)
	Update(ctx context.Context, tx *payment.Transaction) error

	// ListByParty retrieves entries where the user is payer or receiver
	ListByParty(ctx context.Context, userID uuid.UUID) ([]*payment.Transaction, error)

	// FindRefund returns the refund companion of a payment, or nil when there is none
	FindRefund(ctx context.Context, originalID uuid.UUID) (*payment.Transaction, error)
}

// Store bundles every repository of one document store
type Store struct {
	Auctions       AuctionRepository
	Bids           BidRepository
	Jobs           JobRepository
	Users          UserRepository
	Deals          FlashDealRepository
	Claims         ClaimRepository
	Notifications  NotificationRepository
	Broadcasts     BroadcastRepository
	PaymentMethods PaymentMethodRepository
	Transactions   TransactionRepository
}
