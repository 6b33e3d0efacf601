package db

import (
	"marketplace-engine/internal/ports/outbound"
)

// RepositoryFactory creates and manages all database repositories
type RepositoryFactory struct {
	conn *Connection
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// Repositories returns every collection bound to the connection
func (f *RepositoryFactory) Repositories() outbound.Store {
	return outbound.Store{
		Auctions:       NewAuctionRepository(f.conn),
		Bids:           NewBidRepository(f.conn),
		Jobs:           NewJobRepository(f.conn),
		Users:          NewUserRepository(f.conn),
		Deals:          NewFlashDealRepository(f.conn),
		Claims:         NewClaimRepository(f.conn),
		Notifications:  NewNotificationRepository(f.conn),
		Broadcasts:     NewBroadcastRepository(f.conn),
		PaymentMethods: NewPaymentMethodRepository(f.conn),
		Transactions:   NewTransactionRepository(f.conn),
	}
}
