package httpapi

import (
	"context"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuctionService struct{ mock.Mock }

func (m *mockAuctionService) CreateAuction(ctx context.Context, caller *shared.Principal, req inbound.CreateAuctionRequest) (uuid.UUID, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockAuctionService) PlaceBid(ctx context.Context, caller *shared.Principal, req inbound.PlaceBidRequest) (*bid.Bid, error) {
	args := m.Called(ctx, caller, req)
	b, _ := args.Get(0).(*bid.Bid)
	return b, args.Error(1)
}

func (m *mockAuctionService) SelectWinner(ctx context.Context, caller *shared.Principal, req inbound.SelectWinnerRequest) (uuid.UUID, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockAuctionService) CancelAuction(ctx context.Context, caller *shared.Principal, auctionID uuid.UUID) error {
	return m.Called(ctx, caller, auctionID).Error(0)
}

func (m *mockAuctionService) IncrementViews(ctx context.Context, auctionID uuid.UUID) error {
	return m.Called(ctx, auctionID).Error(0)
}

func (m *mockAuctionService) GetActiveAuctions(ctx context.Context, req inbound.ListAuctionsRequest) ([]*inbound.AuctionListing, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).([]*inbound.AuctionListing)
	return out, args.Error(1)
}

func (m *mockAuctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*inbound.AuctionDetail, error) {
	args := m.Called(ctx, auctionID)
	out, _ := args.Get(0).(*inbound.AuctionDetail)
	return out, args.Error(1)
}

func (m *mockAuctionService) GetNearbyAuctions(ctx context.Context, req inbound.NearbyRequest) ([]*inbound.NearbyAuction, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).([]*inbound.NearbyAuction)
	return out, args.Error(1)
}

func (m *mockAuctionService) GetMyAuctions(ctx context.Context, caller *shared.Principal) ([]*auction.Auction, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).([]*auction.Auction)
	return out, args.Error(1)
}

func (m *mockAuctionService) GetMyBids(ctx context.Context, caller *shared.Principal) ([]*inbound.MyBid, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).([]*inbound.MyBid)
	return out, args.Error(1)
}

type mockFlashDealService struct{ mock.Mock }

func (m *mockFlashDealService) CreateFlashDeal(ctx context.Context, caller *shared.Principal, req inbound.CreateFlashDealRequest) (uuid.UUID, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockFlashDealService) ClaimDeal(ctx context.Context, caller *shared.Principal, req inbound.ClaimDealRequest) (*inbound.ClaimReceipt, error) {
	args := m.Called(ctx, caller, req)
	out, _ := args.Get(0).(*inbound.ClaimReceipt)
	return out, args.Error(1)
}

func (m *mockFlashDealService) ConfirmClaim(ctx context.Context, caller *shared.Principal, claimID uuid.UUID) error {
	return m.Called(ctx, caller, claimID).Error(0)
}

func (m *mockFlashDealService) MarkAsPickedUp(ctx context.Context, caller *shared.Principal, req inbound.PickupRequest) error {
	return m.Called(ctx, caller, req).Error(0)
}

func (m *mockFlashDealService) CancelDeal(ctx context.Context, caller *shared.Principal, dealID uuid.UUID) error {
	return m.Called(ctx, caller, dealID).Error(0)
}

func (m *mockFlashDealService) IncrementViews(ctx context.Context, dealID uuid.UUID) error {
	return m.Called(ctx, dealID).Error(0)
}

func (m *mockFlashDealService) GetActiveDeals(ctx context.Context, limit int) ([]*inbound.DealListing, error) {
	args := m.Called(ctx, limit)
	out, _ := args.Get(0).([]*inbound.DealListing)
	return out, args.Error(1)
}

func (m *mockFlashDealService) GetNearbyDeals(ctx context.Context, req inbound.NearbyRequest) ([]*inbound.NearbyDeal, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).([]*inbound.NearbyDeal)
	return out, args.Error(1)
}

func (m *mockFlashDealService) GetDeal(ctx context.Context, dealID uuid.UUID) (*inbound.DealDetail, error) {
	args := m.Called(ctx, dealID)
	out, _ := args.Get(0).(*inbound.DealDetail)
	return out, args.Error(1)
}

func (m *mockFlashDealService) GetMyDeals(ctx context.Context, caller *shared.Principal) ([]*inbound.MyDeal, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).([]*inbound.MyDeal)
	return out, args.Error(1)
}

func (m *mockFlashDealService) GetMyClaims(ctx context.Context, caller *shared.Principal) ([]*inbound.MyClaim, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).([]*inbound.MyClaim)
	return out, args.Error(1)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) AddPaymentMethod(ctx context.Context, caller *shared.Principal, req inbound.AddPaymentMethodRequest) (uuid.UUID, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockPaymentService) SetDefaultPaymentMethod(ctx context.Context, caller *shared.Principal, methodID uuid.UUID) error {
	return m.Called(ctx, caller, methodID).Error(0)
}

func (m *mockPaymentService) DeletePaymentMethod(ctx context.Context, caller *shared.Principal, methodID uuid.UUID) error {
	return m.Called(ctx, caller, methodID).Error(0)
}

func (m *mockPaymentService) ListPaymentMethods(ctx context.Context, caller *shared.Principal) ([]*payment.Method, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).([]*payment.Method)
	return out, args.Error(1)
}

func (m *mockPaymentService) ProcessPayment(ctx context.Context, caller *shared.Principal, req inbound.ProcessPaymentRequest) (*payment.Transaction, error) {
	args := m.Called(ctx, caller, req)
	out, _ := args.Get(0).(*payment.Transaction)
	return out, args.Error(1)
}

func (m *mockPaymentService) RequestRefund(ctx context.Context, caller *shared.Principal, req inbound.RefundRequest) (*payment.Transaction, error) {
	args := m.Called(ctx, caller, req)
	out, _ := args.Get(0).(*payment.Transaction)
	return out, args.Error(1)
}

func (m *mockPaymentService) ListTransactions(ctx context.Context, caller *shared.Principal, limit int) ([]*payment.Transaction, error) {
	args := m.Called(ctx, caller, limit)
	out, _ := args.Get(0).([]*payment.Transaction)
	return out, args.Error(1)
}

func (m *mockPaymentService) GetPaymentStats(ctx context.Context, caller *shared.Principal) (*payment.Stats, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).(*payment.Stats)
	return out, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) SyncProfile(ctx context.Context, caller *shared.Principal, req inbound.SyncProfileRequest) (*shared.User, error) {
	args := m.Called(ctx, caller, req)
	out, _ := args.Get(0).(*shared.User)
	return out, args.Error(1)
}

func (m *mockUserService) GetProfile(ctx context.Context, caller *shared.Principal) (*shared.User, error) {
	args := m.Called(ctx, caller)
	out, _ := args.Get(0).(*shared.User)
	return out, args.Error(1)
}

func (m *mockUserService) ListNotifications(ctx context.Context, caller *shared.Principal, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, caller, unreadOnly, limit)
	out, _ := args.Get(0).([]*notification.Notification)
	return out, args.Error(1)
}

func (m *mockUserService) MarkNotificationRead(ctx context.Context, caller *shared.Principal, notificationID uuid.UUID) error {
	return m.Called(ctx, caller, notificationID).Error(0)
}

// staticIdentity accepts exactly one token
type staticIdentity struct {
	token     string
	principal *shared.Principal
}

func (s staticIdentity) Resolve(ctx context.Context, credential string) (*shared.Principal, error) {
	if credential == "" {
		return nil, shared.ErrMissingPrincipal
	}
	if credential != s.token {
		return nil, shared.ErrUnauthenticated
	}
	return s.principal, nil
}
