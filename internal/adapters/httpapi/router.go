package httpapi

import (
	"net/http"

	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LiveFeed upgrades an authenticated request into a push connection
type LiveFeed interface {
	Connect(w http.ResponseWriter, r *http.Request, principal *shared.Principal)
}

type RouterParams struct {
	AuctionService   inbound.AuctionService
	FlashDealService inbound.FlashDealService
	PaymentService   inbound.PaymentService
	UserService      inbound.UserService
	Identity         outbound.IdentityProvider
	// LiveFeed is optional; /ws is only mounted when set
	LiveFeed       LiveFeed
	AllowedOrigins []string
	Logger         zerolog.Logger
}

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// NewRouter builds the REST API
func NewRouter(params RouterParams) *gin.Engine {
	engine := gin.New()
	engine.Use(Recovery(params.Logger))
	engine.Use(CORS(params.AllowedOrigins))
	engine.Use(AccessLog(params.Logger))

	auctions := NewAuctionHandler(params.AuctionService)
	deals := NewFlashDealHandler(params.FlashDealService)
	payments := NewPaymentHandler(params.PaymentService)
	users := NewUserHandler(params.UserService)
	auth := RequireAuth(params.Identity)

	engine.GET("/health", healthCheck)

	if params.LiveFeed != nil {
		feed := params.LiveFeed
		engine.GET("/ws", auth, func(c *gin.Context) {
			feed.Connect(c.Writer, c.Request, principalFrom(c))
		})
	}

	api := engine.Group("/api/v1")

	// listings are public
	addRoutes(api, []route{
		{http.MethodGet, "/auctions", auctions.ListActive},
		{http.MethodGet, "/auctions/nearby", auctions.ListNearby},
		{http.MethodGet, "/auctions/:id", auctions.GetAuction},
		{http.MethodPost, "/auctions/:id/views", auctions.IncrementViews},
		{http.MethodGet, "/deals", deals.ListActive},
		{http.MethodGet, "/deals/nearby", deals.ListNearby},
		{http.MethodGet, "/deals/:id", deals.GetDeal},
		{http.MethodPost, "/deals/:id/views", deals.IncrementViews},
	})

	authed := api.Group("")
	authed.Use(auth)
	addRoutes(authed, []route{
		{http.MethodGet, "/me", users.Me},
		{http.MethodPut, "/me", users.SyncProfile},
		{http.MethodGet, "/me/notifications", users.ListNotifications},
		{http.MethodPost, "/me/notifications/:id/read", users.MarkRead},

		{http.MethodPost, "/auctions", auctions.CreateAuction},
		{http.MethodGet, "/me/auctions", auctions.ListMine},
		{http.MethodGet, "/me/bids", auctions.ListMyBids},
		{http.MethodPost, "/auctions/:id/bids", auctions.PlaceBid},
		{http.MethodPost, "/auctions/:id/winner", auctions.SelectWinner},
		{http.MethodPost, "/auctions/:id/cancel", auctions.CancelAuction},

		{http.MethodPost, "/deals", deals.CreateDeal},
		{http.MethodGet, "/me/deals", deals.ListMine},
		{http.MethodGet, "/me/claims", deals.ListMyClaims},
		{http.MethodPost, "/deals/:id/claims", deals.ClaimDeal},
		{http.MethodPost, "/deals/:id/cancel", deals.CancelDeal},
		{http.MethodPost, "/claims/:id/confirm", deals.ConfirmClaim},
		{http.MethodPost, "/claims/:id/pickup", deals.PickUp},

		{http.MethodPost, "/payment-methods", payments.AddMethod},
		{http.MethodGet, "/payment-methods", payments.ListMethods},
		{http.MethodPost, "/payment-methods/:id/default", payments.SetDefault},
		{http.MethodDelete, "/payment-methods/:id", payments.DeleteMethod},
		{http.MethodPost, "/payments", payments.ProcessPayment},
		{http.MethodGet, "/payments/stats", payments.Stats},
		{http.MethodGet, "/transactions", payments.ListTransactions},
		{http.MethodPost, "/transactions/:id/refund", payments.RequestRefund},
	})

	return engine
}

func addRoutes(group *gin.RouterGroup, routes []route) {
	for _, r := range routes {
		group.Handle(r.Method, r.Path, r.Handler)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "marketplace-engine"})
}
