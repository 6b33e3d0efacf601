package httpapi

import (
	"net/http"

	"marketplace-engine/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuctionHandler struct {
	auctions inbound.AuctionService
}

func NewAuctionHandler(auctions inbound.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctions: auctions}
}

type placeBidBody struct {
	Amount        float64 `json:"amount"`
	Message       string  `json:"message,omitempty"`
	EstimatedTime string  `json:"estimated_time,omitempty"`
}

type selectWinnerBody struct {
	WinnerID uuid.UUID `json:"winner_id"`
}

// CreateAuction handles POST /auctions
func (h *AuctionHandler) CreateAuction(c *gin.Context) {
	var req inbound.CreateAuctionRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.auctions.CreateAuction(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"auction_id": id})
}

// PlaceBid handles POST /auctions/:id/bids
func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body placeBidBody
	if !bindJSON(c, &body) {
		return
	}
	b, err := h.auctions.PlaceBid(c.Request.Context(), principalFrom(c), inbound.PlaceBidRequest{
		AuctionID:     auctionID,
		Amount:        body.Amount,
		Message:       body.Message,
		EstimatedTime: body.EstimatedTime,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// SelectWinner handles POST /auctions/:id/winner
func (h *AuctionHandler) SelectWinner(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body selectWinnerBody
	if !bindJSON(c, &body) {
		return
	}
	jobID, err := h.auctions.SelectWinner(c.Request.Context(), principalFrom(c), inbound.SelectWinnerRequest{
		AuctionID: auctionID,
		WinnerID:  body.WinnerID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": jobID})
}

// CancelAuction handles POST /auctions/:id/cancel
func (h *AuctionHandler) CancelAuction(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.auctions.CancelAuction(c.Request.Context(), principalFrom(c), auctionID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IncrementViews handles POST /auctions/:id/views
func (h *AuctionHandler) IncrementViews(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.auctions.IncrementViews(c.Request.Context(), auctionID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListActive handles GET /auctions
func (h *AuctionHandler) ListActive(c *gin.Context) {
	listings, err := h.auctions.GetActiveAuctions(c.Request.Context(), inbound.ListAuctionsRequest{
		Category: c.Query("category"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": listings, "count": len(listings)})
}

// ListNearby handles GET /auctions/nearby
func (h *AuctionHandler) ListNearby(c *gin.Context) {
	lat, lng, radius, ok := nearbyQuery(c)
	if !ok {
		return
	}
	nearby, err := h.auctions.GetNearbyAuctions(c.Request.Context(), inbound.NearbyRequest{Lat: lat, Lng: lng, RadiusKm: radius})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": nearby, "count": len(nearby)})
}

// GetAuction handles GET /auctions/:id
func (h *AuctionHandler) GetAuction(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.auctions.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListMine handles GET /auctions/mine
func (h *AuctionHandler) ListMine(c *gin.Context) {
	mine, err := h.auctions.GetMyAuctions(c.Request.Context(), principalFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": mine, "count": len(mine)})
}

// ListMyBids handles GET /bids/mine
func (h *AuctionHandler) ListMyBids(c *gin.Context) {
	bids, err := h.auctions.GetMyBids(c.Request.Context(), principalFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": bids, "count": len(bids)})
}
