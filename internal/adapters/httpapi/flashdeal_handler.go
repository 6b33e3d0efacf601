package httpapi

import (
	"net/http"

	"marketplace-engine/internal/ports/inbound"

	"github.com/gin-gonic/gin"
)

type FlashDealHandler struct {
	deals inbound.FlashDealService
}

func NewFlashDealHandler(deals inbound.FlashDealService) *FlashDealHandler {
	return &FlashDealHandler{deals: deals}
}

type claimBody struct {
	Items []inbound.ClaimLine `json:"items"`
}

type pickupBody struct {
	PickupCode string `json:"pickup_code"`
}

// CreateDeal handles POST /deals
func (h *FlashDealHandler) CreateDeal(c *gin.Context) {
	var req inbound.CreateFlashDealRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.deals.CreateFlashDeal(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"deal_id": id})
}

// ClaimDeal handles POST /deals/:id/claims
func (h *FlashDealHandler) ClaimDeal(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body claimBody
	if !bindJSON(c, &body) {
		return
	}
	receipt, err := h.deals.ClaimDeal(c.Request.Context(), principalFrom(c), inbound.ClaimDealRequest{DealID: dealID, Items: body.Items})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// CancelDeal handles POST /deals/:id/cancel
func (h *FlashDealHandler) CancelDeal(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deals.CancelDeal(c.Request.Context(), principalFrom(c), dealID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IncrementViews handles POST /deals/:id/views
func (h *FlashDealHandler) IncrementViews(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deals.IncrementViews(c.Request.Context(), dealID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmClaim handles POST /claims/:id/confirm
func (h *FlashDealHandler) ConfirmClaim(c *gin.Context) {
	claimID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deals.ConfirmClaim(c.Request.Context(), principalFrom(c), claimID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PickUp handles POST /claims/:id/pickup
func (h *FlashDealHandler) PickUp(c *gin.Context) {
	claimID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body pickupBody
	if !bindJSON(c, &body) {
		return
	}
	err := h.deals.MarkAsPickedUp(c.Request.Context(), principalFrom(c), inbound.PickupRequest{ClaimID: claimID, PickupCode: body.PickupCode})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListActive handles GET /deals
func (h *FlashDealHandler) ListActive(c *gin.Context) {
	deals, err := h.deals.GetActiveDeals(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deals": deals, "count": len(deals)})
}

// ListNearby handles GET /deals/nearby
func (h *FlashDealHandler) ListNearby(c *gin.Context) {
	lat, lng, radius, ok := nearbyQuery(c)
	if !ok {
		return
	}
	deals, err := h.deals.GetNearbyDeals(c.Request.Context(), inbound.NearbyRequest{Lat: lat, Lng: lng, RadiusKm: radius})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deals": deals, "count": len(deals)})
}

// GetDeal handles GET /deals/:id
func (h *FlashDealHandler) GetDeal(c *gin.Context) {
	dealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.deals.GetDeal(c.Request.Context(), dealID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListMine handles GET /deals/mine
func (h *FlashDealHandler) ListMine(c *gin.Context) {
	deals, err := h.deals.GetMyDeals(c.Request.Context(), principalFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deals": deals, "count": len(deals)})
}

// ListMyClaims handles GET /claims/mine
func (h *FlashDealHandler) ListMyClaims(c *gin.Context) {
	claims, err := h.deals.GetMyClaims(c.Request.Context(), principalFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": claims, "count": len(claims)})
}
