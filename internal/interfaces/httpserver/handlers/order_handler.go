package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/requests"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/responses"
)

// OrderHandler exposes checkout and the dashboard order workflow.
type OrderHandler struct {
	service *order.Service
	log     zerolog.Logger
}

func NewOrderHandler(service *order.Service, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With().Str("component", "order-handler").Logger(),
	}
}

// Checkout places an order directly from the storefront.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req requests.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placed, err := h.service.CreateInvoice(c.Request.Context(), order.InvoiceRequest{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
		PaymentMethod:   req.PaymentMethod,
		Customer:        req.Customer,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to place order")
		return
	}
	c.JSON(http.StatusCreated, placed)
}

func (h *OrderHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.service.List(c.Request.Context())})
}

func (h *OrderHandler) Get(c *gin.Context) {
	ord, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get order")
		return
	}
	c.JSON(http.StatusOK, ord)
}

// Update applies a partial dashboard mutation: status, payment, courier.
func (h *OrderHandler) Update(c *gin.Context) {
	var update order.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ord, err := h.service.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		responses.HandleError(c, err, "failed to update order")
		return
	}
	c.JSON(http.StatusOK, ord)
}

// Approvals lists orders awaiting an owner decision.
func (h *OrderHandler) Approvals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"approvals": h.service.PendingApprovals(c.Request.Context())})
}

// Decide resolves one approval.
func (h *OrderHandler) Decide(c *gin.Context) {
	var req requests.ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// approval ids are derived from order ids with an APR- prefix
	orderID := strings.TrimPrefix(c.Param("id"), "APR-")
	ord, err := h.service.Decide(c.Request.Context(), orderID, req.Action, req.CounterOffer, req.Notes)
	if err != nil {
		responses.HandleError(c, err, "failed to resolve approval")
		return
	}
	c.JSON(http.StatusOK, ord)
}
