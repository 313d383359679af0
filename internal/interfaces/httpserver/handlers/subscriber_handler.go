package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/domain/newsletter"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/requests"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/responses"
)

// SubscriberHandler exposes newsletter signup and the dashboard list.
type SubscriberHandler struct {
	service *newsletter.Service
	log     zerolog.Logger
}

func NewSubscriberHandler(service *newsletter.Service, log zerolog.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		service: service,
		log:     log.With().Str("component", "subscriber-handler").Logger(),
	}
}

func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req requests.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		responses.HandleError(c, err, "failed to subscribe")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	var req requests.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		responses.HandleError(c, err, "failed to unsubscribe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}

func (h *SubscriberHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subscribers": h.service.List(c.Request.Context())})
}
