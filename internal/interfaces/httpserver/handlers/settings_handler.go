package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/domain/store"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/responses"
)

// SettingsHandler exposes the dashboard settings pages.
type SettingsHandler struct {
	service *store.Service
	log     zerolog.Logger
}

func NewSettingsHandler(service *store.Service, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log.With().Str("component", "settings-handler").Logger(),
	}
}

// Get returns settings with every stored secret masked.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Masked(c.Request.Context()))
}

// Update persists settings. Masked placeholder values never overwrite the
// stored secrets they stand in for.
func (h *SettingsHandler) Update(c *gin.Context) {
	var incoming store.Settings
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Update(c.Request.Context(), incoming); err != nil {
		responses.HandleError(c, err, "failed to update settings")
		return
	}
	c.JSON(http.StatusOK, h.service.Masked(c.Request.Context()))
}
