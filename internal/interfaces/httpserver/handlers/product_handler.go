package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/requests"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/responses"
)

// ProductHandler exposes catalog endpoints.
type ProductHandler struct {
	service *catalog.Service
	log     zerolog.Logger
}

func NewProductHandler(service *catalog.Service, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log.With().Str("component", "product-handler").Logger(),
	}
}

// List returns the catalog, optionally filtered by a search query.
func (h *ProductHandler) List(c *gin.Context) {
	if query := c.Query("q"); query != "" {
		c.JSON(http.StatusOK, gin.H{"products": h.service.Search(c.Request.Context(), query)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": h.service.List(c.Request.Context())})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req requests.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.service.Create(c.Request.Context(), &catalog.Product{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		Stock:              req.Stock,
		Category:           req.Category,
		Image:              req.Image,
		MaxDiscountPercent: req.MaxDiscountPercent,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var update catalog.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.service.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		responses.HandleError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.HandleError(c, err, "failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
