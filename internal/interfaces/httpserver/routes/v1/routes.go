package v1

import (
	"github.com/gin-gonic/gin"

	"aistore-server/services/storefront-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	// storefront
	group.GET("/products", r.handlers.Products.List)
	group.GET("/products/:id", r.handlers.Products.Get)
	group.POST("/checkout", r.handlers.Orders.Checkout)
	group.POST("/chat", r.handlers.Chat.Converse)
	group.POST("/chat/send", r.handlers.Chat.Send)
	group.GET("/chat/send", r.handlers.Chat.Messages)
	group.GET("/chat/messages", r.handlers.Chat.Messages)
	group.POST("/subscribers", r.handlers.Subscribers.Subscribe)
	group.POST("/subscribers/unsubscribe", r.handlers.Subscribers.Unsubscribe)
	group.DELETE("/subscribers", r.handlers.Subscribers.Unsubscribe)

	// owner dashboard
	group.POST("/products", r.handlers.Products.Create)
	group.PATCH("/products/:id", r.handlers.Products.Update)
	group.DELETE("/products/:id", r.handlers.Products.Delete)
	group.GET("/orders", r.handlers.Orders.List)
	group.POST("/orders", r.handlers.Orders.Checkout)
	group.GET("/orders/:id", r.handlers.Orders.Get)
	group.PATCH("/orders/:id", r.handlers.Orders.Update)
	group.GET("/approvals", r.handlers.Orders.Approvals)
	group.POST("/approvals/:id/decision", r.handlers.Orders.Decide)
	group.GET("/settings", r.handlers.Settings.Get)
	group.PUT("/settings", r.handlers.Settings.Update)
	group.GET("/subscribers", r.handlers.Subscribers.List)
	group.GET("/chat/conversations", r.handlers.Chat.Conversations)
	group.GET("/chat/conversations/:id", r.handlers.Chat.Thread)
	group.POST("/chat/reply", r.handlers.Chat.Reply)
}
