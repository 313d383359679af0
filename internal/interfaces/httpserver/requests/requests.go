package requests

import (
	"aistore-server/services/storefront-api/internal/domain/chat"
	"aistore-server/services/storefront-api/internal/domain/order"
)

// ChatRequest is one sales-agent turn from the storefront widget. The
// session id is optional; the server assigns one for anonymous visitors.
type ChatRequest struct {
	SessionID string      `json:"sessionId"`
	Message   string      `json:"message" binding:"required"`
	History   []chat.Turn `json:"conversationHistory"`
}

// SupportMessageRequest is a customer message to the owner inbox.
type SupportMessageRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message" binding:"required"`
}

// SupportReplyRequest is an owner reply from the dashboard.
type SupportReplyRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

// CheckoutRequest is a direct storefront checkout, bypassing the agent.
type CheckoutRequest struct {
	ProductID       string             `json:"productId" binding:"required"`
	Quantity        int                `json:"quantity"`
	DiscountPercent int                `json:"discountPercent"`
	PaymentMethod   string             `json:"paymentMethod"`
	Customer        order.CustomerInfo `json:"customerInfo" binding:"required"`
}

// CreateProductRequest adds a catalog entry from the dashboard.
type CreateProductRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	Price              int    `json:"price" binding:"required"`
	Stock              int    `json:"stock"`
	Category           string `json:"category"`
	Image              string `json:"image"`
	MaxDiscountPercent int    `json:"maxDiscount"`
}

// ApprovalDecisionRequest resolves a pending approval.
type ApprovalDecisionRequest struct {
	Action       string `json:"action" binding:"required"` // approve or reject
	CounterOffer string `json:"counterOffer"`
	Notes        string `json:"notes"`
}

// SubscribeRequest adds or reactivates a newsletter subscriber.
type SubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}
