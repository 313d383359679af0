package order

import (
	"context"
	"time"
)

// OrderStatus tracks an order through the owner-approval sales funnel.
type OrderStatus string

const (
	StatusPendingApproval  OrderStatus = "pending_approval"
	StatusApproved         OrderStatus = "approved"
	StatusInfoCollected    OrderStatus = "info_collected"
	StatusPaymentPending   OrderStatus = "payment_pending"
	StatusPaid             OrderStatus = "paid"
	StatusShippingPending  OrderStatus = "shipping_pending"
	StatusShippingApproved OrderStatus = "shipping_approved"
	StatusShipped          OrderStatus = "shipped"
	StatusDelivered        OrderStatus = "delivered"
	StatusCancelled        OrderStatus = "cancelled"
	StatusRejected         OrderStatus = "rejected"
)

// PaymentMethod values accepted at checkout.
const (
	PaymentCOD    = "cod"
	PaymentBkash  = "bkash"
	PaymentStripe = "stripe"
	PaymentPaypal = "paypal"
)

// Order is an immutable record of a confirmed deal, created once per
// completed sales conversation and advanced only through the approval
// workflow.
type Order struct {
	ID             string        `json:"id"`
	Items          []Item        `json:"items"`
	TotalAmount    int           `json:"totalAmount"`
	DiscountAmount int           `json:"discountAmount"`
	FinalAmount    int           `json:"finalAmount"`
	Status         OrderStatus   `json:"status"`
	Customer       *CustomerInfo `json:"customerInfo,omitempty"`
	PaymentMethod  string        `json:"paymentMethod,omitempty"`
	PaymentStatus  string        `json:"paymentStatus,omitempty"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
	CourierName    string        `json:"courierName,omitempty"`
	OwnerNotes     string        `json:"ownerNotes,omitempty"`
	CounterOffer   string        `json:"counterOffer,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	ApprovedAt     *time.Time    `json:"approvedAt,omitempty"`
	PaidAt         *time.Time    `json:"paidAt,omitempty"`
	ShippedAt      *time.Time    `json:"shippedAt,omitempty"`
}

// Item is a single order line.
type Item struct {
	ProductID       string `json:"productId"`
	ProductName     string `json:"productName"`
	Quantity        int    `json:"quantity"`
	OriginalPrice   int    `json:"originalPrice"`
	FinalPrice      int    `json:"finalPrice"`
	DiscountPercent int    `json:"discountPercent"`
}

// CustomerInfo holds the delivery contact collected during checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	Area    string `json:"area,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Update carries a partial order mutation from the dashboard.
type Update struct {
	Status         *OrderStatus `json:"status"`
	PaymentStatus  *string      `json:"paymentStatus"`
	TrackingNumber *string      `json:"trackingNumber"`
	CourierName    *string      `json:"courierName"`
	OwnerNotes     *string      `json:"ownerNotes"`
	CounterOffer   *string      `json:"counterOffer"`
}

// ApprovalRequest is the dashboard view of an order awaiting an owner
// decision, derived from pending orders rather than stored separately.
type ApprovalRequest struct {
	ID              string        `json:"id"`
	OrderID         string        `json:"orderId"`
	Type            string        `json:"type"` // "deal" or "shipping"
	Summary         string        `json:"summary"`
	Items           []Item        `json:"items"`
	TotalAmount     int           `json:"totalAmount"`
	DiscountPercent int           `json:"discountPercent"`
	Customer        *CustomerInfo `json:"customerInfo,omitempty"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// Repository defines order persistence. Commit is the single atomic entry
// point for invoice creation: order, line items, customer contact and the
// stock decrement succeed or fail together.
type Repository interface {
	Commit(ctx context.Context, ord *Order) error
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, id string, update Update) (*Order, error)
	SetCustomer(ctx context.Context, id string, customer CustomerInfo) error
}
