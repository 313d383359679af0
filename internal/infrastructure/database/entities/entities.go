package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Product is a catalog row.
type Product struct {
	ID                 string `gorm:"primaryKey"`
	Name               string `gorm:"not null;index"`
	Description        string
	Price              int    `gorm:"not null"`
	Currency           string `gorm:"size:8;default:BDT"`
	Stock              int    `gorm:"not null;default:0"`
	Category           string `gorm:"index"`
	Image              string
	MaxDiscountPercent int `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Product) TableName() string { return "products" }

// Order is the order header. Customer details are denormalized onto the
// order as a snapshot of what was collected at purchase time.
type Order struct {
	ID              string `gorm:"primaryKey"`
	Status          string `gorm:"not null;index"`
	TotalAmount     int    `gorm:"not null"`
	DiscountAmount  int    `gorm:"not null;default:0"`
	FinalAmount     int    `gorm:"not null"`
	PaymentMethod   string `gorm:"size:32"`
	PaymentStatus   string `gorm:"size:32"`
	TrackingNumber  string
	CourierName     string
	OwnerNotes      string
	CounterOffer    string
	CustomerName    string
	CustomerPhone   string `gorm:"index"`
	CustomerEmail   string
	CustomerAddress string
	CustomerCity    string
	CustomerArea    string
	CustomerNotes   string
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
	ApprovedAt      *time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order with the prices frozen at purchase time.
type OrderItem struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	OrderID         string `gorm:"not null;index"`
	ProductID       string `gorm:"not null;index"`
	ProductName     string `gorm:"not null"`
	Quantity        int    `gorm:"not null"`
	OriginalPrice   int    `gorm:"not null"`
	FinalPrice      int    `gorm:"not null"`
	DiscountPercent int    `gorm:"not null;default:0"`
}

func (OrderItem) TableName() string { return "order_items" }

// Customer is the dedupe record behind orders, keyed by phone number.
type Customer struct {
	Phone      string `gorm:"primaryKey;size:32"`
	Name       string
	Email      string
	Address    string
	City       string
	Area       string
	OrderCount int `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Customer) TableName() string { return "customers" }

// Setting is one key of the store's key/value configuration. Values are
// whole JSON documents, one per settings section.
type Setting struct {
	Key       string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (Setting) TableName() string { return "settings" }

// Subscriber is a newsletter signup.
type Subscriber struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Status       string `gorm:"size:16;not null;index"`
	SubscribedAt time.Time
	UpdatedAt    time.Time
}

func (Subscriber) TableName() string { return "subscribers" }

// Conversation is a support inbox thread.
type Conversation struct {
	ID            string `gorm:"primaryKey"`
	SessionID     string `gorm:"uniqueIndex;not null"`
	CustomerName  string
	CustomerEmail string
	Status        string `gorm:"size:16;not null;index"`
	UnreadCount   int    `gorm:"not null;default:0"`
	LastMessageAt time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Conversation) TableName() string { return "conversations" }

// ChatMessage is one stored inbox message.
type ChatMessage struct {
	ID             string `gorm:"primaryKey"`
	ConversationID string `gorm:"not null;index"`
	Role           string `gorm:"size:16;not null"`
	Content        string `gorm:"not null"`
	IsRead         bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"index"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

// ChatSession is the sales agent's per-session memory.
type ChatSession struct {
	ID                  string         `gorm:"primaryKey"`
	SessionID           string         `gorm:"uniqueIndex;not null"`
	Preferences         datatypes.JSON `gorm:"default:'{}'"`
	NegotiatedDiscounts datatypes.JSON `gorm:"default:'{}'"`
	LastProductViewed   string
	CreatedAt           time.Time
	UpdatedAt           time.Time `gorm:"index"`
}

func (ChatSession) TableName() string { return "chat_sessions" }
