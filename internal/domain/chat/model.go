package chat

import (
	"context"
	"time"

	"aistore-server/services/storefront-api/internal/domain/catalog"
)

// Turn roles. The support inbox additionally stores owner replies.
const (
	RoleCustomer  = "customer"
	RoleAssistant = "assistant"
	RoleOwner     = "owner"
	// RoleUser is accepted as an alias for customer in inbound payloads.
	RoleUser = "user"
)

// Turn is a single message in a sales conversation. History is append-only
// and ordered; conversation state is reconstructed by replaying it.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Stage classifies where a conversation sits in the sales funnel.
type Stage string

const (
	StageGreeting          Stage = "greeting"
	StageBrowsing          Stage = "browsing"
	StageProductDiscussion Stage = "product_discussion"
	StageCollectingOrder   Stage = "collecting_order"
	StageOrderConfirmed    Stage = "order_confirmed"
)

// CollectedFields holds the delivery details extracted from customer turns
// while collecting an order, in the fixed fill order name, phone, address.
type CollectedFields struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Complete reports whether every required field has been collected.
func (f CollectedFields) Complete() bool {
	return f.Name != "" && f.Phone != "" && f.Address != ""
}

// NextMissing returns the first unfilled field in fill order, or "".
func (f CollectedFields) NextMissing() string {
	switch {
	case f.Name == "":
		return "name"
	case f.Phone == "":
		return "phone"
	case f.Address == "":
		return "address"
	default:
		return ""
	}
}

// State is the derived, ephemeral conversation state. It is recomputed from
// history on every turn and never persisted as authoritative.
type State struct {
	Stage         Stage            `json:"stage"`
	ActiveProduct *catalog.Product `json:"activeProduct,omitempty"`
	Collected     CollectedFields  `json:"collectedFields"`
}

// Conversation is a support-inbox thread between a customer session and the
// store owner.
type Conversation struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Status        string    `json:"status"` // open or closed
	UnreadCount   int       `json:"unreadCount"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Message is a stored inbox message.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationSummary is the dashboard inbox row: the conversation plus its
// latest message and total count.
type ConversationSummary struct {
	Conversation
	LastMessage     string `json:"lastMessage"`
	LastMessageRole string `json:"lastMessageRole"`
	MessageCount    int    `json:"messageCount"`
}

// Session carries the per-customer agent memory that survives across chat
// requests: negotiated discounts and saved preferences.
type Session struct {
	ID                  string            `json:"id"`
	SessionID           string            `json:"sessionId"`
	Preferences         map[string]string `json:"customerPreferences"`
	NegotiatedDiscounts map[string]int    `json:"negotiatedDiscounts"`
	LastProductViewed   string            `json:"lastProductViewed,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// InboxRepository persists support conversations and their messages.
type InboxRepository interface {
	FindBySessionID(ctx context.Context, sessionID string) (*Conversation, error)
	FindByID(ctx context.Context, id string) (*Conversation, error)
	Create(ctx context.Context, conv *Conversation) error
	Update(ctx context.Context, conv *Conversation) error
	AddMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	ListSummaries(ctx context.Context) ([]ConversationSummary, error)
	TotalUnread(ctx context.Context) (int, error)
	CloseIdle(ctx context.Context, lastMessageBefore time.Time) (int64, error)
}

// SessionRepository persists agent session memory.
type SessionRepository interface {
	GetOrCreate(ctx context.Context, sessionID string) (*Session, error)
	SaveDiscount(ctx context.Context, sessionID, productID string, percent int) error
	SavePreference(ctx context.Context, sessionID, key, value string) error
	SetLastProduct(ctx context.Context, sessionID, productID string) error
	DeleteIdle(ctx context.Context, updatedBefore time.Time) (int64, error)
}
