package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/utils/idgen"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

const (
	ConversationOpen   = "open"
	ConversationClosed = "closed"
)

// Inbox is the human support channel alongside the sales agent: customers
// leave messages, owners read and reply from the dashboard.
type Inbox struct {
	repo InboxRepository
	log  zerolog.Logger
}

func NewInbox(repo InboxRepository, log zerolog.Logger) *Inbox {
	return &Inbox{repo: repo, log: log}
}

// SendCustomerMessage appends a customer message to the session's
// conversation, creating or reopening the conversation as needed.
func (i *Inbox) SendCustomerMessage(ctx context.Context, sessionID, name, email, content string) (*Conversation, error) {
	content = strings.TrimSpace(content)
	if sessionID == "" || content == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "sessionId and message are required", nil, "")
	}

	now := time.Now().UTC()
	conv, err := i.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = &Conversation{
			ID:            idgen.MustGenerateSecureID("conv", 20),
			SessionID:     sessionID,
			CustomerName:  name,
			CustomerEmail: email,
			Status:        ConversationOpen,
			CreatedAt:     now,
		}
		if err := i.repo.Create(ctx, conv); err != nil {
			return nil, err
		}
	}

	conv.Status = ConversationOpen
	conv.UnreadCount++
	conv.LastMessageAt = now
	if name != "" {
		conv.CustomerName = name
	}
	if email != "" {
		conv.CustomerEmail = email
	}
	if err := i.repo.Update(ctx, conv); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:             idgen.MustGenerateSecureID("msg", 20),
		ConversationID: conv.ID,
		Role:           RoleCustomer,
		Content:        content,
		CreatedAt:      now,
	}
	if err := i.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	return conv, nil
}

// Reply posts an owner reply and clears the conversation's unread counter.
func (i *Inbox) Reply(ctx context.Context, conversationID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "reply message is required", nil, "")
	}
	conv, err := i.repo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
	}

	now := time.Now().UTC()
	msg := &Message{
		ID:             idgen.MustGenerateSecureID("msg", 20),
		ConversationID: conv.ID,
		Role:           RoleOwner,
		Content:        content,
		IsRead:         true,
		CreatedAt:      now,
	}
	if err := i.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	conv.UnreadCount = 0
	conv.Status = ConversationOpen
	conv.LastMessageAt = now
	if err := i.repo.Update(ctx, conv); err != nil {
		return nil, err
	}
	return msg, nil
}

// Thread returns the full message history for one conversation.
func (i *Inbox) Thread(ctx context.Context, conversationID string) ([]Message, error) {
	conv, err := i.repo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
	}
	return i.repo.ListMessages(ctx, conversationID)
}

// ThreadBySession is the customer-side poll: it returns the session's
// messages, or an empty slice when no conversation exists yet.
func (i *Inbox) ThreadBySession(ctx context.Context, sessionID string) ([]Message, error) {
	conv, err := i.repo.FindBySessionID(ctx, sessionID)
	if err != nil || conv == nil {
		return []Message{}, err
	}
	return i.repo.ListMessages(ctx, conv.ID)
}

// Conversations lists the dashboard inbox, newest activity first, plus the
// total unread badge count. Read failures degrade to an empty inbox.
func (i *Inbox) Conversations(ctx context.Context) ([]ConversationSummary, int) {
	summaries, err := i.repo.ListSummaries(ctx)
	if err != nil {
		i.log.Error().Err(err).Msg("failed to list conversations")
		return []ConversationSummary{}, 0
	}
	unread, err := i.repo.TotalUnread(ctx)
	if err != nil {
		i.log.Error().Err(err).Msg("failed to count unread messages")
		unread = 0
	}
	return summaries, unread
}

// CloseAbandoned closes conversations with no activity since the cutoff.
// The sweeper calls this on a schedule.
func (i *Inbox) CloseAbandoned(ctx context.Context, idleFor time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-idleFor)
	return i.repo.CloseIdle(ctx, cutoff)
}
