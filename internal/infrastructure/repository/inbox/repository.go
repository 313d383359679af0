package inbox

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "aistore-server/services/storefront-api/internal/domain/chat"
	"aistore-server/services/storefront-api/internal/infrastructure/database/entities"
	"aistore-server/services/storefront-api/internal/utils/functional"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// Repository handles support conversation and message persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindBySessionID(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find conversation by session",
			err,
			"0d5e6f7a-8b9c-4d0e-8f1a-2b3c4d5e6f7a",
		)
	}
	conv := mapConversation(entity)
	return &conv, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find conversation by id",
			err,
			"1e6f7a8b-9c0d-4e1f-9a2b-3c4d5e6f7a8b",
		)
	}
	conv := mapConversation(entity)
	return &conv, nil
}

func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.Conversation{
		ID:            conv.ID,
		SessionID:     conv.SessionID,
		CustomerName:  conv.CustomerName,
		CustomerEmail: conv.CustomerEmail,
		Status:        conv.Status,
		UnreadCount:   conv.UnreadCount,
		LastMessageAt: conv.LastMessageAt,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"2f7a8b9c-0d1e-4f2a-8b3c-4d5e6f7a8b9c",
		)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, conv *domain.Conversation) error {
	patch := map[string]any{
		"customer_name":   conv.CustomerName,
		"customer_email":  conv.CustomerEmail,
		"status":          conv.Status,
		"unread_count":    conv.UnreadCount,
		"last_message_at": conv.LastMessageAt,
	}
	result := r.db.WithContext(ctx).Model(&entities.Conversation{}).Where("id = ?", conv.ID).Updates(patch)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation",
			result.Error,
			"3a8b9c0d-1e2f-4a3b-9c4d-5e6f7a8b9c0d",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"conversation not found",
			nil,
			"4b9c0d1e-2f3a-4b4c-8d5e-6f7a8b9c0d1e",
		)
	}
	return nil
}

func (r *Repository) AddMessage(ctx context.Context, msg *domain.Message) error {
	entity := entities.ChatMessage{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		Content:        msg.Content,
		IsRead:         msg.IsRead,
		CreatedAt:      msg.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to store message",
			err,
			"5c0d1e2f-3a4b-4c5d-9e6f-7a8b9c0d1e30",
		)
	}
	return nil
}

func (r *Repository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var rows []entities.ChatMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"6d1e2f3a-4b5c-4d6e-8f7a-8b9c0d1e2f31",
		)
	}
	return functional.Map(rows, func(row entities.ChatMessage) domain.Message {
		return domain.Message{
			ID:             row.ID,
			ConversationID: row.ConversationID,
			Role:           row.Role,
			Content:        row.Content,
			IsRead:         row.IsRead,
			CreatedAt:      row.CreatedAt,
		}
	}), nil
}

// ListSummaries returns every conversation with its latest message and
// message count, ordered by most recent activity.
func (r *Repository) ListSummaries(ctx context.Context) ([]domain.ConversationSummary, error) {
	var convRows []entities.Conversation
	err := r.db.WithContext(ctx).Order("last_message_at DESC").Find(&convRows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"7e2f3a4b-5c6d-4e7f-9a8b-9c0d1e2f3a32",
		)
	}

	type countRow struct {
		ConversationID string
		Count          int
	}
	var counts []countRow
	err = r.db.WithContext(ctx).Model(&entities.ChatMessage{}).
		Select("conversation_id, COUNT(*) AS count").
		Group("conversation_id").
		Scan(&counts).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count messages",
			err,
			"8f3a4b5c-6d7e-4f8a-8b9c-0d1e2f3a4b33",
		)
	}
	countByConv := make(map[string]int, len(counts))
	for _, c := range counts {
		countByConv[c.ConversationID] = c.Count
	}

	var lastRows []entities.ChatMessage
	err = r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (conversation_id) id, conversation_id, role, content, is_read, created_at
		     FROM chat_messages ORDER BY conversation_id, created_at DESC`).
		Scan(&lastRows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load latest messages",
			err,
			"9a4b5c6d-7e8f-4a9b-9c0d-1e2f3a4b5c34",
		)
	}
	lastByConv := make(map[string]entities.ChatMessage, len(lastRows))
	for _, m := range lastRows {
		lastByConv[m.ConversationID] = m
	}

	summaries := make([]domain.ConversationSummary, 0, len(convRows))
	for _, row := range convRows {
		summary := domain.ConversationSummary{
			Conversation: mapConversation(row),
			MessageCount: countByConv[row.ID],
		}
		if last, ok := lastByConv[row.ID]; ok {
			summary.LastMessage = last.Content
			summary.LastMessageRole = last.Role
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *Repository) TotalUnread(ctx context.Context) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Conversation{}).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to total unread messages",
			err,
			"0b5c6d7e-8f9a-4b0c-8d1e-2f3a4b5c6d35",
		)
	}
	return int(total), nil
}

// CloseIdle marks every open conversation without activity since the
// cutoff as closed and returns how many were affected.
func (r *Repository) CloseIdle(ctx context.Context, lastMessageBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Conversation{}).
		Where("status = ? AND last_message_at < ?", domain.ConversationOpen, lastMessageBefore).
		Update("status", domain.ConversationClosed)
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to close idle conversations",
			result.Error,
			"1c6d7e8f-9a0b-4c1d-9e2f-3a4b5c6d7e36",
		)
	}
	return result.RowsAffected, nil
}

func mapConversation(entity entities.Conversation) domain.Conversation {
	return domain.Conversation{
		ID:            entity.ID,
		SessionID:     entity.SessionID,
		CustomerName:  entity.CustomerName,
		CustomerEmail: entity.CustomerEmail,
		Status:        entity.Status,
		UnreadCount:   entity.UnreadCount,
		LastMessageAt: entity.LastMessageAt,
		CreatedAt:     entity.CreatedAt,
	}
}
