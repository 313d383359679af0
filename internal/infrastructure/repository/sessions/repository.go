package sessions

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	domain "aistore-server/services/storefront-api/internal/domain/chat"
	"aistore-server/services/storefront-api/internal/infrastructure/database/entities"
	"aistore-server/services/storefront-api/internal/utils/idgen"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// Repository handles sales agent session memory.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate returns the session for sessionID, creating an empty one on
// first contact.
func (r *Repository) GetOrCreate(ctx context.Context, sessionID string) (*domain.Session, error) {
	var entity entities.ChatSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&entity).Error
	if err == nil {
		return mapEntity(entity)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load chat session",
			err,
			"2d7e8f9a-0b1c-4d2e-8f3a-4b5c6d7e8f40",
		)
	}

	entity = entities.ChatSession{
		ID:                  idgen.MustGenerateSecureID("sess", 20),
		SessionID:           sessionID,
		Preferences:         []byte("{}"),
		NegotiatedDiscounts: []byte("{}"),
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create chat session",
			err,
			"3e8f9a0b-1c2d-4e3f-9a4b-5c6d7e8f9a41",
		)
	}
	return mapEntity(entity)
}

// SaveDiscount records an agreed discount for a product in the session.
func (r *Repository) SaveDiscount(ctx context.Context, sessionID, productID string, percent int) error {
	return r.mutate(ctx, sessionID, func(session *domain.Session) {
		if session.NegotiatedDiscounts == nil {
			session.NegotiatedDiscounts = map[string]int{}
		}
		session.NegotiatedDiscounts[productID] = percent
	})
}

// SavePreference records a customer preference in the session.
func (r *Repository) SavePreference(ctx context.Context, sessionID, key, value string) error {
	return r.mutate(ctx, sessionID, func(session *domain.Session) {
		if session.Preferences == nil {
			session.Preferences = map[string]string{}
		}
		session.Preferences[key] = value
	})
}

// SetLastProduct records the most recently viewed product.
func (r *Repository) SetLastProduct(ctx context.Context, sessionID, productID string) error {
	return r.mutate(ctx, sessionID, func(session *domain.Session) {
		session.LastProductViewed = productID
	})
}

// DeleteIdle removes sessions untouched since the cutoff.
func (r *Repository) DeleteIdle(ctx context.Context, updatedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", updatedBefore).
		Delete(&entities.ChatSession{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete idle chat sessions",
			result.Error,
			"4f9a0b1c-2d3e-4f4a-8b5c-6d7e8f9a0b42",
		)
	}
	return result.RowsAffected, nil
}

func (r *Repository) mutate(ctx context.Context, sessionID string, apply func(*domain.Session)) error {
	session, err := r.GetOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	apply(session)

	prefs, err := json.Marshal(session.Preferences)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode session preferences",
			err,
			"5a0b1c2d-3e4f-4a5b-9c6d-7e8f9a0b1c43",
		)
	}
	discounts, err := json.Marshal(session.NegotiatedDiscounts)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode session discounts",
			err,
			"6b1c2d3e-4f5a-4b6c-8d7e-8f9a0b1c2d44",
		)
	}

	patch := map[string]any{
		"preferences":          prefs,
		"negotiated_discounts": discounts,
		"last_product_viewed":  session.LastProductViewed,
		"updated_at":           time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).Model(&entities.ChatSession{}).
		Where("session_id = ?", sessionID).
		Updates(patch).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update chat session",
			err,
			"7c2d3e4f-5a6b-4c7d-9e8f-9a0b1c2d3e45",
		)
	}
	return nil
}

func mapEntity(entity entities.ChatSession) (*domain.Session, error) {
	session := &domain.Session{
		ID:                entity.ID,
		SessionID:         entity.SessionID,
		LastProductViewed: entity.LastProductViewed,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
	if len(entity.Preferences) > 0 {
		if err := json.Unmarshal(entity.Preferences, &session.Preferences); err != nil {
			return nil, err
		}
	}
	if len(entity.NegotiatedDiscounts) > 0 {
		if err := json.Unmarshal(entity.NegotiatedDiscounts, &session.NegotiatedDiscounts); err != nil {
			return nil, err
		}
	}
	if session.Preferences == nil {
		session.Preferences = map[string]string{}
	}
	if session.NegotiatedDiscounts == nil {
		session.NegotiatedDiscounts = map[string]int{}
	}
	return session, nil
}
