package newsletter

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/utils/idgen"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

const (
	StatusActive       = "active"
	StatusUnsubscribed = "unsubscribed"
)

// Subscriber is one newsletter signup.
type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	SubscribedAt time.Time `json:"subscribedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	List(ctx context.Context) ([]Subscriber, error)
	Create(ctx context.Context, sub *Subscriber) error
	Update(ctx context.Context, sub *Subscriber) error
}

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Subscribe registers an email. Subscribing an address that previously
// unsubscribed reactivates it; subscribing an active address is a no-op
// rather than an error.
func (s *Service) Subscribe(ctx context.Context, email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "invalid email address", err, "")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	if existing != nil {
		if existing.Status == StatusActive {
			return existing, nil
		}
		existing.Status = StatusActive
		existing.SubscribedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.log.Info().Str("email", email).Msg("subscriber reactivated")
		return existing, nil
	}

	sub := &Subscriber{
		ID:           idgen.MustGenerateSecureID("sub", 20),
		Email:        email,
		Status:       StatusActive,
		SubscribedAt: now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info().Str("email", email).Msg("subscriber added")
	return sub, nil
}

// Unsubscribe marks an address unsubscribed. Unknown addresses are ignored
// so the endpoint cannot be used to enumerate the list.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil || existing == nil {
		return err
	}
	if existing.Status == StatusUnsubscribed {
		return nil
	}
	existing.Status = StatusUnsubscribed
	return s.repo.Update(ctx, existing)
}

// List returns all subscribers for the dashboard, newest first. Read
// failures degrade to an empty list.
func (s *Service) List(ctx context.Context) []Subscriber {
	subs, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list subscribers")
		return []Subscriber{}
	}
	return subs
}
