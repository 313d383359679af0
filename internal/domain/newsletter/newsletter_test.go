package newsletter

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

type fakeRepo struct {
	byEmail map[string]*Subscriber
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*Subscriber{}}
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*Subscriber, error) {
	sub, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]Subscriber, error) {
	out := make([]Subscriber, 0, len(f.byEmail))
	for _, sub := range f.byEmail {
		out = append(out, *sub)
	}
	return out, nil
}

func (f *fakeRepo) Create(ctx context.Context, sub *Subscriber) error {
	clone := *sub
	f.byEmail[sub.Email] = &clone
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, sub *Subscriber) error {
	clone := *sub
	f.byEmail[sub.Email] = &clone
	return nil
}

func TestSubscribe(t *testing.T) {
	svc := NewService(newFakeRepo(), zerolog.Nop())

	sub, err := svc.Subscribe(context.Background(), "  Reader@Example.COM ")
	require.NoError(t, err)

	assert.Equal(t, "reader@example.com", sub.Email)
	assert.Equal(t, StatusActive, sub.Status)
	assert.NotEmpty(t, sub.ID)
}

func TestSubscribeInvalidEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), zerolog.Nop())

	_, err := svc.Subscribe(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestSubscribeActiveIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zerolog.Nop())

	first, err := svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)
	second, err := svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byEmail, 1)
}

func TestSubscribeReactivates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zerolog.Nop())

	sub, err := svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(context.Background(), "reader@example.com"))

	again, err := svc.Subscribe(context.Background(), "reader@example.com")
	require.NoError(t, err)

	assert.Equal(t, sub.ID, again.ID)
	assert.Equal(t, StatusActive, again.Status)
	assert.True(t, again.SubscribedAt.After(sub.SubscribedAt) || again.SubscribedAt.Equal(sub.SubscribedAt))
}

func TestUnsubscribeUnknownIsSilent(t *testing.T) {
	svc := NewService(newFakeRepo(), zerolog.Nop())
	assert.NoError(t, svc.Unsubscribe(context.Background(), "ghost@example.com"))
}
