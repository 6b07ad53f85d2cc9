package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

type stubProfileRepo struct {
	byUser    map[uuid.UUID]*domain.UserProfile
	createErr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byUser: make(map[uuid.UUID]*domain.UserProfile)}
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.UserProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byUser[p.UserID]; ok {
		return domain.ErrProfileExists
	}
	p.ID = uuid.NewString()
	clone := *p
	r.byUser[p.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Update(_ context.Context, userID uuid.UUID, patch ports.ProfilePatch) (*domain.UserProfile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if patch.FirstName != nil {
		p.FirstName = patch.FirstName
	}
	if patch.Bio != nil {
		p.Bio = patch.Bio
	}
	if patch.Preferences != nil {
		p.Preferences = patch.Preferences
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	if _, ok := r.byUser[userID]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(r.byUser, userID)
	return nil
}

func strPtr(s string) *string { return &s }

func TestProfileService_CreateAndGet(t *testing.T) {
	repo := newStubProfileRepo()
	svc := NewProfileService(repo, zerolog.Nop())
	userID := uuid.New()

	p, err := svc.Create(context.Background(), userID, ports.ProfileInput{FirstName: strPtr("Bob")})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Bob", *p.FirstName)
	assert.NotNil(t, p.Preferences)

	got, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProfileService_CreateTwice(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), zerolog.Nop())
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, ports.ProfileInput{})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userID, ports.ProfileInput{})
	require.ErrorIs(t, err, domain.ErrProfileExists)
	assert.Equal(t, "Profile already exists for this user", err.Error())
}

func TestProfileService_CreateStorageFailure(t *testing.T) {
	repo := newStubProfileRepo()
	repo.createErr = errors.New("socket closed")
	svc := NewProfileService(repo, zerolog.Nop())

	_, err := svc.Create(context.Background(), uuid.New(), ports.ProfileInput{})
	require.Error(t, err)
	assert.Equal(t, domain.KindDatabase, domain.KindOf(err))
}

func TestProfileService_UpdateMergesPreferences(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), zerolog.Nop())
	userID := uuid.New()
	_, err := svc.Create(context.Background(), userID, ports.ProfileInput{
		Preferences: map[string]any{"theme": "dark", "lang": "en"},
	})
	require.NoError(t, err)

	p, err := svc.Update(context.Background(), userID, ports.ProfilePatch{
		Bio:         strPtr("hungry"),
		Preferences: map[string]any{"lang": "es", "diet": "vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hungry", *p.Bio)
	assert.Equal(t, map[string]any{"theme": "dark", "lang": "es", "diet": "vegan"}, p.Preferences)
}

func TestProfileService_MissingProfile(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Get(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = svc.Update(ctx, userID, ports.ProfilePatch{Bio: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = svc.Update(ctx, userID, ports.ProfilePatch{Preferences: map[string]any{"a": 1}})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, userID), domain.ErrProfileNotFound)
}
