package service

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubRestaurantRepo struct {
	byID     map[uuid.UUID]*domain.Restaurant
	lastPage ports.Page
}

func newStubRestaurantRepo() *stubRestaurantRepo {
	return &stubRestaurantRepo{byID: make(map[uuid.UUID]*domain.Restaurant)}
}

func (r *stubRestaurantRepo) Create(_ context.Context, x *domain.Restaurant) error {
	clone := *x
	r.byID[x.ID] = &clone
	return nil
}

func (r *stubRestaurantRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	x, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	clone := *x
	return &clone, nil
}

func (r *stubRestaurantRepo) List(_ context.Context, page ports.Page) ([]*domain.Restaurant, error) {
	r.lastPage = page
	out := make([]*domain.Restaurant, 0, len(r.byID))
	for _, x := range r.byID {
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRestaurantRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, page ports.Page) ([]*domain.Restaurant, error) {
	r.lastPage = page
	var out []*domain.Restaurant
	for _, x := range r.byID {
		if x.OwnerID == ownerID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *stubRestaurantRepo) Update(_ context.Context, id uuid.UUID, patch ports.RestaurantPatch) (*domain.Restaurant, error) {
	x, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	if patch.Name != nil {
		x.Name = *patch.Name
	}
	if patch.Location != nil {
		x.Location = patch.Location
	}
	if patch.Rating != nil {
		x.Rating = patch.Rating
	}
	clone := *x
	return &clone, nil
}

func (r *stubRestaurantRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrRestaurantNotFound
	}
	delete(r.byID, id)
	return nil
}

func floatPtr(f float64) *float64 { return &f }

func TestRestaurantService_Create(t *testing.T) {
	repo := newStubRestaurantRepo()
	svc := NewRestaurantService(repo, zerolog.Nop())
	owner := uuid.New()

	r, err := svc.Create(context.Background(), owner, ports.RestaurantInput{Name: "  Taqueria  ", Rating: floatPtr(4.5)})
	require.NoError(t, err)
	assert.Equal(t, "Taqueria", r.Name)
	assert.Equal(t, owner, r.OwnerID)
	assert.Contains(t, repo.byID, r.ID)
}

func TestRestaurantService_CreateValidation(t *testing.T) {
	svc := NewRestaurantService(newStubRestaurantRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), uuid.New(), ports.RestaurantInput{Name: " "})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.Create(context.Background(), uuid.New(), ports.RestaurantInput{Name: "x", Rating: floatPtr(5.1)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.Create(context.Background(), uuid.New(), ports.RestaurantInput{Name: "x", Rating: floatPtr(-1)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRestaurantService_OwnerScoping(t *testing.T) {
	svc := NewRestaurantService(newStubRestaurantRepo(), zerolog.Nop())
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	r, err := svc.Create(ctx, owner, ports.RestaurantInput{Name: "Pho"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger, r.ID, ports.RestaurantPatch{Name: strPtr("Mine now")})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, r.ID), domain.ErrRestaurantNotFound)

	updated, err := svc.Update(ctx, owner, r.ID, ports.RestaurantPatch{Name: strPtr("Pho 2")})
	require.NoError(t, err)
	assert.Equal(t, "Pho 2", updated.Name)

	require.NoError(t, svc.Delete(ctx, owner, r.ID))
	_, err = svc.Get(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestRestaurantService_ListMineAndPaging(t *testing.T) {
	repo := newStubRestaurantRepo()
	svc := NewRestaurantService(repo, zerolog.Nop())
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Create(ctx, owner, ports.RestaurantInput{Name: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), ports.RestaurantInput{Name: "B"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, owner, ports.Page{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Name)
	assert.Equal(t, ports.Page{Skip: 0, Limit: 100}, repo.lastPage)

	all, err := svc.List(ctx, ports.Page{Skip: -4, Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, ports.Page{Skip: 0, Limit: 100}, repo.lastPage)
}
