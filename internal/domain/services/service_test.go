package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"paw-connect/internal/domain/media"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Service
	media map[string][]Media
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Service{}, media: map[string][]Media{}}
}

func (r *testRepo) Create(ctx context.Context, s Service) error {
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return Service{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) List(ctx context.Context) ([]Service, error) {
	out := make([]Service, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, s Service) error {
	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.media, id)
	return nil
}

func (r *testRepo) AddMedia(ctx context.Context, m Media) error {
	if _, ok := r.byID[m.ServiceID]; !ok {
		return ErrNotFound
	}
	r.media[m.ServiceID] = append(r.media[m.ServiceID], m)
	return nil
}

func (r *testRepo) ListMedia(ctx context.Context, serviceID string) ([]Media, error) {
	return append([]Media{}, r.media[serviceID]...), nil
}

func newTestCatalog(repo Repository) *Catalog {
	c := NewCatalog(repo)
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }
	return c
}

// -------------------------
// Tests
// -------------------------

func TestCreate_KeepsExactPrice(t *testing.T) {
	c := newTestCatalog(newTestRepo())

	s, err := c.Create(context.Background(), "U1", CreateInput{
		Name:  "Spacer",
		Price: decimal.RequireFromString("49.99"),
		Times: []int{1, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "49.99", s.Price.StringFixed(2))
	assert.Equal(t, []int{1, 3}, s.Times)
	assert.Equal(t, "U1", s.ProfileID)
}

func TestCreate_RejectsNegativePriceAndEmptyName(t *testing.T) {
	c := newTestCatalog(newTestRepo())

	_, err := c.Create(context.Background(), "U1", CreateInput{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.Create(context.Background(), "U1", CreateInput{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_PriceMustFitTwoDecimalsWithoutRounding(t *testing.T) {
	c := newTestCatalog(newTestRepo())

	for _, raw := range []string{"49.999", "0.001", "10000000000", "10000000000.00"} {
		_, err := c.Create(context.Background(), "U1", CreateInput{Name: "x", Price: decimal.RequireFromString(raw)})
		assert.ErrorIs(t, err, ErrInvalidInput, raw)
	}

	for _, raw := range []string{"0", "49.990", "9999999999.99"} {
		s, err := c.Create(context.Background(), "U1", CreateInput{Name: "x", Price: decimal.RequireFromString(raw)})
		require.NoError(t, err, raw)
		assert.True(t, s.Price.Equal(decimal.RequireFromString(raw)), raw)
	}
}

func TestUpdate_RejectedPriceLeavesServiceUntouched(t *testing.T) {
	repo := newTestRepo()
	c := newTestCatalog(repo)
	s, err := c.Create(context.Background(), "U1", CreateInput{Name: "Spacer", Price: decimal.RequireFromString("49.99")})
	require.NoError(t, err)

	bad := decimal.RequireFromString("12.345")
	_, err = c.Update(context.Background(), "U1", s.ID, UpdateInput{Price: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, _, err := c.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "49.99", got.Price.String())
}

func TestUpdate_OnlyOwnerAndOnlyGivenFields(t *testing.T) {
	c := newTestCatalog(newTestRepo())
	s, err := c.Create(context.Background(), "U1", CreateInput{Name: "Spacer", Description: "1h", Price: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = c.Update(context.Background(), "U2", s.ID, UpdateInput{Name: ptr("hijack")})
	assert.ErrorIs(t, err, ErrNotFound)

	price := decimal.RequireFromString("55.5")
	up, err := c.Update(context.Background(), "U1", s.ID, UpdateInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Spacer", up.Name)
	assert.Equal(t, "1h", up.Description)
	assert.Equal(t, "55.50", up.Price.StringFixed(2))
}

func TestDelete_CascadesMediaAndThenNotFound(t *testing.T) {
	repo := newTestRepo()
	c := newTestCatalog(repo)
	s, err := c.Create(context.Background(), "U1", CreateInput{Name: "Spacer", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = c.AttachMedia(context.Background(), s.ID, media.Stored{Key: "k.mp4", URL: "http://x/k.mp4", Kind: media.KindVideo})
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), "U1", s.ID))

	_, _, err = c.Get(context.Background(), s.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, repo.media[s.ID])

	assert.ErrorIs(t, c.Delete(context.Background(), "U1", s.ID), ErrNotFound)
}

func TestAttachMedia_RecordsKind(t *testing.T) {
	c := newTestCatalog(newTestRepo())
	s, _ := c.Create(context.Background(), "U1", CreateInput{Name: "Spacer", Price: decimal.NewFromInt(10)})

	m, err := c.AttachMedia(context.Background(), s.ID, media.Stored{Key: "a.png", URL: "http://x/a.png", Kind: media.KindImage})
	require.NoError(t, err)

	_, items, err := c.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, m.ID, items[0].ID)
	assert.Equal(t, media.KindImage, items[0].Type)
}

func ptr[T any](v T) *T { return &v }
