package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paw-connect/internal/domain/media"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid input")

// maxPrice es el primer valor que no entra en NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

// validPrice: no negativo, a lo sumo 2 decimales y dentro de NUMERIC(12,2). No se redondea.
func validPrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case !p.Equal(p.Truncate(2)):
		return fmt.Errorf("%w: price accepts at most 2 decimal places", ErrInvalidInput)
	case p.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("%w: price must be below %s", ErrInvalidInput, maxPrice.String())
	}
	return nil
}

type Catalog struct {
	repo Repository
	now  func() time.Time
}

func NewCatalog(repo Repository) *Catalog {
	return &Catalog{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Times       []int
}

func (c *Catalog) Create(ctx context.Context, ownerID string, in CreateInput) (Service, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(in.Name) == "" {
		return Service{}, ErrInvalidInput
	}
	if err := validPrice(in.Price); err != nil {
		return Service{}, err
	}

	now := c.now()
	s := Service{
		ID:          uuid.NewString(),
		ProfileID:   ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Times:       normalizeTimes(in.Times),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.repo.Create(ctx, s); err != nil {
		return Service{}, err
	}
	return s, nil
}

func (c *Catalog) List(ctx context.Context) ([]Service, error) {
	return c.repo.List(ctx)
}

func (c *Catalog) Get(ctx context.Context, id string) (Service, []Media, error) {
	s, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return Service{}, nil, err
	}
	m, err := c.repo.ListMedia(ctx, id)
	if err != nil {
		return Service{}, nil, err
	}
	return s, m, nil
}

// GetOwned: un servicio ajeno se trata como inexistente.
func (c *Catalog) GetOwned(ctx context.Context, ownerID, id string) (Service, error) {
	s, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return Service{}, err
	}
	if s.ProfileID != ownerID {
		return Service{}, ErrNotFound
	}
	return s, nil
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Times       *[]int
}

func (c *Catalog) Update(ctx context.Context, ownerID, id string, in UpdateInput) (Service, error) {
	s, err := c.GetOwned(ctx, ownerID, id)
	if err != nil {
		return Service{}, err
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Service{}, ErrInvalidInput
		}
		s.Name = v
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if err := validPrice(*in.Price); err != nil {
			return Service{}, err
		}
		s.Price = *in.Price
	}
	if in.Times != nil {
		s.Times = normalizeTimes(*in.Times)
	}

	s.UpdatedAt = c.now()
	if err := c.repo.Update(ctx, s); err != nil {
		return Service{}, err
	}
	return s, nil
}

func (c *Catalog) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := c.GetOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return c.repo.Delete(ctx, id)
}

// AttachMedia registra un archivo ya subido al object store.
func (c *Catalog) AttachMedia(ctx context.Context, serviceID string, stored media.Stored) (Media, error) {
	m := Media{
		ID:        uuid.NewString(),
		ServiceID: serviceID,
		Type:      stored.Kind,
		URL:       stored.URL,
		CreatedAt: c.now(),
	}
	if err := c.repo.AddMedia(ctx, m); err != nil {
		return Media{}, err
	}
	return m, nil
}

func normalizeTimes(in []int) []int {
	if in == nil {
		return []int{}
	}
	return append([]int(nil), in...)
}
