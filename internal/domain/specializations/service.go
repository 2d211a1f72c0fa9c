package specializations

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo  Repository
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	Title            string
	ShortDescription string
}

type UpdateInput struct {
	Title            *string
	ShortDescription *string
}

func (s *Service) List(ctx context.Context) ([]Specialization, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Specialization, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Specialization{}, ErrInvalidInput
	}
	sp := Specialization{
		ID:               s.newID(),
		Title:            title,
		ShortDescription: strings.TrimSpace(in.ShortDescription),
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return Specialization{}, err
	}
	return sp, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Specialization, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Specialization{}, err
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return Specialization{}, ErrInvalidInput
		}
		sp.Title = t
	}
	if in.ShortDescription != nil {
		sp.ShortDescription = strings.TrimSpace(*in.ShortDescription)
	}
	if err := s.repo.Update(ctx, sp); err != nil {
		return Specialization{}, err
	}
	return sp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Resolve filtra ids contra el vocabulario: los desconocidos se descartan sin error
// y los duplicados se colapsan. Conserva el orden del request.
func (s *Service) Resolve(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	clean := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return out, nil
	}

	known, err := s.repo.Existing(ctx, clean)
	if err != nil {
		return nil, err
	}
	for _, id := range clean {
		if known[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
