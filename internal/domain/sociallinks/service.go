package sociallinks

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Platform string
	URL      string
}

func (s *Service) List(ctx context.Context, profileID string) ([]Link, error) {
	return s.repo.ListByProfile(ctx, profileID)
}

func (s *Service) Add(ctx context.Context, profileID string, in Input) (Link, error) {
	l, err := build(profileID, in)
	if err != nil {
		return Link{}, err
	}
	return s.repo.Create(ctx, l)
}

func (s *Service) Update(ctx context.Context, profileID string, id int64, in Input) (Link, error) {
	l, err := build(profileID, in)
	if err != nil {
		return Link{}, err
	}
	l.ID = id
	if err := s.repo.Update(ctx, l); err != nil {
		return Link{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, profileID string, id int64) error {
	return s.repo.Delete(ctx, profileID, id)
}

func build(profileID string, in Input) (Link, error) {
	l := Link{
		ProfileID: strings.TrimSpace(profileID),
		Platform:  strings.TrimSpace(in.Platform),
		URL:       strings.TrimSpace(in.URL),
	}
	if l.ProfileID == "" || l.Platform == "" || l.URL == "" {
		return Link{}, ErrInvalidInput
	}
	return l, nil
}
