package profile

import (
	"context"
)

type DataProvider interface {
	CreateProfile(ctx context.Context, p *Profile) bool
	UpdateProfile(ctx context.Context, p *Profile) bool
	GetProfile(ctx context.Context, id string) *Profile
}

type Lister interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
}

type Service struct {
	repo DataProvider
	dir  Lister
}

func NewService(r DataProvider, l Lister) *Service {
	return &Service{
		repo: r,
		dir:  l,
	}
}

func (s *Service) CreateProfile(ctx context.Context, p *Profile) bool {
	return s.repo.CreateProfile(ctx, p)
}

func (s *Service) UpdateProfile(ctx context.Context, p *Profile) bool {
	return s.repo.UpdateProfile(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, id string) *Profile {
	return s.repo.GetProfile(ctx, id)
}

// GetUserByID resolves the signed in user to its profile.
func (s *Service) GetUserByID(ctx context.Context, id string) *Profile {
	return s.repo.GetProfile(ctx, id)
}

func (s *Service) ListProfiles(ctx context.Context) ([]Profile, error) {
	return s.dir.ListProfiles(ctx)
}
