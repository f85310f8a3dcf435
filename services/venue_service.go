package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
)

type VenueInput struct {
	Name     string `json:"name"`
	Capacity *int   `json:"capacity,omitempty"`
}

type VenueService interface {
	Create(ctx context.Context, input VenueInput) (*models.Venue, error)
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	List(ctx context.Context) ([]*models.Venue, error)
	Update(ctx context.Context, id int, input VenueInput) (*models.Venue, error)
	Delete(ctx context.Context, id int) error
}

type venueService struct {
	venueRepo repositories.VenueRepository
}

func NewVenueService(venueRepo repositories.VenueRepository) VenueService {
	return &venueService{venueRepo: venueRepo}
}

func (s *venueService) Create(ctx context.Context, input VenueInput) (*models.Venue, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrVenueNameRequired
	}
	venue := &models.Venue{
		Name:     strings.TrimSpace(input.Name),
		Capacity: input.Capacity,
	}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *venueService) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (s *venueService) List(ctx context.Context) ([]*models.Venue, error) {
	return s.venueRepo.List(ctx)
}

func (s *venueService) Update(ctx context.Context, id int, input VenueInput) (*models.Venue, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrVenueNameRequired
	}
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	venue.Name = strings.TrimSpace(input.Name)
	venue.Capacity = input.Capacity

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (s *venueService) Delete(ctx context.Context, id int) error {
	if err := s.venueRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return ErrVenueNotFound
		}
		return err
	}
	return nil
}
