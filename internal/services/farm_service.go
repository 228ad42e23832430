package services

import (
	"fmt"

	"ternak/internal/models"
	"ternak/internal/repositories"
)

// FarmService serves the public farm directory. It only ever returns the
// FarmProfile projection, so password hashes cannot leak from here.
type FarmService struct {
	userRepo repositories.UserRepository
}

// NewFarmService creates a new FarmService.
func NewFarmService(userRepo repositories.UserRepository) *FarmService {
	return &FarmService{
		userRepo: userRepo,
	}
}

// ListFarms returns the public fields of every registered farm.
func (s *FarmService) ListFarms() ([]models.FarmProfile, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}

	profiles := make([]models.FarmProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].PublicProfile())
	}
	return profiles, nil
}

// GetFarm returns the public profile for a single farm.
func (s *FarmService) GetFarm(id string) (*models.FarmProfile, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: farm with ID %s", ErrNotFound, id)
	}
	profile := user.PublicProfile()
	return &profile, nil
}
