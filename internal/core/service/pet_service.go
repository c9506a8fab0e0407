package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

// petGate resolves a pet and applies owner scoping for Client actors.
type petGate struct {
	pets ports.PetRepository
}

// authorize returns the pet when actor may touch records hanging off it.
// A Client touching another owner's pet gets domain.ErrForbidden.
func (g petGate) authorize(ctx context.Context, actor domain.Actor, petID string) (*domain.Pet, error) {
	if strings.TrimSpace(petID) == "" {
		return nil, domain.ErrInvalidInput
	}
	pet, err := g.pets.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if actor.ScopedToOwner() && pet.OwnerID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return pet, nil
}

type PetService struct {
	gate petGate
	pets ports.PetRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewPetService(pets ports.PetRepository, log zerolog.Logger) *PetService {
	return &PetService{gate: petGate{pets: pets}, pets: pets, log: log, now: time.Now}
}

// ListMine returns the pets owned by a Client actor. Staff own no pets.
func (s *PetService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Pet, error) {
	if actor.Role != domain.RoleClient {
		return []*domain.Pet{}, nil
	}
	pets, err := s.pets.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return pets, nil
}

// Get hides pets of other owners from Client actors.
func (s *PetService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Pet, error) {
	pet, err := s.gate.authorize(ctx, actor, id)
	if errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrInvalidInput) {
		return nil, domain.ErrPetNotFound
	}
	return pet, err
}

func (s *PetService) Update(ctx context.Context, actor domain.Actor, id string, in ports.PetInput) (*domain.Pet, error) {
	pet, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || in.Age < 0 {
		return nil, domain.ErrInvalidInput
	}

	pet.Name = strings.TrimSpace(in.Name)
	pet.Breed = in.Breed
	pet.Age = in.Age
	pet.Notes = in.Notes
	pet.UpdatedAt = s.now().UTC()

	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, err
	}
	s.log.Info().Str("pet_id", pet.ID).Str("subject_id", actor.ID).Msg("pet updated")
	return pet, nil
}
