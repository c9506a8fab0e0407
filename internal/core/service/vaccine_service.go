package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

type VaccineService struct {
	gate     petGate
	vaccines ports.VaccineRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewVaccineService(pets ports.PetRepository, vaccines ports.VaccineRepository, log zerolog.Logger) *VaccineService {
	return &VaccineService{gate: petGate{pets: pets}, vaccines: vaccines, log: log, now: time.Now}
}

func validateVaccine(in ports.VaccineInput) error {
	if strings.TrimSpace(in.PetID) == "" ||
		strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Veterinarian) == "" ||
		in.AppliedOn.IsZero() {
		return domain.ErrInvalidInput
	}
	if in.NextDose != nil && in.NextDose.Before(in.AppliedOn) {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *VaccineService) Create(ctx context.Context, actor domain.Actor, in ports.VaccineInput) (*domain.Vaccine, error) {
	if err := validateVaccine(in); err != nil {
		return nil, err
	}
	if _, err := s.gate.authorize(ctx, actor, in.PetID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v := &domain.Vaccine{
		ID:           uuid.NewString(),
		PetID:        in.PetID,
		Name:         strings.TrimSpace(in.Name),
		Dose:         in.Dose,
		AppliedOn:    in.AppliedOn.UTC(),
		NextDose:     in.NextDose,
		Lot:          in.Lot,
		Veterinarian: strings.TrimSpace(in.Veterinarian),
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.vaccines.Create(ctx, v); err != nil {
		return nil, err
	}

	s.log.Info().Str("vaccine_id", v.ID).Str("pet_id", v.PetID).Str("subject_id", actor.ID).Msg("vaccine recorded")
	return v, nil
}

func (s *VaccineService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Vaccine, error) {
	v, err := s.vaccines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.authorize(ctx, actor, v.PetID); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VaccineService) ListByPet(ctx context.Context, actor domain.Actor, petID string) ([]*domain.Vaccine, error) {
	if _, err := s.gate.authorize(ctx, actor, petID); err != nil {
		return nil, err
	}
	return s.vaccines.ListByPet(ctx, petID)
}

func (s *VaccineService) Update(ctx context.Context, actor domain.Actor, id string, in ports.VaccineInput) (*domain.Vaccine, error) {
	v, err := s.vaccines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.PetID == "" {
		in.PetID = v.PetID
	}
	if err := validateVaccine(in); err != nil {
		return nil, err
	}
	if _, err := s.gate.authorize(ctx, actor, in.PetID); err != nil {
		return nil, err
	}

	v.PetID = in.PetID
	v.Name = strings.TrimSpace(in.Name)
	v.Dose = in.Dose
	v.AppliedOn = in.AppliedOn.UTC()
	v.NextDose = in.NextDose
	v.Lot = in.Lot
	v.Veterinarian = strings.TrimSpace(in.Veterinarian)
	v.Notes = in.Notes
	v.UpdatedAt = s.now().UTC()

	if err := s.vaccines.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VaccineService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.vaccines.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("vaccine_id", id).Str("subject_id", actor.ID).Msg("vaccine deleted")
	return nil
}
