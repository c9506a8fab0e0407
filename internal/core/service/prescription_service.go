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

type PrescriptionService struct {
	gate  petGate
	store ports.PrescriptionStore
	log   zerolog.Logger
	now   func() time.Time
}

func NewPrescriptionService(pets ports.PetRepository, store ports.PrescriptionStore, log zerolog.Logger) *PrescriptionService {
	return &PrescriptionService{gate: petGate{pets: pets}, store: store, log: log, now: time.Now}
}

func validatePrescription(in ports.PrescriptionInput) error {
	if strings.TrimSpace(in.PetID) == "" ||
		strings.TrimSpace(in.Veterinarian) == "" ||
		strings.TrimSpace(in.Diagnosis) == "" ||
		in.ConsultationDate.IsZero() ||
		len(in.Medications) == 0 {
		return domain.ErrInvalidInput
	}
	for _, m := range in.Medications {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Dosage) == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func (s *PrescriptionService) Create(ctx context.Context, actor domain.Actor, in ports.PrescriptionInput) (*domain.Prescription, error) {
	if err := validatePrescription(in); err != nil {
		return nil, err
	}
	if _, err := s.gate.authorize(ctx, actor, in.PetID); err != nil {
		return nil, err
	}

	vetID := in.VeterinarianID
	if vetID == "" && actor.Role == domain.RoleVeterinarian {
		vetID = actor.ID
	}

	now := s.now().UTC()
	p := &domain.Prescription{
		ID:               uuid.NewString(),
		PetID:            in.PetID,
		Veterinarian:     strings.TrimSpace(in.Veterinarian),
		VeterinarianID:   vetID,
		ConsultationDate: in.ConsultationDate.UTC(),
		Diagnosis:        strings.TrimSpace(in.Diagnosis),
		Medications:      append([]domain.Medication(nil), in.Medications...),
		Instructions:     in.Instructions,
		FollowUp:         in.FollowUp,
		Status:           domain.PrescriptionActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Str("prescription_id", p.ID).Str("pet_id", p.PetID).Int("medications", len(p.Medications)).Msg("prescription created")
	return p, nil
}

func (s *PrescriptionService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Prescription, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.authorize(ctx, actor, p.PetID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PrescriptionService) ListByPet(ctx context.Context, actor domain.Actor, petID string) ([]*domain.Prescription, error) {
	if _, err := s.gate.authorize(ctx, actor, petID); err != nil {
		return nil, err
	}
	return s.store.ListByPet(ctx, petID)
}

// Update rewrites the body of an active prescription. Completed ones are frozen.
func (s *PrescriptionService) Update(ctx context.Context, actor domain.Actor, id string, in ports.PrescriptionInput) (*domain.Prescription, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.PrescriptionCompleted {
		return nil, domain.ErrPrescriptionClosed
	}
	if in.PetID == "" {
		in.PetID = current.PetID
	}
	if err := validatePrescription(in); err != nil {
		return nil, err
	}
	if _, err := s.gate.authorize(ctx, actor, in.PetID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.store.Modify(ctx, id, func(p *domain.Prescription) error {
		if p.Status == domain.PrescriptionCompleted {
			return domain.ErrPrescriptionClosed
		}
		p.PetID = in.PetID
		p.Veterinarian = strings.TrimSpace(in.Veterinarian)
		if in.VeterinarianID != "" {
			p.VeterinarianID = in.VeterinarianID
		}
		p.ConsultationDate = in.ConsultationDate.UTC()
		p.Diagnosis = strings.TrimSpace(in.Diagnosis)
		p.Medications = append([]domain.Medication(nil), in.Medications...)
		p.Instructions = in.Instructions
		p.FollowUp = in.FollowUp
		p.UpdatedAt = now
		return nil
	})
}

// Finalize completes a prescription. Only one of several concurrent calls wins,
// the rest see ErrPrescriptionClosed.
func (s *PrescriptionService) Finalize(ctx context.Context, actor domain.Actor, id string) (*domain.Prescription, error) {
	now := s.now().UTC()
	p, err := s.store.Modify(ctx, id, func(p *domain.Prescription) error {
		if p.Status == domain.PrescriptionCompleted {
			return domain.ErrPrescriptionClosed
		}
		p.Status = domain.PrescriptionCompleted
		p.CompletedAt = &now
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("prescription_id", p.ID).Str("subject_id", actor.ID).Msg("prescription finalized")
	return p, nil
}

func (s *PrescriptionService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("prescription_id", id).Str("subject_id", actor.ID).Msg("prescription deleted")
	return nil
}
