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

type ConsultationService struct {
	gate          petGate
	consultations ports.ConsultationRepository
	log           zerolog.Logger
	now           func() time.Time
}

func NewConsultationService(pets ports.PetRepository, consultations ports.ConsultationRepository, log zerolog.Logger) *ConsultationService {
	return &ConsultationService{gate: petGate{pets: pets}, consultations: consultations, log: log, now: time.Now}
}

func (s *ConsultationService) Create(ctx context.Context, actor domain.Actor, in ports.ConsultationInput) (*domain.Consultation, error) {
	if in.Date.IsZero() || in.Price < 0 || strings.TrimSpace(in.License) == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.gate.authorize(ctx, actor, in.PetID); err != nil {
		return nil, err
	}

	c := &domain.Consultation{
		ID:        uuid.NewString(),
		PetID:     in.PetID,
		Date:      in.Date.UTC(),
		Price:     in.Price,
		License:   strings.TrimSpace(in.License),
		CreatedBy: actor.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.consultations.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Str("consultation_id", c.ID).Str("pet_id", c.PetID).Time("date", c.Date).Msg("consultation scheduled")
	return c, nil
}

func (s *ConsultationService) ListByPet(ctx context.Context, actor domain.Actor, petID string) ([]*domain.Consultation, error) {
	if _, err := s.gate.authorize(ctx, actor, petID); err != nil {
		return nil, err
	}
	return s.consultations.ListByPet(ctx, petID)
}

// ListByDay returns the agenda of one calendar day (UTC).
func (s *ConsultationService) ListByDay(ctx context.Context, _ domain.Actor, day time.Time) ([]*domain.Consultation, error) {
	if day.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	y, m, d := day.UTC().Date()
	return s.consultations.ListByDay(ctx, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (s *ConsultationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.consultations.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("consultation_id", id).Str("subject_id", actor.ID).Msg("consultation deleted")
	return nil
}
