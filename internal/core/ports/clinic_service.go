package ports

import (
	"context"
	"time"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// PetInput carries the editable fields of a pet.
type PetInput struct {
	Name  string
	Breed string
	Age   int
	Notes string
}

type PetService interface {
	ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Pet, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Pet, error)
	Update(ctx context.Context, actor domain.Actor, id string, in PetInput) (*domain.Pet, error)
}

// VaccineInput carries the editable fields of a vaccine record.
type VaccineInput struct {
	PetID        string
	Name         string
	Dose         string
	AppliedOn    time.Time
	NextDose     *time.Time
	Lot          string
	Veterinarian string
	Notes        string
}

type VaccineService interface {
	Create(ctx context.Context, actor domain.Actor, in VaccineInput) (*domain.Vaccine, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Vaccine, error)
	ListByPet(ctx context.Context, actor domain.Actor, petID string) ([]*domain.Vaccine, error)
	Update(ctx context.Context, actor domain.Actor, id string, in VaccineInput) (*domain.Vaccine, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// ConsultationInput schedules a consultation.
type ConsultationInput struct {
	PetID   string
	Date    time.Time
	Price   float64
	License string
}

type ConsultationService interface {
	Create(ctx context.Context, actor domain.Actor, in ConsultationInput) (*domain.Consultation, error)
	ListByPet(ctx context.Context, actor domain.Actor, petID string) ([]*domain.Consultation, error)
	ListByDay(ctx context.Context, actor domain.Actor, day time.Time) ([]*domain.Consultation, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// PrescriptionInput carries a prescription body.
type PrescriptionInput struct {
	PetID            string
	Veterinarian     string
	VeterinarianID   string
	ConsultationDate time.Time
	Diagnosis        string
	Medications      []domain.Medication
	Instructions     string
	FollowUp         *time.Time
}

type PrescriptionService interface {
	Create(ctx context.Context, actor domain.Actor, in PrescriptionInput) (*domain.Prescription, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Prescription, error)
	ListByPet(ctx context.Context, actor domain.Actor, petID string) ([]*domain.Prescription, error)
	Update(ctx context.Context, actor domain.Actor, id string, in PrescriptionInput) (*domain.Prescription, error)
	Finalize(ctx context.Context, actor domain.Actor, id string) (*domain.Prescription, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
