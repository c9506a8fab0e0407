package ports

import (
	"context"
	"time"

	"github.com/petcare/clinic-api/internal/core/domain"
)

type PetRepository interface {
	Create(ctx context.Context, pet *domain.Pet) error
	FindByID(ctx context.Context, id string) (*domain.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error)
	Update(ctx context.Context, pet *domain.Pet) error
}

type VaccineRepository interface {
	Create(ctx context.Context, v *domain.Vaccine) error
	FindByID(ctx context.Context, id string) (*domain.Vaccine, error)
	// ListByPet returns the history newest applied_on first.
	ListByPet(ctx context.Context, petID string) ([]*domain.Vaccine, error)
	Update(ctx context.Context, v *domain.Vaccine) error
	Delete(ctx context.Context, id string) error
}

type ConsultationRepository interface {
	Create(ctx context.Context, c *domain.Consultation) error
	ListByPet(ctx context.Context, petID string) ([]*domain.Consultation, error)
	// ListByDay returns consultations whose date falls on day (UTC).
	ListByDay(ctx context.Context, day time.Time) ([]*domain.Consultation, error)
	Delete(ctx context.Context, id string) error
}

// PrescriptionStore is the Record Store for prescriptions.
type PrescriptionStore interface {
	Create(ctx context.Context, p *domain.Prescription) error
	FindByID(ctx context.Context, id string) (*domain.Prescription, error)
	ListByPet(ctx context.Context, petID string) ([]*domain.Prescription, error)
	// Modify applies fn to the stored record and persists the result in one
	// step. An error from fn aborts the write and is returned as is.
	Modify(ctx context.Context, id string, fn func(p *domain.Prescription) error) (*domain.Prescription, error)
	Delete(ctx context.Context, id string) error
}

// AuditRepository persists access decisions.
type AuditRepository interface {
	InsertDecision(ctx context.Context, d *domain.AccessDecision) error
}
