package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petcare/clinic-api/internal/core/domain"
)

type stubPetRepo struct {
	byID      map[string]*domain.Pet
	createErr error
}

func newStubPetRepo() *stubPetRepo {
	return &stubPetRepo{byID: make(map[string]*domain.Pet)}
}

func (r *stubPetRepo) Create(_ context.Context, pet *domain.Pet) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *pet
	r.byID[pet.ID] = &clone
	return nil
}

func (r *stubPetRepo) FindByID(_ context.Context, id string) (*domain.Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPetRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Pet, error) {
	out := []*domain.Pet{}
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPetRepo) Update(_ context.Context, pet *domain.Pet) error {
	if _, ok := r.byID[pet.ID]; !ok {
		return domain.ErrPetNotFound
	}
	clone := *pet
	r.byID[pet.ID] = &clone
	return nil
}

type stubVaccineRepo struct {
	byID map[string]*domain.Vaccine
}

func newStubVaccineRepo() *stubVaccineRepo {
	return &stubVaccineRepo{byID: make(map[string]*domain.Vaccine)}
}

func (r *stubVaccineRepo) Create(_ context.Context, v *domain.Vaccine) error {
	clone := *v
	r.byID[v.ID] = &clone
	return nil
}

func (r *stubVaccineRepo) FindByID(_ context.Context, id string) (*domain.Vaccine, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrVaccineNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVaccineRepo) ListByPet(_ context.Context, petID string) ([]*domain.Vaccine, error) {
	out := []*domain.Vaccine{}
	for _, v := range r.byID {
		if v.PetID == petID {
			clone := *v
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedOn.After(out[j].AppliedOn) })
	return out, nil
}

func (r *stubVaccineRepo) Update(_ context.Context, v *domain.Vaccine) error {
	if _, ok := r.byID[v.ID]; !ok {
		return domain.ErrVaccineNotFound
	}
	clone := *v
	r.byID[v.ID] = &clone
	return nil
}

func (r *stubVaccineRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrVaccineNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubConsultationRepo struct {
	byID    map[string]*domain.Consultation
	lastDay time.Time
}

func newStubConsultationRepo() *stubConsultationRepo {
	return &stubConsultationRepo{byID: make(map[string]*domain.Consultation)}
}

func (r *stubConsultationRepo) Create(_ context.Context, c *domain.Consultation) error {
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubConsultationRepo) ListByPet(_ context.Context, petID string) ([]*domain.Consultation, error) {
	out := []*domain.Consultation{}
	for _, c := range r.byID {
		if c.PetID == petID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubConsultationRepo) ListByDay(_ context.Context, day time.Time) ([]*domain.Consultation, error) {
	r.lastDay = day
	out := []*domain.Consultation{}
	end := day.Add(24 * time.Hour)
	for _, c := range r.byID {
		if !c.Date.Before(day) && c.Date.Before(end) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubConsultationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrConsultationNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubPrescriptionStore struct {
	mu   sync.Mutex
	byID map[string]*domain.Prescription
}

func newStubPrescriptionStore() *stubPrescriptionStore {
	return &stubPrescriptionStore{byID: make(map[string]*domain.Prescription)}
}

func (s *stubPrescriptionStore) Create(_ context.Context, p *domain.Prescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *p
	s.byID[p.ID] = &clone
	return nil
}

func (s *stubPrescriptionStore) FindByID(_ context.Context, id string) (*domain.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPrescriptionNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *stubPrescriptionStore) ListByPet(_ context.Context, petID string) ([]*domain.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.Prescription{}
	for _, p := range s.byID {
		if p.PetID == petID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *stubPrescriptionStore) Modify(_ context.Context, id string, fn func(*domain.Prescription) error) (*domain.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPrescriptionNotFound
	}
	next := *p
	if err := fn(&next); err != nil {
		return nil, err
	}
	s.byID[id] = &next
	out := next
	return &out, nil
}

func (s *stubPrescriptionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrPrescriptionNotFound
	}
	delete(s.byID, id)
	return nil
}

var (
	ownerActor = domain.Actor{ID: "owner-1", Role: domain.RoleClient}
	otherActor = domain.Actor{ID: "owner-2", Role: domain.RoleClient}
	vetActor   = domain.Actor{ID: "vet-1", Role: domain.RoleVeterinarian}
	adminActor = domain.Actor{ID: "adm-1", Role: domain.RoleAdministrator}
)

// seedPet stores pet-1 owned by ownerActor.
func seedPet(pets *stubPetRepo) *domain.Pet {
	p := &domain.Pet{ID: "pet-1", OwnerID: ownerActor.ID, Name: "Rex", Breed: "Labrador", Age: 5}
	pets.byID[p.ID] = p
	return p
}
