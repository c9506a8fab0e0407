package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

type stubPetService struct {
	pets      []*domain.Pet
	getErr    error
	gotActor  domain.Actor
	gotUpdate ports.PetInput
}

func (s *stubPetService) ListMine(_ context.Context, actor domain.Actor) ([]*domain.Pet, error) {
	s.gotActor = actor
	return s.pets, nil
}

func (s *stubPetService) Get(_ context.Context, actor domain.Actor, id string) (*domain.Pet, error) {
	s.gotActor = actor
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &domain.Pet{ID: id, OwnerID: actor.ID}, nil
}

func (s *stubPetService) Update(_ context.Context, actor domain.Actor, id string, in ports.PetInput) (*domain.Pet, error) {
	s.gotActor = actor
	s.gotUpdate = in
	return &domain.Pet{ID: id, OwnerID: actor.ID, Name: in.Name, Age: in.Age}, nil
}

type stubVaccineService struct {
	created ports.VaccineInput
	deleted string
}

func (s *stubVaccineService) Create(_ context.Context, _ domain.Actor, in ports.VaccineInput) (*domain.Vaccine, error) {
	s.created = in
	return &domain.Vaccine{ID: "vac-1", PetID: in.PetID, Name: in.Name, AppliedOn: in.AppliedOn, NextDose: in.NextDose}, nil
}

func (s *stubVaccineService) Get(context.Context, domain.Actor, string) (*domain.Vaccine, error) {
	return nil, domain.ErrVaccineNotFound
}

func (s *stubVaccineService) ListByPet(context.Context, domain.Actor, string) ([]*domain.Vaccine, error) {
	return nil, nil
}

func (s *stubVaccineService) Update(_ context.Context, _ domain.Actor, id string, in ports.VaccineInput) (*domain.Vaccine, error) {
	return &domain.Vaccine{ID: id, PetID: in.PetID, Name: in.Name}, nil
}

func (s *stubVaccineService) Delete(_ context.Context, _ domain.Actor, id string) error {
	s.deleted = id
	return nil
}

type stubConsultationService struct {
	created ports.ConsultationInput
	day     time.Time
}

func (s *stubConsultationService) Create(_ context.Context, actor domain.Actor, in ports.ConsultationInput) (*domain.Consultation, error) {
	s.created = in
	return &domain.Consultation{ID: "con-1", PetID: in.PetID, Date: in.Date, CreatedBy: actor.ID}, nil
}

func (s *stubConsultationService) ListByPet(context.Context, domain.Actor, string) ([]*domain.Consultation, error) {
	return []*domain.Consultation{{ID: "con-1"}}, nil
}

func (s *stubConsultationService) ListByDay(_ context.Context, _ domain.Actor, day time.Time) ([]*domain.Consultation, error) {
	s.day = day
	return nil, nil
}

func (s *stubConsultationService) Delete(context.Context, domain.Actor, string) error {
	return domain.ErrConsultationNotFound
}

type stubPrescriptionService struct {
	created  ports.PrescriptionInput
	finalErr error
}

func (s *stubPrescriptionService) Create(_ context.Context, _ domain.Actor, in ports.PrescriptionInput) (*domain.Prescription, error) {
	s.created = in
	return &domain.Prescription{ID: "rx-1", PetID: in.PetID, Medications: in.Medications, Status: domain.PrescriptionActive}, nil
}

func (s *stubPrescriptionService) Get(_ context.Context, _ domain.Actor, id string) (*domain.Prescription, error) {
	return &domain.Prescription{ID: id}, nil
}

func (s *stubPrescriptionService) ListByPet(context.Context, domain.Actor, string) ([]*domain.Prescription, error) {
	return nil, nil
}

func (s *stubPrescriptionService) Update(_ context.Context, _ domain.Actor, id string, _ ports.PrescriptionInput) (*domain.Prescription, error) {
	return &domain.Prescription{ID: id}, nil
}

func (s *stubPrescriptionService) Finalize(_ context.Context, _ domain.Actor, id string) (*domain.Prescription, error) {
	if s.finalErr != nil {
		return nil, s.finalErr
	}
	return &domain.Prescription{ID: id, Status: domain.PrescriptionCompleted}, nil
}

func (s *stubPrescriptionService) Delete(context.Context, domain.Actor, string) error {
	return nil
}

func TestPetHandler_ListMine_UsesCallerFromClaims(t *testing.T) {
	svc := &stubPetService{pets: []*domain.Pet{{ID: "pet-1", OwnerID: "owner-1"}}}
	c, rec := newContext(http.MethodGet, "/pets/mine", "")

	if err := NewPetHandler(svc).ListMine(asCaller(c, clientClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if svc.gotActor != (domain.Actor{ID: "owner-1", Role: domain.RoleClient}) {
		t.Fatalf("unexpected actor: %+v", svc.gotActor)
	}

	var resp listResponse[domain.Pet]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || resp.Items[0].ID != "pet-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPetHandler_RequiresClaims(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/pets/pet-1", "")
	expectHTTPError(t, NewPetHandler(&stubPetService{}).Get(c), http.StatusUnauthorized)
}

func TestPetHandler_Get_PropagatesNotFound(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/pets/pet-2", "")
	c.SetParamNames("id")
	c.SetParamValues("pet-2")

	err := NewPetHandler(&stubPetService{getErr: domain.ErrPetNotFound}).Get(asCaller(c, clientClaims))
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Fatalf("expected ErrPetNotFound, got %v", err)
	}
}

func TestPetHandler_Update(t *testing.T) {
	svc := &stubPetService{}
	c, rec := newContext(http.MethodPut, "/pets/pet-1", `{"name":"Rex","breed":"Beagle","age":4}`)
	c.SetParamNames("id")
	c.SetParamValues("pet-1")

	if err := NewPetHandler(svc).Update(asCaller(c, clientClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if svc.gotUpdate != (ports.PetInput{Name: "Rex", Breed: "Beagle", Age: 4}) {
		t.Fatalf("unexpected input: %+v", svc.gotUpdate)
	}

	c, _ = newContext(http.MethodPut, "/pets/pet-1", `{"name":"Rex","age":-1}`)
	expectHTTPError(t, NewPetHandler(svc).Update(asCaller(c, clientClaims)), http.StatusUnprocessableEntity)
}

func TestVaccineHandler_Create_ParsesDates(t *testing.T) {
	svc := &stubVaccineService{}
	body := `{"pet_id":"pet-1","name":"Rabies","applied_on":"2026-01-10","next_dose":"2027-01-10","veterinarian":"Dr. Lee"}`
	c, rec := newContext(http.MethodPost, "/vaccines", body)

	if err := NewVaccineHandler(svc).Create(asCaller(c, vetClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	want := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	if !svc.created.AppliedOn.Equal(want) {
		t.Fatalf("unexpected applied_on: %v", svc.created.AppliedOn)
	}
	if svc.created.NextDose == nil || !svc.created.NextDose.Equal(want.AddDate(1, 0, 0)) {
		t.Fatalf("unexpected next_dose: %v", svc.created.NextDose)
	}
}

func TestVaccineHandler_Create_RejectsBadDate(t *testing.T) {
	body := `{"pet_id":"pet-1","name":"Rabies","applied_on":"10/01/2026","veterinarian":"Dr. Lee"}`
	c, _ := newContext(http.MethodPost, "/vaccines", body)

	he := expectHTTPError(t, NewVaccineHandler(&stubVaccineService{}).Create(asCaller(c, vetClaims)), http.StatusUnprocessableEntity)
	if he.Message != "applied_on must be a date (YYYY-MM-DD)" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestVaccineHandler_Delete(t *testing.T) {
	svc := &stubVaccineService{}
	c, rec := newContext(http.MethodDelete, "/vaccines/vac-1", "")
	c.SetParamNames("id")
	c.SetParamValues("vac-1")

	if err := NewVaccineHandler(svc).Delete(asCaller(c, vetClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusNoContent)
	if svc.deleted != "vac-1" {
		t.Fatalf("expected vac-1 deleted, got %q", svc.deleted)
	}
}

func TestConsultationHandler_Create_AcceptsTimestamp(t *testing.T) {
	svc := &stubConsultationService{}
	body := `{"pet_id":"pet-1","date":"2026-03-05T14:30:00Z","price":120.5,"license":"CRMV-1234"}`
	c, rec := newContext(http.MethodPost, "/consultations", body)

	if err := NewConsultationHandler(svc).Create(asCaller(c, vetClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)
	if !svc.created.Date.Equal(time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)) || svc.created.Price != 120.5 {
		t.Fatalf("unexpected input: %+v", svc.created)
	}
}

func TestConsultationHandler_ListByDay(t *testing.T) {
	svc := &stubConsultationService{}
	c, rec := newContext(http.MethodGet, "/consultations?date=2026-03-05", "")

	if err := NewConsultationHandler(svc).ListByDay(asCaller(c, vetClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if !svc.day.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day: %v", svc.day)
	}

	c, _ = newContext(http.MethodGet, "/consultations", "")
	expectHTTPError(t, NewConsultationHandler(svc).ListByDay(asCaller(c, vetClaims)), http.StatusUnprocessableEntity)
}

func TestConsultationHandler_Delete_PropagatesNotFound(t *testing.T) {
	c, _ := newContext(http.MethodDelete, "/consultations/missing", "")
	err := NewConsultationHandler(&stubConsultationService{}).Delete(asCaller(c, vetClaims))
	if !errors.Is(err, domain.ErrConsultationNotFound) {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}
}

func TestPrescriptionHandler_Create(t *testing.T) {
	svc := &stubPrescriptionService{}
	body := `{"pet_id":"pet-1","veterinarian":"Dr. Lee","consultation_date":"2026-03-05","diagnosis":"otitis",` +
		`"medications":[{"name":"Otomax","dosage":"5 drops","frequency":"12h","duration":"7 days"}]}`
	c, rec := newContext(http.MethodPost, "/prescriptions", body)

	if err := NewPrescriptionHandler(svc).Create(asCaller(c, vetClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)
	if len(svc.created.Medications) != 1 || svc.created.Medications[0].Dosage != "5 drops" || svc.created.FollowUp != nil {
		t.Fatalf("unexpected input: %+v", svc.created)
	}
}

func TestPrescriptionHandler_Create_ValidatesMedications(t *testing.T) {
	tests := []struct {
		name string
		meds string
		want string
	}{
		{"none", `[]`, "medications must contain at least 1 item(s)"},
		{"missing dosage", `[{"name":"Otomax"}]`, "medications[0].dosage is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"pet_id":"pet-1","veterinarian":"Dr. Lee","consultation_date":"2026-03-05","diagnosis":"otitis","medications":` + tt.meds + `}`
			c, _ := newContext(http.MethodPost, "/prescriptions", body)

			he := expectHTTPError(t, NewPrescriptionHandler(&stubPrescriptionService{}).Create(asCaller(c, vetClaims)), http.StatusUnprocessableEntity)
			if he.Message != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, he.Message)
			}
		})
	}
}

func TestPrescriptionHandler_Finalize(t *testing.T) {
	c, rec := newContext(http.MethodPatch, "/prescriptions/rx-1/finalize", "")
	c.SetParamNames("id")
	c.SetParamValues("rx-1")

	if err := NewPrescriptionHandler(&stubPrescriptionService{}).Finalize(asCaller(c, vetClaims)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var p domain.Prescription
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if p.Status != domain.PrescriptionCompleted {
		t.Fatalf("expected completed, got %s", p.Status)
	}

	c, _ = newContext(http.MethodPatch, "/prescriptions/rx-1/finalize", "")
	err := NewPrescriptionHandler(&stubPrescriptionService{finalErr: domain.ErrPrescriptionClosed}).Finalize(asCaller(c, vetClaims))
	if !errors.Is(err, domain.ErrPrescriptionClosed) {
		t.Fatalf("expected ErrPrescriptionClosed, got %v", err)
	}
}
