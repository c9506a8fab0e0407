package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

func newVaccineFixture() (*VaccineService, *stubVaccineRepo) {
	pets := newStubPetRepo()
	seedPet(pets)
	vaccines := newStubVaccineRepo()
	return NewVaccineService(pets, vaccines, zerolog.Nop()), vaccines
}

func vaccineInput(applied time.Time) ports.VaccineInput {
	return ports.VaccineInput{
		PetID:        "pet-1",
		Name:         "Rabies",
		Dose:         "1ml",
		AppliedOn:    applied,
		Veterinarian: "Dr. Silva",
	}
}

func TestVaccineService_Create(t *testing.T) {
	svc, vaccines := newVaccineFixture()
	applied := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	v, err := svc.Create(context.Background(), vetActor, vaccineInput(applied))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.ID == "" || !v.AppliedOn.Equal(applied) {
		t.Fatalf("unexpected vaccine: %+v", v)
	}
	if _, ok := vaccines.byID[v.ID]; !ok {
		t.Fatalf("vaccine not persisted")
	}
}

func TestVaccineService_Create_Validation(t *testing.T) {
	svc, _ := newVaccineFixture()
	applied := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	before := applied.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		mutate  func(*ports.VaccineInput)
		wantErr error
	}{
		{"missing name", func(in *ports.VaccineInput) { in.Name = "" }, domain.ErrInvalidInput},
		{"missing veterinarian", func(in *ports.VaccineInput) { in.Veterinarian = " " }, domain.ErrInvalidInput},
		{"missing applied_on", func(in *ports.VaccineInput) { in.AppliedOn = time.Time{} }, domain.ErrInvalidInput},
		{"next dose before applied", func(in *ports.VaccineInput) { in.NextDose = &before }, domain.ErrInvalidInput},
		{"unknown pet", func(in *ports.VaccineInput) { in.PetID = "pet-9" }, domain.ErrPetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := vaccineInput(applied)
			tt.mutate(&in)
			if _, err := svc.Create(context.Background(), vetActor, in); err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestVaccineService_ListByPet_NewestFirstAndScoped(t *testing.T) {
	svc, _ := newVaccineFixture()
	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{older, newer} {
		if _, err := svc.Create(context.Background(), adminActor, vaccineInput(d)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := svc.ListByPet(context.Background(), ownerActor, "pet-1")
	if err != nil {
		t.Fatalf("ListByPet: %v", err)
	}
	if len(list) != 2 || !list[0].AppliedOn.Equal(newer) {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if _, err := svc.ListByPet(context.Background(), otherActor, "pet-1"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for other owner, got %v", err)
	}
}

func TestVaccineService_GetUpdateDelete(t *testing.T) {
	svc, vaccines := newVaccineFixture()
	applied := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	v, err := svc.Create(context.Background(), vetActor, vaccineInput(applied))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), otherActor, v.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if got, err := svc.Get(context.Background(), ownerActor, v.ID); err != nil || got.ID != v.ID {
		t.Fatalf("owner Get: %v", err)
	}

	in := vaccineInput(applied)
	in.PetID = ""
	in.Lot = "L-42"
	updated, err := svc.Update(context.Background(), vetActor, v.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Lot != "L-42" || updated.PetID != "pet-1" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if err := svc.Delete(context.Background(), vetActor, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(vaccines.byID) != 0 {
		t.Fatalf("vaccine not deleted")
	}
	if err := svc.Delete(context.Background(), vetActor, v.ID); err != domain.ErrVaccineNotFound {
		t.Fatalf("expected ErrVaccineNotFound, got %v", err)
	}
}
