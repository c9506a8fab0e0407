package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/petcare/clinic-api/internal/core/domain"
)

func newTestStore(t *testing.T) (*PrescriptionStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prescriptions.json")
	s, err := NewPrescriptionStore(path)
	if err != nil {
		t.Fatalf("NewPrescriptionStore: %v", err)
	}
	return s, path
}

func prescription(id, petID string, day int) *domain.Prescription {
	return &domain.Prescription{
		ID:               id,
		PetID:            petID,
		Veterinarian:     "Dr. Silva",
		ConsultationDate: time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		Diagnosis:        "Otitis",
		Medications:      []domain.Medication{{Name: "Otosporin", Dosage: "3 drops"}},
		Status:           domain.PrescriptionActive,
	}
}

func TestPrescriptionStore_CreatesFile(t *testing.T) {
	_, path := newTestStore(t)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}

func TestPrescriptionStore_CRUD(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, prescription("p1", "pet-1", 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Diagnosis != "Otitis" || len(got.Medications) != 1 {
		t.Fatalf("unexpected prescription: %+v", got)
	}

	if _, err := s.Modify(ctx, "p1", func(p *domain.Prescription) error {
		p.Status = domain.PrescriptionCompleted
		return nil
	}); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	again, _ := s.FindByID(ctx, "p1")
	if again.Status != domain.PrescriptionCompleted {
		t.Fatalf("update not persisted: %s", again.Status)
	}

	if err := s.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByID(ctx, "p1"); err != domain.ErrPrescriptionNotFound {
		t.Fatalf("expected ErrPrescriptionNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "p1"); err != domain.ErrPrescriptionNotFound {
		t.Fatalf("expected ErrPrescriptionNotFound on second delete, got %v", err)
	}
	if _, err := s.Modify(ctx, "ghost", func(*domain.Prescription) error { return nil }); err != domain.ErrPrescriptionNotFound {
		t.Fatalf("expected ErrPrescriptionNotFound on modify, got %v", err)
	}
}

func TestPrescriptionStore_ModifyErrorLeavesRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if err := s.Create(ctx, prescription("p1", "pet-1", 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := s.Modify(ctx, "p1", func(p *domain.Prescription) error {
		p.Diagnosis = "changed"
		return domain.ErrPrescriptionClosed
	})
	if err != domain.ErrPrescriptionClosed {
		t.Fatalf("expected fn error, got %v", err)
	}
	got, _ := s.FindByID(ctx, "p1")
	if got.Diagnosis != "Otitis" {
		t.Fatalf("aborted modify was persisted: %q", got.Diagnosis)
	}
}

func TestPrescriptionStore_ModifySerializesCheckAndSet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if err := s.Create(ctx, prescription("p1", "pet-1", 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Modify(ctx, "p1", func(p *domain.Prescription) error {
				if p.Status == domain.PrescriptionCompleted {
					return domain.ErrPrescriptionClosed
				}
				p.Status = domain.PrescriptionCompleted
				return nil
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one transition, got %d", wins)
	}
}

func TestPrescriptionStore_SurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	if err := s.Create(context.Background(), prescription("p1", "pet-1", 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reopened, err := NewPrescriptionStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.FindByID(context.Background(), "p1"); err != nil {
		t.Fatalf("prescription lost on reopen: %v", err)
	}
}

func TestPrescriptionStore_ListByPetNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_ = s.Create(ctx, prescription("old", "pet-1", 1))
	_ = s.Create(ctx, prescription("new", "pet-1", 20))
	_ = s.Create(ctx, prescription("other", "pet-2", 10))

	list, err := s.ListByPet(ctx, "pet-1")
	if err != nil {
		t.Fatalf("ListByPet: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "old" {
		t.Fatalf("unexpected order: %+v", list)
	}

	empty, err := s.ListByPet(ctx, "pet-9")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v (%v)", empty, err)
	}
}

func TestPrescriptionStore_DuplicateID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_ = s.Create(ctx, prescription("p1", "pet-1", 1))
	if err := s.Create(ctx, prescription("p1", "pet-1", 1)); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
}

func TestPrescriptionStore_ConcurrentWrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			if err := s.Create(ctx, prescription(id, "pet-1", 1)); err != nil {
				t.Errorf("Create %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	list, _ := s.ListByPet(ctx, "pet-1")
	if len(list) != 20 {
		t.Fatalf("expected 20 prescriptions, got %d", len(list))
	}
}

func TestNewPrescriptionStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prescriptions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPrescriptionStore(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}
