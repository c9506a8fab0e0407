// Package filestore keeps prescriptions in a single JSON document on disk.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

type document struct {
	Prescriptions []*domain.Prescription `json:"prescriptions"`
}

// PrescriptionStore serialises all access through one mutex and replaces the
// file atomically on every write.
type PrescriptionStore struct {
	mu   sync.Mutex
	path string
}

// NewPrescriptionStore opens path, creating an empty document when it is missing.
func NewPrescriptionStore(path string) (*PrescriptionStore, error) {
	s := &PrescriptionStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(&document{Prescriptions: []*domain.Prescription{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat prescription file: %w", err)
	}
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PrescriptionStore) read() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read prescription file: %w", err)
	}
	var doc document
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode prescription file: %w", err)
		}
	}
	return &doc, nil
}

func (s *PrescriptionStore) write(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prescriptions: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".prescriptions-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace prescription file: %w", err)
	}
	return nil
}

func (s *PrescriptionStore) update(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *PrescriptionStore) view(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	return fn(doc)
}

func indexOf(doc *document, id string) int {
	for i, p := range doc.Prescriptions {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clonePrescription(p *domain.Prescription) *domain.Prescription {
	c := *p
	c.Medications = append([]domain.Medication(nil), p.Medications...)
	return &c
}

func (s *PrescriptionStore) Create(ctx context.Context, p *domain.Prescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(doc *document) error {
		if indexOf(doc, p.ID) >= 0 {
			return fmt.Errorf("prescription %s already stored: %w", p.ID, domain.ErrInvalidInput)
		}
		doc.Prescriptions = append(doc.Prescriptions, clonePrescription(p))
		return nil
	})
}

func (s *PrescriptionStore) FindByID(ctx context.Context, id string) (*domain.Prescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.Prescription
	err := s.view(func(doc *document) error {
		i := indexOf(doc, id)
		if i < 0 {
			return domain.ErrPrescriptionNotFound
		}
		out = doc.Prescriptions[i]
		return nil
	})
	return out, err
}

// ListByPet returns the pet's prescriptions, most recent consultation first.
func (s *PrescriptionStore) ListByPet(ctx context.Context, petID string) ([]*domain.Prescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []*domain.Prescription{}
	err := s.view(func(doc *document) error {
		for _, p := range doc.Prescriptions {
			if p.PetID == petID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConsultationDate.After(out[j].ConsultationDate)
	})
	return out, err
}

// Modify runs fn on a copy of the record under the store lock. The copy
// replaces the record only when fn succeeds.
func (s *PrescriptionStore) Modify(ctx context.Context, id string, fn func(p *domain.Prescription) error) (*domain.Prescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *domain.Prescription
	err := s.update(func(doc *document) error {
		i := indexOf(doc, id)
		if i < 0 {
			return domain.ErrPrescriptionNotFound
		}
		next := clonePrescription(doc.Prescriptions[i])
		if err := fn(next); err != nil {
			return err
		}
		next.ID = id
		doc.Prescriptions[i] = next
		out = clonePrescription(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PrescriptionStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(doc *document) error {
		i := indexOf(doc, id)
		if i < 0 {
			return domain.ErrPrescriptionNotFound
		}
		doc.Prescriptions = append(doc.Prescriptions[:i], doc.Prescriptions[i+1:]...)
		return nil
	})
}

// Ping confirms the file is still readable.
func (s *PrescriptionStore) Ping(context.Context) error {
	return s.view(func(*document) error { return nil })
}

var _ ports.PrescriptionStore = (*PrescriptionStore)(nil)
