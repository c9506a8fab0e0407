package domain

import "time"

// DateLayout is the wire format of calendar dates (applied_on, consultation date, ...).
const DateLayout = "2006-01-02"

// Pet is an animal under the clinic's care, owned by a Client identity.
type Pet struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Name      string    `json:"name" bson:"name"`
	Breed     string    `json:"breed" bson:"breed"`
	Age       int       `json:"age" bson:"age"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Vaccine is one applied dose in a pet's vaccination history.
type Vaccine struct {
	ID           string     `json:"id" bson:"_id"`
	PetID        string     `json:"pet_id" bson:"pet_id"`
	Name         string     `json:"name" bson:"name"`
	Dose         string     `json:"dose,omitempty" bson:"dose,omitempty"`
	AppliedOn    time.Time  `json:"applied_on" bson:"applied_on"`
	NextDose     *time.Time `json:"next_dose,omitempty" bson:"next_dose,omitempty"`
	Lot          string     `json:"lot,omitempty" bson:"lot,omitempty"`
	Veterinarian string     `json:"veterinarian" bson:"veterinarian"`
	Notes        string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// Consultation is a scheduled appointment of a pet with a veterinarian.
type Consultation struct {
	ID        string    `json:"id" bson:"_id"`
	PetID     string    `json:"pet_id" bson:"pet_id"`
	Date      time.Time `json:"date" bson:"date"`
	Price     float64   `json:"price" bson:"price"`
	License   string    `json:"license" bson:"license"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// PrescriptionStatus is the lifecycle state of a prescription.
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
)

// Medication is a single line of a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
	Route     string `json:"route,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Prescription is a veterinarian's treatment order for a pet.
type Prescription struct {
	ID               string             `json:"id"`
	PetID            string             `json:"pet_id"`
	Veterinarian     string             `json:"veterinarian"`
	VeterinarianID   string             `json:"veterinarian_id,omitempty"`
	ConsultationDate time.Time          `json:"consultation_date"`
	Diagnosis        string             `json:"diagnosis"`
	Medications      []Medication       `json:"medications"`
	Instructions     string             `json:"instructions,omitempty"`
	FollowUp         *time.Time         `json:"follow_up,omitempty"`
	Status           PrescriptionStatus `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
}
