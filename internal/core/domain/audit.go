package domain

import "time"

// AccessDecision records one Access Guard verdict for the audit trail.
type AccessDecision struct {
	Operation string    `bson:"operation"`
	SubjectID string    `bson:"subject_id,omitempty"`
	Role      Role      `bson:"role,omitempty"`
	Outcome   string    `bson:"outcome"`
	Method    string    `bson:"method"`
	Path      string    `bson:"path"`
	RequestID string    `bson:"request_id,omitempty"`
	At        time.Time `bson:"at"`
}
