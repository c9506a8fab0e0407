package domain

import "time"

// Claims is what a session token proves about its bearer.
type Claims struct {
	SubjectID string    `json:"subject_id"`
	Email     string    `json:"email"`
	RoleType  string    `json:"role_type"`
	Role      Role      `json:"role_code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session is a freshly issued token and its absolute expiry.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Actor is the caller on whose behalf a clinic operation runs.
type Actor struct {
	ID   string
	Role Role
}

func (c Claims) Actor() Actor {
	return Actor{ID: c.SubjectID, Role: c.Role}
}

// ScopedToOwner reports whether the actor may only touch records of pets it owns.
func (a Actor) ScopedToOwner() bool {
	return a.Role == RoleClient
}
