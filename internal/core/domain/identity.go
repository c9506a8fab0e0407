package domain

import "time"

// MaxPasswordBytes is the longest plaintext bcrypt hashes without truncation.
const MaxPasswordBytes = 72

// Identity models a user account able to authenticate.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Group     RoleGroup `json:"group"`
	Phone     string    `json:"phone,omitempty"`
	Document  string    `json:"document,omitempty"`
	License   string    `json:"license,omitempty"`
	Shift     string    `json:"shift,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role is shorthand for the code of the identity's group.
func (i *Identity) Role() Role {
	return i.Group.Code
}
