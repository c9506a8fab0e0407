package domain

import "strings"

// Role is the machine-readable code of a Role Group.
type Role string

const (
	RoleAdministrator Role = "ADM"
	RoleVeterinarian  Role = "VET"
	RoleClient        Role = "CLI"
)

// RoleGroup is one of the fixed permission categories an Identity belongs to.
type RoleGroup struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Code        Role   `json:"code"`
	Description string `json:"description"`
}

// roleGroups is the bootstrap set. Codes never change after bootstrap.
var roleGroups = []RoleGroup{
	{Type: "Administrator", Code: RoleAdministrator, Description: "Full system access, manages users and configuration"},
	{Type: "Veterinarian", Code: RoleVeterinarian, Description: "Creates consultations, vaccines and prescriptions"},
	{Type: "Client", Code: RoleClient, Description: "Views own pet data and history"},
}

// RoleGroups returns a copy of the bootstrap Role Groups.
func RoleGroups() []RoleGroup {
	out := make([]RoleGroup, len(roleGroups))
	copy(out, roleGroups)
	return out
}

// GroupFor returns the bootstrap group carrying role.
func GroupFor(role Role) (RoleGroup, bool) {
	for _, g := range roleGroups {
		if g.Code == role {
			return g, true
		}
	}
	return RoleGroup{}, false
}

// ParseRole accepts a role code in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := GroupFor(r)
	return r, ok
}

func (r Role) Valid() bool {
	_, ok := GroupFor(r)
	return ok
}

// TypeName is the human role-group type ("Administrator", ...).
func (r Role) TypeName() string {
	g, _ := GroupFor(r)
	return g.Type
}
