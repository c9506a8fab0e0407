// Package authz holds the Authorization Policy: the single table mapping every
// protected operation to the role set allowed to run it, and the pure decision
// function the Access Guard consults.
package authz

import (
	"errors"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// Operation identifies a protected operation.
type Operation string

const (
	OpViewProfile          Operation = "auth.profile.view"
	OpResetPassword        Operation = "auth.password.reset"
	OpListRoleGroups       Operation = "auth.role_groups.list"
	OpRegisterVeterinarian Operation = "veterinarians.create"
	OpListVeterinarians    Operation = "veterinarians.list"

	OpListOwnPets Operation = "pets.own.list"
	OpViewPet     Operation = "pets.view"
	OpUpdatePet   Operation = "pets.update"

	OpCreateConsultation     Operation = "consultations.create"
	OpListPetConsultations   Operation = "consultations.pet.list"
	OpListConsultationsByDay Operation = "consultations.day.list"
	OpDeleteConsultation     Operation = "consultations.delete"

	OpCreateVaccine   Operation = "vaccines.create"
	OpViewVaccine     Operation = "vaccines.view"
	OpListPetVaccines Operation = "vaccines.pet.list"
	OpUpdateVaccine   Operation = "vaccines.update"
	OpDeleteVaccine   Operation = "vaccines.delete"

	OpCreatePrescription   Operation = "prescriptions.create"
	OpViewPrescription     Operation = "prescriptions.view"
	OpListPetPrescriptions Operation = "prescriptions.pet.list"
	OpUpdatePrescription   Operation = "prescriptions.update"
	OpFinalizePrescription Operation = "prescriptions.finalize"
	OpDeletePrescription   Operation = "prescriptions.delete"
)

// RoleSet is the set of roles allowed to run an operation. An empty set means
// any authenticated caller.
type RoleSet []domain.Role

var (
	AnyAuthenticated         = RoleSet{}
	Administrators           = RoleSet{domain.RoleAdministrator}
	Staff                    = RoleSet{domain.RoleAdministrator, domain.RoleVeterinarian}
	ClientsAndAdministrators = RoleSet{domain.RoleAdministrator, domain.RoleClient}
)

// Allows reports whether role is in the set. The empty set allows every role.
func (s RoleSet) Allows(role domain.Role) bool {
	if len(s) == 0 {
		return true
	}
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// policy is read-only after package init.
var policy = map[Operation]RoleSet{
	OpViewProfile:          AnyAuthenticated,
	OpResetPassword:        Administrators,
	OpListRoleGroups:       Administrators,
	OpRegisterVeterinarian: Administrators,
	OpListVeterinarians:    Staff,

	OpListOwnPets: AnyAuthenticated,
	OpViewPet:     AnyAuthenticated,
	OpUpdatePet:   ClientsAndAdministrators,

	OpCreateConsultation:     Staff,
	OpListPetConsultations:   AnyAuthenticated,
	OpListConsultationsByDay: Staff,
	OpDeleteConsultation:     Staff,

	OpCreateVaccine:   Staff,
	OpViewVaccine:     AnyAuthenticated,
	OpListPetVaccines: AnyAuthenticated,
	OpUpdateVaccine:   Staff,
	OpDeleteVaccine:   Staff,

	OpCreatePrescription:   Staff,
	OpViewPrescription:     AnyAuthenticated,
	OpListPetPrescriptions: AnyAuthenticated,
	OpUpdatePrescription:   Staff,
	OpFinalizePrescription: Staff,
	OpDeletePrescription:   Staff,
}

// Required returns the role set declared for op.
func Required(op Operation) (RoleSet, bool) {
	roles, ok := policy[op]
	if !ok {
		return nil, false
	}
	out := make(RoleSet, len(roles))
	copy(out, roles)
	return out, true
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	DenyMissingToken
	DenyInvalidToken
	DenyInsufficientRole
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyMissingToken:
		return "deny_missing_token"
	case DenyInvalidToken:
		return "deny_invalid_token"
	case DenyInsufficientRole:
		return "deny_insufficient_role"
	default:
		return "unknown"
	}
}

// Evaluate decides a request given the outcome of token validation and the
// required role set. tokenErr takes precedence over claims.
func Evaluate(claims *domain.Claims, tokenErr error, required RoleSet) Decision {
	switch {
	case errors.Is(tokenErr, domain.ErrNoToken):
		return DenyMissingToken
	case tokenErr != nil:
		return DenyInvalidToken
	case claims == nil:
		return DenyMissingToken
	case !required.Allows(claims.Role):
		return DenyInsufficientRole
	default:
		return Allow
	}
}

// Decide is Evaluate against the table entry of op. Operations missing from the
// table are never allowed.
func Decide(claims *domain.Claims, tokenErr error, op Operation) Decision {
	d := Evaluate(claims, tokenErr, AnyAuthenticated)
	if d != Allow {
		return d
	}
	required, ok := policy[op]
	if !ok {
		return DenyInsufficientRole
	}
	return Evaluate(claims, nil, required)
}
