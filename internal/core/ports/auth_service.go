package ports

import (
	"context"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// TokenIssuer mints session tokens. It performs no I/O.
type TokenIssuer interface {
	Issue(identity *domain.Identity) (domain.Session, error)
}

// TokenValidator verifies a session token and recovers its claims. It performs no I/O.
type TokenValidator interface {
	Validate(token string) (domain.Claims, error)
}

// LoginThrottle counts failed logins per email inside a fixed window.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// RegisterClientInput is a client self-registration together with the first pet.
type RegisterClientInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Document        string
	Pet             PetInput
}

// RegisterVeterinarianInput creates a veterinarian account.
type RegisterVeterinarianInput struct {
	Name     string
	Email    string
	Password string
	License  string
	Shift    string
}

// ResetPasswordInput replaces the credential of the account owning Email.
type ResetPasswordInput struct {
	Email              string
	NewPassword        string
	ConfirmNewPassword string
}

// AuthService is the account use-case surface exposed to the transport layer.
type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.Session, *domain.Identity, error)
	RegisterClient(ctx context.Context, in RegisterClientInput) (*domain.Identity, *domain.Pet, error)
	RegisterVeterinarian(ctx context.Context, in RegisterVeterinarianInput) (*domain.Identity, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
	ListVeterinarians(ctx context.Context) ([]*domain.Identity, error)
	RoleGroups(ctx context.Context) ([]domain.RoleGroup, error)
}
