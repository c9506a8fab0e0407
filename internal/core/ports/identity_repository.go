package ports

import (
	"context"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// IdentityRepository is the Persistence Service for accounts. Credential hashing
// happens inside the store on write, and password comparison is the store's
// decision: callers only learn match or no match.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// FindByCredentials returns domain.ErrIdentityNotFound both for an unknown
	// email and for a password that does not match.
	FindByCredentials(ctx context.Context, email, password string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity, password string) (*domain.Identity, error)
	UpdatePassword(ctx context.Context, email, password string) error
	Delete(ctx context.Context, id string) error
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Identity, error)
	RoleGroups(ctx context.Context) ([]domain.RoleGroup, error)
	// EnsureRoleGroups upserts the bootstrap groups and returns them with their ids.
	EnsureRoleGroups(ctx context.Context, groups []domain.RoleGroup) ([]domain.RoleGroup, error)
}
