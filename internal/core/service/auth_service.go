package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

// AuthService implements credential verification, login and account management.
type AuthService struct {
	identities ports.IdentityRepository
	pets       ports.PetRepository
	tokens     ports.TokenIssuer
	throttle   ports.LoginThrottle
	log        zerolog.Logger
}

// NewAuthService wires the account use cases. throttle may be nil.
func NewAuthService(
	identities ports.IdentityRepository,
	pets ports.PetRepository,
	tokens ports.TokenIssuer,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		identities: identities,
		pets:       pets,
		tokens:     tokens,
		throttle:   throttle,
		log:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate returns the identity owning email when password matches.
// Unknown email and wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.identities.FindByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return identity, nil
}

// Login authenticates and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, *domain.Identity, error) {
	email = normalizeEmail(email)

	if s.throttle != nil && email != "" {
		blocked, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, continuing")
		} else if blocked {
			return domain.Session{}, nil, domain.ErrTooManyAttempts
		}
	}

	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) && s.throttle != nil && email != "" {
			if terr := s.throttle.RecordFailure(ctx, email); terr != nil {
				s.log.Warn().Err(terr).Str("email", email).Msg("failed to record login failure")
			}
		}
		return domain.Session{}, nil, err
	}

	session, err := s.tokens.Issue(identity)
	if err != nil {
		return domain.Session{}, nil, fmt.Errorf("login: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
		}
	}

	s.log.Info().
		Str("subject_id", identity.ID).
		Str("role", string(identity.Role())).
		Msg("login succeeded")

	return session, identity, nil
}

// RegisterClient creates a Client identity and its first pet.
func (s *AuthService) RegisterClient(ctx context.Context, in ports.RegisterClientInput) (*domain.Identity, *domain.Pet, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || !acceptablePassword(in.Password) || strings.TrimSpace(in.Pet.Name) == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Password != in.ConfirmPassword {
		return nil, nil, domain.ErrPasswordMismatch
	}

	group, _ := domain.GroupFor(domain.RoleClient)
	now := time.Now().UTC()
	identity, err := s.identities.Create(ctx, &domain.Identity{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Group:     group,
		Phone:     in.Phone,
		Document:  in.Document,
		CreatedAt: now,
		UpdatedAt: now,
	}, in.Password)
	if err != nil {
		return nil, nil, err
	}

	pet := &domain.Pet{
		ID:        uuid.NewString(),
		OwnerID:   identity.ID,
		Name:      strings.TrimSpace(in.Pet.Name),
		Breed:     in.Pet.Breed,
		Age:       in.Pet.Age,
		Notes:     in.Pet.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.pets.Create(ctx, pet); err != nil {
		s.log.Error().Err(err).Str("subject_id", identity.ID).Msg("pet creation failed, rolling back client")
		if delErr := s.identities.Delete(context.WithoutCancel(ctx), identity.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("subject_id", identity.ID).Msg("rollback of client identity failed")
		}
		return nil, nil, fmt.Errorf("register client: create pet: %w", err)
	}

	s.log.Info().Str("subject_id", identity.ID).Str("pet_id", pet.ID).Msg("client registered")
	return identity, pet, nil
}

// RegisterVeterinarian creates a Veterinarian identity.
func (s *AuthService) RegisterVeterinarian(ctx context.Context, in ports.RegisterVeterinarianInput) (*domain.Identity, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || !acceptablePassword(in.Password) || strings.TrimSpace(in.License) == "" {
		return nil, domain.ErrInvalidInput
	}

	group, _ := domain.GroupFor(domain.RoleVeterinarian)
	now := time.Now().UTC()
	identity, err := s.identities.Create(ctx, &domain.Identity{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Group:     group,
		License:   strings.TrimSpace(in.License),
		Shift:     in.Shift,
		CreatedAt: now,
		UpdatedAt: now,
	}, in.Password)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("subject_id", identity.ID).Str("license", identity.License).Msg("veterinarian registered")
	return identity, nil
}

// ResetPassword replaces the credential of an existing account.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	email := normalizeEmail(in.Email)
	if email == "" || !acceptablePassword(in.NewPassword) {
		return domain.ErrInvalidInput
	}
	if in.NewPassword != in.ConfirmNewPassword {
		return domain.ErrPasswordMismatch
	}

	if err := s.identities.UpdatePassword(ctx, email, in.NewPassword); err != nil {
		return err
	}

	s.log.Info().Str("email", email).Msg("password reset")
	return nil
}

// acceptablePassword bounds plaintext to what bcrypt and pgcrypto hash in full.
func acceptablePassword(plain string) bool {
	return plain != "" && len(plain) <= domain.MaxPasswordBytes
}

func (s *AuthService) ListVeterinarians(ctx context.Context) ([]*domain.Identity, error) {
	return s.identities.ListByRole(ctx, domain.RoleVeterinarian)
}

func (s *AuthService) RoleGroups(ctx context.Context) ([]domain.RoleGroup, error) {
	return s.identities.RoleGroups(ctx)
}

// BootstrapRoleGroups makes sure the fixed Role Groups exist. Run once at boot.
func (s *AuthService) BootstrapRoleGroups(ctx context.Context) error {
	groups, err := s.identities.EnsureRoleGroups(ctx, domain.RoleGroups())
	if err != nil {
		return fmt.Errorf("bootstrap role groups: %w", err)
	}
	s.log.Info().Int("groups", len(groups)).Msg("role groups ready")
	return nil
}
