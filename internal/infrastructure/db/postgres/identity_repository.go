package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// bcryptCost is the pgcrypto gen_salt('bf') work factor.
const bcryptCost = 10

const identityColumns = `
u.id, u.name, u.email, u.phone, u.document, u.license, u.shift, u.created_at, u.updated_at,
g.id::text, g.type, g.code, g.description
FROM users u
JOIN role_groups g ON g.code = u.group_code
`

// IdentityRepository persists identities in PostgreSQL. Hashes never leave the
// database: crypt() hashes on write and is the match predicate on read.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

func (r *IdentityRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Identity, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+identityColumns+where, args...)
	identity, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return identity, nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, "WHERE u.email = $1", email)
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.findOne(ctx, "WHERE u.id = $1", id)
}

// FindByCredentials matches in SQL. An unknown email still runs one crypt().
func (r *IdentityRepository) FindByCredentials(ctx context.Context, email, plain string) (*domain.Identity, error) {
	identity, err := r.findOne(ctx, "WHERE u.email = $1 AND u.password_hash = crypt($2, u.password_hash)", email, plain)
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		return identity, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if !exists {
		var discard string
		_ = r.pool.QueryRow(ctx, `SELECT crypt($1, gen_salt('bf', $2))`, plain, bcryptCost).Scan(&discard)
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity, plain string) (*domain.Identity, error) {
	const query = `
INSERT INTO users (id, name, email, password_hash, group_code, phone, document, license, shift, created_at, updated_at)
VALUES ($1, $2, $3, crypt($4, gen_salt('bf', $5)), $6, $7, $8, $9, $10, $11, $12)
`
	_, err := r.pool.Exec(ctx, query,
		identity.ID,
		identity.Name,
		identity.Email,
		plain,
		bcryptCost,
		string(identity.Role()),
		identity.Phone,
		identity.Document,
		identity.License,
		identity.Shift,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrIdentityExists
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("role group %q not bootstrapped: %w", identity.Role(), domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return r.FindByID(ctx, identity.ID)
}

func (r *IdentityRepository) UpdatePassword(ctx context.Context, email, plain string) error {
	const query = `
UPDATE users
SET password_hash = crypt($2, gen_salt('bf', $3)), updated_at = $4
WHERE email = $1
`
	ct, err := r.pool.Exec(ctx, query, email, plain, bcryptCost, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Identity, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+identityColumns+"WHERE u.group_code = $1 ORDER BY u.name", string(role))
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	out := []*domain.Identity{}
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *IdentityRepository) RoleGroups(ctx context.Context) ([]domain.RoleGroup, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, type, code, description FROM role_groups ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list role groups: %w", err)
	}
	defer rows.Close()

	var out []domain.RoleGroup
	for rows.Next() {
		var g domain.RoleGroup
		var code string
		if err := rows.Scan(&g.ID, &g.Type, &code, &g.Description); err != nil {
			return nil, err
		}
		g.Code = domain.Role(code)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *IdentityRepository) EnsureRoleGroups(ctx context.Context, groups []domain.RoleGroup) ([]domain.RoleGroup, error) {
	const query = `
INSERT INTO role_groups (type, code, description)
VALUES ($1, $2, $3)
ON CONFLICT (code) DO UPDATE SET type = EXCLUDED.type, description = EXCLUDED.description
`
	batch := &pgx.Batch{}
	for _, g := range groups {
		batch.Queue(query, g.Type, string(g.Code), g.Description)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("upsert role groups: %w", err)
	}
	return r.RoleGroups(ctx)
}

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var i domain.Identity
	var code string
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Document,
		&i.License,
		&i.Shift,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Group.ID,
		&i.Group.Type,
		&code,
		&i.Group.Description,
	)
	if err != nil {
		return nil, err
	}
	i.Group.Code = domain.Role(code)
	return &i, nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}
