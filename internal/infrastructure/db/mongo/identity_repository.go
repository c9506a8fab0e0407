package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/pkg/password"
)

const (
	collectionUsers      = "users"
	collectionRoleGroups = "role_groups"
)

type IdentityRepository struct {
	users  *mongo.Collection
	groups *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{
		users:  db.Collection(collectionUsers),
		groups: db.Collection(collectionRoleGroups),
	}
}

type mongoRoleGroup struct {
	ID          string `bson:"_id"`
	Type        string `bson:"type"`
	Code        string `bson:"code"`
	Description string `bson:"description"`
}

type mongoIdentity struct {
	ID           string         `bson:"_id"`
	Name         string         `bson:"name"`
	Email        string         `bson:"email"`
	PasswordHash string         `bson:"password_hash"`
	Group        mongoRoleGroup `bson:"group"`
	Phone        string         `bson:"phone,omitempty"`
	Document     string         `bson:"document,omitempty"`
	License      string         `bson:"license,omitempty"`
	Shift        string         `bson:"shift,omitempty"`
	CreatedAt    time.Time      `bson:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"`
}

func (g mongoRoleGroup) toDomain() domain.RoleGroup {
	return domain.RoleGroup{ID: g.ID, Type: g.Type, Code: domain.Role(g.Code), Description: g.Description}
}

func (m *mongoIdentity) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Group:     m.Group.toDomain(),
		Phone:     m.Phone,
		Document:  m.Document,
		License:   m.License,
		Shift:     m.Shift,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *IdentityRepository) findDoc(ctx context.Context, filter bson.M) (*mongoIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoIdentity
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &doc, nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	doc, err := r.findDoc(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	doc, err := r.findDoc(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindByCredentials compares the bcrypt hash in place. Unknown accounts still
// pay for one comparison.
func (r *IdentityRepository) FindByCredentials(ctx context.Context, email, plain string) (*domain.Identity, error) {
	doc, err := r.findDoc(ctx, bson.M{"email": email})
	if errors.Is(err, domain.ErrIdentityNotFound) {
		password.Burn(plain)
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}

	ok, err := password.Matches(doc.PasswordHash, plain)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return doc.toDomain(), nil
}

// Create stores identity with a freshly hashed password. The group id is
// resolved from role_groups so identities always point at a bootstrapped group.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity, plain string) (*domain.Identity, error) {
	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	group, err := r.groupByCode(ctx, identity.Role())
	if err != nil {
		return nil, err
	}

	doc := mongoIdentity{
		ID:           identity.ID,
		Name:         identity.Name,
		Email:        identity.Email,
		PasswordHash: hash,
		Group:        group,
		Phone:        identity.Phone,
		Document:     identity.Document,
		License:      identity.License,
		Shift:        identity.Shift,
		CreatedAt:    identity.CreatedAt,
		UpdatedAt:    identity.UpdatedAt,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) UpdatePassword(ctx context.Context, email, plain string) error {
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.users.Find(ctx,
		bson.M{"group.code": string(role)},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoIdentity
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode identities: %w", err)
	}

	out := make([]*domain.Identity, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *IdentityRepository) groupByCode(ctx context.Context, code domain.Role) (mongoRoleGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var g mongoRoleGroup
	if err := r.groups.FindOne(ctx, bson.M{"code": string(code)}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mongoRoleGroup{}, fmt.Errorf("role group %q not bootstrapped: %w", code, domain.ErrInvalidInput)
		}
		return mongoRoleGroup{}, fmt.Errorf("find role group: %w", err)
	}
	return g, nil
}

func (r *IdentityRepository) RoleGroups(ctx context.Context) ([]domain.RoleGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.groups.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list role groups: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRoleGroup
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode role groups: %w", err)
	}

	out := make([]domain.RoleGroup, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureRoleGroups upserts each group by code. Existing ids are preserved.
func (r *IdentityRepository) EnsureRoleGroups(ctx context.Context, groups []domain.RoleGroup) ([]domain.RoleGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, g := range groups {
		_, err := r.groups.UpdateOne(ctx,
			bson.M{"code": string(g.Code)},
			bson.M{
				"$set":         bson.M{"type": g.Type, "description": g.Description},
				"$setOnInsert": bson.M{"_id": uuid.NewString()},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("upsert role group %s: %w", g.Code, err)
		}
	}
	return r.RoleGroups(ctx)
}

// EnsureIndexes creates the unique email index and the role-group code index.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "group.code", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = r.groups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
