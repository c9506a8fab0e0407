package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petcare/clinic-api/internal/core/domain"
)

const collectionPets = "pets"

type PetRepository struct {
	col *mongo.Collection
}

func NewPetRepository(db *mongo.Database) *PetRepository {
	return &PetRepository{col: db.Collection(collectionPets)}
}

func (r *PetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, pet); err != nil {
		return fmt.Errorf("insert pet: %w", err)
	}
	return nil
}

func (r *PetRepository) FindByID(ctx context.Context, id string) (*domain.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Pet
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPetNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	pets := []*domain.Pet{}
	if err := cur.All(ctx, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *PetRepository) Update(ctx context.Context, pet *domain.Pet) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": pet.ID}, pet)
	if err != nil {
		return fmt.Errorf("update pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

func (r *PetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}})
	return err
}
