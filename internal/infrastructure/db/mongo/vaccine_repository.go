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

const collectionVaccines = "vaccines"

type VaccineRepository struct {
	col *mongo.Collection
}

func NewVaccineRepository(db *mongo.Database) *VaccineRepository {
	return &VaccineRepository{col: db.Collection(collectionVaccines)}
}

func (r *VaccineRepository) Create(ctx context.Context, v *domain.Vaccine) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert vaccine: %w", err)
	}
	return nil
}

func (r *VaccineRepository) FindByID(ctx context.Context, id string) (*domain.Vaccine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Vaccine
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVaccineNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByPet returns the vaccination history, most recent dose first.
func (r *VaccineRepository) ListByPet(ctx context.Context, petID string) ([]*domain.Vaccine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "applied_on", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"pet_id": petID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	vaccines := []*domain.Vaccine{}
	if err := cur.All(ctx, &vaccines); err != nil {
		return nil, err
	}
	return vaccines, nil
}

func (r *VaccineRepository) Update(ctx context.Context, v *domain.Vaccine) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return fmt.Errorf("update vaccine: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVaccineNotFound
	}
	return nil
}

func (r *VaccineRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete vaccine: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVaccineNotFound
	}
	return nil
}

func (r *VaccineRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pet_id", Value: 1}, {Key: "applied_on", Value: -1}},
	})
	return err
}
