package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petcare/clinic-api/internal/core/domain"
)

const collectionConsultations = "consultations"

type ConsultationRepository struct {
	col *mongo.Collection
}

func NewConsultationRepository(db *mongo.Database) *ConsultationRepository {
	return &ConsultationRepository{col: db.Collection(collectionConsultations)}
}

func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) list(ctx context.Context, filter bson.M) ([]*domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*domain.Consultation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ConsultationRepository) ListByPet(ctx context.Context, petID string) ([]*domain.Consultation, error) {
	return r.list(ctx, bson.M{"pet_id": petID})
}

// ListByDay returns the consultations in [day, day+24h).
func (r *ConsultationRepository) ListByDay(ctx context.Context, day time.Time) ([]*domain.Consultation, error) {
	return r.list(ctx, bson.M{"date": bson.M{"$gte": day, "$lt": day.Add(24 * time.Hour)}})
}

func (r *ConsultationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrConsultationNotFound
	}
	return nil
}

func (r *ConsultationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "pet_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	return err
}
