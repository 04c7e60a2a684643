package candidates

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, candidate Candidate) error
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Candidate, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	GetByID(ctx context.Context, id string) (Candidate, error)
	Update(ctx context.Context, candidate Candidate) (Candidate, error)
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, candidate Candidate) error {
	_, err := r.col.InsertOne(ctx, candidate)
	return err
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Candidate, error) {
	query := r.filterToBSON(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Candidate, 0)
	for cursor.Next(ctx) {
		var candidate Candidate
		if err := cursor.Decode(&candidate); err != nil {
			return nil, err
		}
		items = append(items, candidate)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, r.filterToBSON(filter))
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Candidate, error) {
	var candidate Candidate
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&candidate); err != nil {
		return Candidate{}, err
	}
	return candidate, nil
}

func (r *MongoRepository) Update(ctx context.Context, candidate Candidate) (Candidate, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"first_name": candidate.FirstName,
			"last_name":  candidate.LastName,
			"email":      candidate.Email,
			"phone":      candidate.Phone,
			"position":   candidate.Position,
			"resume_url": candidate.ResumeURL,
			"status":     candidate.Status,
			"notes":      candidate.Notes,
			"updated_at": candidate.UpdatedAt,
		},
	}

	var updated Candidate
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": candidate.ID}, update, opts).Decode(&updated)
	if err != nil {
		return Candidate{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Position != "" {
		query["position"] = filter.Position
	}
	return query
}
