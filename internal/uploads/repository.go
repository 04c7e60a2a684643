package uploads

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, artifact Artifact) error
	List(ctx context.Context, kind string, limit, offset int64) ([]Artifact, error)
	Count(ctx context.Context, kind string) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, artifact Artifact) error {
	_, err := r.col.InsertOne(ctx, artifact)
	return err
}

func (r *MongoRepository) List(ctx context.Context, kind string, limit, offset int64) ([]Artifact, error) {
	query := bson.M{}
	if kind != "" {
		query["kind"] = kind
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Artifact, 0)
	for cursor.Next(ctx) {
		var artifact Artifact
		if err := cursor.Decode(&artifact); err != nil {
			return nil, err
		}
		items = append(items, artifact)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, kind string) (int64, error) {
	query := bson.M{}
	if kind != "" {
		query["kind"] = kind
	}
	return r.col.CountDocuments(ctx, query)
}
