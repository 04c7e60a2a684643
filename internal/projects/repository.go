package projects

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, project Project) error
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Project, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	GetByID(ctx context.Context, id string) (Project, error)
	Update(ctx context.Context, project Project) (Project, error)
	SetStage(ctx context.Context, id string, stage int, now time.Time) (Project, error)
	InsertStageHistory(ctx context.Context, entry StageHistoryEntry) error
	HistoryForProject(ctx context.Context, projectID string) ([]StageHistoryEntry, error)
}

type MongoRepository struct {
	projects *mongo.Collection
	history  *mongo.Collection
}

func NewRepository(projects, history *mongo.Collection) *MongoRepository {
	return &MongoRepository{projects: projects, history: history}
}

func (r *MongoRepository) Create(ctx context.Context, project Project) error {
	_, err := r.projects.InsertOne(ctx, project)
	return err
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Project, error) {
	query := r.filterToBSON(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.projects.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Project, 0)
	for cursor.Next(ctx) {
		var project Project
		if err := cursor.Decode(&project); err != nil {
			return nil, err
		}
		items = append(items, project)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.projects.CountDocuments(ctx, r.filterToBSON(filter))
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Project, error) {
	var project Project
	if err := r.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return Project{}, err
	}
	return project, nil
}

func (r *MongoRepository) Update(ctx context.Context, project Project) (Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"customer_name":        project.CustomerName,
			"email":                project.Email,
			"phone":                project.Phone,
			"address":              project.Address,
			"system_size_kw":       project.SystemSizeKW,
			"value_usd":            project.ValueUSD,
			"status":               project.Status,
			"monitoring_system_id": project.MonitoringSystemID,
			"updated_at":           project.UpdatedAt,
		},
	}

	var updated Project
	if err := r.projects.FindOneAndUpdate(ctx, bson.M{"_id": project.ID}, update, opts).Decode(&updated); err != nil {
		return Project{}, err
	}
	return updated, nil
}

func (r *MongoRepository) SetStage(ctx context.Context, id string, stage int, now time.Time) (Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"stage":      stage,
			"updated_at": now,
		},
	}

	var updated Project
	if err := r.projects.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Project{}, err
	}
	return updated, nil
}

func (r *MongoRepository) InsertStageHistory(ctx context.Context, entry StageHistoryEntry) error {
	_, err := r.history.InsertOne(ctx, entry)
	return err
}

func (r *MongoRepository) HistoryForProject(ctx context.Context, projectID string) ([]StageHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.history.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]StageHistoryEntry, 0)
	for cursor.Next(ctx) {
		var entry StageHistoryEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Stage > 0 {
		query["stage"] = filter.Stage
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}
