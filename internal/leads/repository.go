package leads

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	UpsertBySession(ctx context.Context, lead Lead) (Lead, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	GetByID(ctx context.Context, id string) (Lead, error)
	UpdateStatus(ctx context.Context, id string, status string, now time.Time) (Lead, error)
	InsertDisqualified(ctx context.Context, lead DisqualifiedLead) error
	ListDisqualified(ctx context.Context, limit, offset int64) ([]DisqualifiedLead, error)
}

type MongoRepository struct {
	leads        *mongo.Collection
	disqualified *mongo.Collection
}

func NewRepository(leads, disqualified *mongo.Collection) *MongoRepository {
	return &MongoRepository{leads: leads, disqualified: disqualified}
}

// UpsertBySession keys the write on session_id so a retried submission lands
// on the same record instead of creating a duplicate.
func (r *MongoRepository) UpsertBySession(ctx context.Context, lead Lead) (Lead, error) {
	set := bson.M{
		"zip":            lead.Zip,
		"utility":        lead.Utility,
		"avg_bill":       lead.AvgBill,
		"homeowner":      lead.Homeowner,
		"credit_score":   lead.Credit,
		"shading":        lead.Shading,
		"first_name":     lead.FirstName,
		"last_name":      lead.LastName,
		"email":          lead.Email,
		"phone":          lead.Phone,
		"street_address": lead.Street,
		"city":           lead.City,
		"state":          lead.State,
		"tcpa_consent":   lead.TCPAConsent,
		"sms_consent":    lead.SMSConsent,
		"current_step":   lead.CurrentStep,
		"is_partial":     lead.IsPartial,
		"updated_at":     lead.UpdatedAt,
	}
	if lead.CompletedAt != nil {
		set["completed_at"] = lead.CompletedAt
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":        lead.ID,
			"status":     lead.Status,
			"created_at": lead.CreatedAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated Lead
	err := r.leads.FindOneAndUpdate(ctx, bson.M{"session_id": lead.SessionID}, update, opts).Decode(&updated)
	if err != nil {
		return Lead{}, err
	}
	return updated, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, error) {
	query := r.filterToBSON(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.leads.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Lead, 0)
	for cursor.Next(ctx) {
		var lead Lead
		if err := cursor.Decode(&lead); err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.leads.CountDocuments(ctx, r.filterToBSON(filter))
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Lead, error) {
	var lead Lead
	if err := r.leads.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status string, now time.Time) (Lead, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": now,
		},
	}

	var updated Lead
	if err := r.leads.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Lead{}, err
	}
	return updated, nil
}

func (r *MongoRepository) InsertDisqualified(ctx context.Context, lead DisqualifiedLead) error {
	_, err := r.disqualified.InsertOne(ctx, lead)
	return err
}

func (r *MongoRepository) ListDisqualified(ctx context.Context, limit, offset int64) ([]DisqualifiedLead, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.disqualified.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]DisqualifiedLead, 0)
	for cursor.Next(ctx) {
		var lead DisqualifiedLead
		if err := cursor.Decode(&lead); err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Partial != nil {
		query["is_partial"] = *filter.Partial
	}
	return query
}
