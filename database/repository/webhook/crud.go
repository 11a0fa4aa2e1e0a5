package webhookRepo

import (
	"context"
	"time"

	"airmax/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Save inserts an archived webhook request and returns its ID.
func (r *mongoWebhookRepo) Save(ctx context.Context, record models.WebhookRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.ReceivedAt.IsZero() {
		record.ReceivedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByID returns one archived webhook request.
func (r *mongoWebhookRepo) GetByID(ctx context.Context, id string) (*models.WebhookRecord, error) {
	var record models.WebhookRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecent returns the most recently received webhook requests.
func (r *mongoWebhookRepo) ListRecent(ctx context.Context, limit int64) ([]models.WebhookRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.WebhookRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
