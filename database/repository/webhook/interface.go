package webhookRepo

import (
	"context"

	"airmax/database"
	"airmax/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// WebhookArchive stores raw inbound webhook bodies for auditing and
// replay. Archive failures are never fatal to booking processing.
type WebhookArchive interface {
	Save(ctx context.Context, record models.WebhookRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.WebhookRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]models.WebhookRecord, error)
}

type mongoWebhookRepo struct {
	coll *mongo.Collection
}

// NewMongoWebhookRepo returns a WebhookArchive backed by MongoDB.
func NewMongoWebhookRepo() WebhookArchive {
	db := database.MongoClient.Database("airmax")
	return &mongoWebhookRepo{
		coll: db.Collection("webhook_requests"),
	}
}
