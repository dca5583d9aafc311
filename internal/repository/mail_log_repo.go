package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrdesk/internal/domain"
)

const (
	mailLogCollection = "mail_log"

	defaultMailLogLimit = 50
	maxMailLogLimit     = 200
)

// MailLogRepository define el contrato de persistencia del registro de correos.
type MailLogRepository interface {
	Create(ctx context.Context, record domain.MailRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.MailRecord, error)
}

// MongoMailLogRepository implementa MailLogRepository sobre MongoDB.
type MongoMailLogRepository struct {
	coll *mongo.Collection
}

func NewMongoMailLogRepository(db *mongo.Database) *MongoMailLogRepository {
	return &MongoMailLogRepository{coll: db.Collection(mailLogCollection)}
}

func (r *MongoMailLogRepository) Create(ctx context.Context, record domain.MailRecord) error {
	_, err := r.coll.InsertOne(ctx, record)
	return err
}

func (r *MongoMailLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.MailRecord, error) {
	switch {
	case limit <= 0:
		limit = defaultMailLogLimit
	case limit > maxMailLogLimit:
		limit = maxMailLogLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]domain.MailRecord, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
