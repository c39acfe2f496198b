package store

import (
	"context"

	"docpipe/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordStore defines the interface for document record persistence.
// The pipeline core only produces DocumentRecord values; mapping them into a
// persisted shape is the concern of whichever implementation is plugged in.
type RecordStore interface {
	Insert(ctx context.Context, record *models.DocumentRecord) error
	GetByJobID(ctx context.Context, jobID string) (*models.DocumentRecord, error)
	GetByRequestID(ctx context.Context, requestID string) ([]*models.DocumentRecord, error)
}

// MongoRecordStore is an implementation of RecordStore using MongoDB.
type MongoRecordStore struct {
	collection *mongo.Collection
}

// NewMongoRecordStore creates a new MongoRecordStore.
func NewMongoRecordStore(db *mongo.Database, collectionName string) *MongoRecordStore {
	return &MongoRecordStore{
		collection: db.Collection(collectionName),
	}
}

// Insert writes a completed document record.
func (s *MongoRecordStore) Insert(ctx context.Context, record *models.DocumentRecord) error {
	_, err := s.collection.InsertOne(ctx, record)
	return err
}

// GetByJobID retrieves the record produced for an analysis job.
func (s *MongoRecordStore) GetByJobID(ctx context.Context, jobID string) (*models.DocumentRecord, error) {
	var record models.DocumentRecord
	err := s.collection.FindOne(ctx, bson.M{"job_id": jobID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByRequestID retrieves all records for a request, newest first.
func (s *MongoRecordStore) GetByRequestID(ctx context.Context, requestID string) ([]*models.DocumentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"request_id": requestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.DocumentRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
