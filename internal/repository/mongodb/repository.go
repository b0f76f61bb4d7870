package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

// Archive defines the interface for generated-report bookkeeping.
type Archive interface {
	SaveGeneratedReport(ctx context.Context, report models.GeneratedReport) error
	ListGeneratedReports(ctx context.Context, period string) ([]models.GeneratedReport, error)
}

// MongoDBArchive implements the Archive interface for MongoDB.
type MongoDBArchive struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBArchive creates a new MongoDB archive.
func NewMongoDBArchive(ctx context.Context, uri string, dbName string) (*MongoDBArchive, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBArchive{
		client:   client,
		dbName:   dbName,
		collName: "generated_reports",
	}, nil
}

// SaveGeneratedReport records one composed artifact.
func (r *MongoDBArchive) SaveGeneratedReport(ctx context.Context, report models.GeneratedReport) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert generated report: %w", err)
	}
	return nil
}

// ListGeneratedReports returns the archive entries for one period,
// newest first, or every entry when period is empty.
func (r *MongoDBArchive) ListGeneratedReports(ctx context.Context, period string) ([]models.GeneratedReport, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	filter := bson.M{}
	if period != "" {
		filter["period"] = period
	}

	opts := options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query generated reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []models.GeneratedReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode generated reports: %w", err)
	}
	return reports, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBArchive) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
