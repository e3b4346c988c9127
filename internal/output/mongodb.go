// internal/output/mongodb.go
package output

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBWriter stores one BSON document per review, upserted on the
// review ID so re-scrapes refresh in place.
type MongoDBWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDBWriter connects and selects the collection, defaulting the
// collection name to "reviews".
func NewMongoDBWriter(uri, database, collection string) (*MongoDBWriter, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("MongoDB URI and database are required")
	}
	if collection == "" {
		collection = "reviews"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	return &MongoDBWriter{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Name implements Writer.
func (w *MongoDBWriter) Name() string { return "mongodb" }

// Write implements Writer.
func (w *MongoDBWriter) Write(ctx context.Context, doc *Document) error {
	if len(doc.Reviews) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(doc.Reviews))
	for _, r := range doc.Reviews {
		record := bson.M{
			"_id":               r.ID,
			"job_id":            doc.JobID,
			"product":           doc.Product,
			"platform":          r.Platform,
			"reviewer_name":     r.ReviewerName,
			"rating":            r.Rating,
			"text":              r.Text,
			"date":              r.Date,
			"verified_purchase": r.VerifiedPurchase,
			"helpful_votes":     r.HelpfulVotes,
			"sentiment":         r.Sentiment,
			"categories":        r.Categories,
			"keyword_relevance": r.KeywordRelevance,
			"strategy":          string(r.Strategy),
			"source_url":        r.SourceURL,
			"scraped_at":        doc.ScrapedAt,
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": r.ID}).
			SetReplacement(record).
			SetUpsert(true))
	}

	_, err := w.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("bulk write reviews: %w", err)
	}
	return nil
}

// Close implements Writer.
func (w *MongoDBWriter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.client.Disconnect(ctx)
}
