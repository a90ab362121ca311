package reportRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

func (r *mongoReportRepo) Create(ctx context.Context, report *models.MetricReport) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("error creating metric report: %w", err)
	}
	return nil
}

func (r *mongoReportRepo) ListByShop(ctx context.Context, shopID string, limit int) ([]models.MetricReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"shop_id": shopID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing metric reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []models.MetricReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("error decoding metric reports: %w", err)
	}
	return reports, nil
}

func (r *mongoReportRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "shop_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("shop_created_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create metric report indexes: %w", err)
	}
	return nil
}
