// FILE: database/repository/agenda/indexes.go
package agendaRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on blocks and closures.
func (r *mongoAgendaRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blockIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "shop_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("shop_date_idx"),
		},
	}
	if _, err := r.blockColl.Indexes().CreateMany(ctx, blockIndexes); err != nil {
		return fmt.Errorf("failed to create time block indexes: %w", err)
	}

	closureIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "shop_id", Value: 1}, {Key: "start_at", Value: 1}, {Key: "end_at", Value: 1}},
			Options: options.Index().SetName("shop_window_idx"),
		},
	}
	if _, err := r.closureColl.Indexes().CreateMany(ctx, closureIndexes); err != nil {
		return fmt.Errorf("failed to create closure indexes: %w", err)
	}
	return nil
}
