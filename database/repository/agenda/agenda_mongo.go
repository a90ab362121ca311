package agendaRepo

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

func (r *mongoAgendaRepo) CreateBlock(ctx context.Context, block *models.TimeBlock) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.blockColl.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("error creating time block: %w", err)
	}
	return nil
}

func (r *mongoAgendaRepo) DeleteBlock(ctx context.Context, shopID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.blockColl.DeleteOne(ctx, bson.M{"id": id, "shop_id": shopID})
	if err != nil {
		return fmt.Errorf("error deleting time block %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAgendaRepo) ListBlocks(ctx context.Context, shopID, date string) ([]models.TimeBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.blockColl.Find(ctx, bson.M{"shop_id": shopID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("error fetching time blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.TimeBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding time blocks: %w", err)
	}
	return blocks, nil
}

func (r *mongoAgendaRepo) ListAllBlocks(ctx context.Context, shopID string) ([]models.TimeBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.blockColl.Find(ctx, bson.M{"shop_id": shopID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching time blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.TimeBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding time blocks: %w", err)
	}
	return blocks, nil
}

func (r *mongoAgendaRepo) CreateClosure(ctx context.Context, closure *models.ShopClosure) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.closureColl.InsertOne(ctx, closure); err != nil {
		return fmt.Errorf("error creating closure: %w", err)
	}
	return nil
}

func (r *mongoAgendaRepo) DeleteClosure(ctx context.Context, shopID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.closureColl.DeleteOne(ctx, bson.M{"id": id, "shop_id": shopID})
	if err != nil {
		return fmt.Errorf("error deleting closure %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAgendaRepo) ListClosuresIntersecting(ctx context.Context, shopID string, windowStart, windowEnd time.Time) ([]models.ShopClosure, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"shop_id":  shopID,
		"start_at": bson.M{"$lt": windowEnd},
		"end_at":   bson.M{"$gt": windowStart},
	}
	cursor, err := r.closureColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching closures: %w", err)
	}
	defer cursor.Close(ctx)

	var closures []models.ShopClosure
	if err := cursor.All(ctx, &closures); err != nil {
		return nil, fmt.Errorf("error decoding closures: %w", err)
	}
	return closures, nil
}

func (r *mongoAgendaRepo) ListAllClosures(ctx context.Context, shopID string) ([]models.ShopClosure, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.closureColl.Find(ctx, bson.M{"shop_id": shopID},
		options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching closures: %w", err)
	}
	defer cursor.Close(ctx)

	var closures []models.ShopClosure
	if err := cursor.All(ctx, &closures); err != nil {
		return nil, fmt.Errorf("error decoding closures: %w", err)
	}
	return closures, nil
}
