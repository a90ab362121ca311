package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

func (r *mongoCatalogRepo) Create(ctx context.Context, svc *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, svc); err != nil {
		return fmt.Errorf("error creating service: %w", err)
	}
	return nil
}

func (r *mongoCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var svc models.Service
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching service %s: %w", id, err)
	}
	return &svc, nil
}

func (r *mongoCatalogRepo) GetActiveOrdered(ctx context.Context, shopID string, ids []string) ([]models.Service, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": ids}, "shop_id": shopID, "active": true}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, false, fmt.Errorf("error fetching services: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []models.Service
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, false, fmt.Errorf("error decoding services: %w", err)
	}
	if len(raw) != len(ids) {
		return nil, false, nil
	}

	byID := make(map[string]models.Service, len(raw))
	for _, svc := range raw {
		byID[svc.ID] = svc
	}
	ordered := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			// duplicate id in the request
			return nil, false, nil
		}
		ordered = append(ordered, svc)
	}
	return ordered, true, nil
}

func (r *mongoCatalogRepo) ListByShop(ctx context.Context, shopID string, activeOnly bool) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"shop_id": shopID}
	if activeOnly {
		filter["active"] = true
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}

func (r *mongoCatalogRepo) Update(ctx context.Context, shopID, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "shop_id": shopID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating service %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
