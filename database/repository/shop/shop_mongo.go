package shopRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const opTimeout = 5 * time.Second

func (r *mongoShopRepo) Create(ctx context.Context, shop *models.Shop) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, shop); err != nil {
		return fmt.Errorf("error creating shop: %w", err)
	}
	return nil
}

func (r *mongoShopRepo) getOne(ctx context.Context, filter bson.M) (*models.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var shop models.Shop
	if err := r.coll.FindOne(ctx, filter).Decode(&shop); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching shop: %w", err)
	}
	return &shop, nil
}

func (r *mongoShopRepo) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	return r.getOne(ctx, bson.M{"id": id})
}

func (r *mongoShopRepo) GetBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	return r.getOne(ctx, bson.M{"public_slug": slug})
}

func (r *mongoShopRepo) GetByUserID(ctx context.Context, userID string) (*models.Shop, error) {
	return r.getOne(ctx, bson.M{"user_id": userID})
}

func (r *mongoShopRepo) GetByEmail(ctx context.Context, email string) (*models.Shop, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

func (r *mongoShopRepo) List(ctx context.Context) ([]models.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing shops: %w", err)
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("error decoding shops: %w", err)
	}
	return shops, nil
}

func (r *mongoShopRepo) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating shop %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoShopRepo) UpdateSchedule(ctx context.Context, id string, policy *models.SchedulePolicy) error {
	return r.UpdateProfile(ctx, id, map[string]interface{}{"schedule": policy})
}

func (r *mongoShopRepo) UpdatePlan(ctx context.Context, id string, planType models.PlanType, price int, startsAt, expiresAt time.Time) error {
	return r.UpdateProfile(ctx, id, map[string]interface{}{
		"plan_type":       planType,
		"plan_price":      price,
		"plan_starts_at":  startsAt,
		"plan_expires_at": expiresAt,
	})
}

func (r *mongoShopRepo) SetMetricsResetAt(ctx context.Context, id string, at time.Time) error {
	return r.UpdateProfile(ctx, id, map[string]interface{}{"metrics_reset_at": at})
}
