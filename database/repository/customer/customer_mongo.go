package customerRepo

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

func (r *mongoCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("error creating customer: %w", err)
	}
	return nil
}

func (r *mongoCustomerRepo) getOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c models.Customer
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching customer: %w", err)
	}
	return &c, nil
}

func (r *mongoCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	return r.getOne(ctx, bson.M{"id": id})
}

func (r *mongoCustomerRepo) GetByUserID(ctx context.Context, userID string) (*models.Customer, error) {
	return r.getOne(ctx, bson.M{"user_id": userID})
}

func (r *mongoCustomerRepo) GetByPhoneForShop(ctx context.Context, shopID, phone string) (*models.Customer, error) {
	filter := bson.M{
		"phone": phone,
		"$or": bson.A{
			bson.M{"preferred_shop_id": bson.M{"$exists": false}},
			bson.M{"preferred_shop_id": ""},
			bson.M{"preferred_shop_id": shopID},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.getOne(ctx, filter, opts)
}

func (r *mongoCustomerRepo) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.getOne(ctx, bson.M{"phone": phone}, opts)
}

func (r *mongoCustomerRepo) ListByPreferredShop(ctx context.Context, shopID string) ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"preferred_shop_id": shopID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("error decoding customers: %w", err)
	}
	return customers, nil
}

func (r *mongoCustomerRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating customer %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCustomerRepo) BindPreferredShop(ctx context.Context, id, shopID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"id": id,
		"$or": bson.A{
			bson.M{"preferred_shop_id": bson.M{"$exists": false}},
			bson.M{"preferred_shop_id": ""},
			bson.M{"preferred_shop_id": shopID},
		},
	}
	_, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"preferred_shop_id": shopID}})
	if err != nil {
		return fmt.Errorf("error binding customer %s to shop %s: %w", id, shopID, err)
	}
	return nil
}

func (r *mongoCustomerRepo) ApplyNoShow(ctx context.Context, id string, count int, blockedUntil *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"no_show_count": count}
	if blockedUntil != nil {
		update["blocked_until"] = *blockedUntil
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("error applying no-show to customer %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
