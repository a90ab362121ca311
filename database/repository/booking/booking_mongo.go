package bookingRepo

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

func (r *mongoBookingRepo) getOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var b models.Booking
	if err := r.bookingColl.FindOne(ctx, filter).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching booking: %w", err)
	}
	return &b, nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.getOne(ctx, bson.M{"id": id})
}

func (r *mongoBookingRepo) GetForShop(ctx context.Context, shopID, id string) (*models.Booking, error) {
	return r.getOne(ctx, bson.M{"id": id, "shop_id": shopID})
}

func (r *mongoBookingRepo) GetForCustomer(ctx context.Context, customerID, id string) (*models.Booking, error) {
	return r.getOne(ctx, bson.M{"id": id, "customer_id": customerID})
}

func (r *mongoBookingRepo) list(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) ListConfirmedByShopDate(ctx context.Context, shopID, date string) ([]models.Booking, error) {
	return r.list(ctx,
		bson.M{"shop_id": shopID, "date": date, "status": models.BookingConfirmed},
		options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoBookingRepo) ListByShopDate(ctx context.Context, shopID, date string) ([]models.Booking, error) {
	return r.list(ctx,
		bson.M{"shop_id": shopID, "date": date},
		options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *mongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return r.list(ctx,
		bson.M{"customer_id": customerID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start_time", Value: -1}}))
}

func (r *mongoBookingRepo) ListConfirmedInRange(ctx context.Context, shopID, fromDate, toDate string) ([]models.Booking, error) {
	// Civil dates are zero-padded ISO strings, so string range == date range.
	return r.list(ctx, bson.M{
		"shop_id": shopID,
		"status":  models.BookingConfirmed,
		"date":    bson.M{"$gte": fromDate, "$lt": toDate},
	})
}

func (r *mongoBookingRepo) SetCustomerConfirmed(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"customer_confirmed_at": at}})
	if err != nil {
		return fmt.Errorf("error confirming booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoBookingRepo) ListReminderDue(ctx context.Context, fromDate string, limit int) ([]models.Booking, error) {
	return r.list(ctx, bson.M{
		"status":           models.BookingConfirmed,
		"reminder_sent_at": bson.M{"$exists": false},
		"date":             bson.M{"$gte": fromDate},
	}, options.Find().SetLimit(int64(limit)))
}

func (r *mongoBookingRepo) MarkReminderSent(ctx context.Context, ids []string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.bookingColl.UpdateMany(ctx,
		bson.M{"id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"reminder_sent_at": at}})
	if err != nil {
		return fmt.Errorf("error stamping reminders: %w", err)
	}
	return nil
}
