package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const txnTimeout = 10 * time.Second

// runTxn executes fn inside a mongo session transaction, aborting on error.
func (r *mongoBookingRepo) runTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	ctx, cancel := context.WithTimeout(ctx, txnTimeout)
	defer cancel()

	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// conflictErr maps storage-level claim collisions to ErrSlotTaken. A
// duplicate _id on slot_claims means a concurrent writer got there first.
func conflictErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	return err
}

func (r *mongoBookingRepo) CreateSequential(ctx context.Context, bookings []models.Booking, claims []models.SlotClaim) error {
	if len(bookings) == 0 {
		return fmt.Errorf("no bookings to create")
	}

	err := r.runTxn(ctx, func(sc mongo.SessionContext) error {
		claimDocs := make([]interface{}, len(claims))
		for i, c := range claims {
			claimDocs[i] = c
		}
		// Claims first: the unique _id is the exclusion constraint, so a
		// racing writer fails here before any booking row exists.
		if _, err := r.claimColl.InsertMany(sc, claimDocs); err != nil {
			return err
		}

		bookingDocs := make([]interface{}, len(bookings))
		for i, b := range bookings {
			bookingDocs[i] = b
		}
		if _, err := r.bookingColl.InsertMany(sc, bookingDocs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return conflictErr(err)
	}
	return nil
}

func (r *mongoBookingRepo) Terminate(ctx context.Context, id string, status models.BookingStatus, fields map[string]interface{}) error {
	return r.runTxn(ctx, func(sc mongo.SessionContext) error {
		update := bson.M{"status": status}
		for k, v := range fields {
			update[k] = v
		}
		res, err := r.bookingColl.UpdateOne(sc, bson.M{"id": id}, bson.M{"$set": update})
		if err != nil {
			return fmt.Errorf("error updating booking %s: %w", id, err)
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		if _, err := r.claimColl.DeleteMany(sc, bson.M{"booking_id": id}); err != nil {
			return fmt.Errorf("error releasing claims for booking %s: %w", id, err)
		}
		return nil
	})
}

func (r *mongoBookingRepo) Reschedule(ctx context.Context, id, date, startTime, endTime string, claims []models.SlotClaim) error {
	err := r.runTxn(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.claimColl.DeleteMany(sc, bson.M{"booking_id": id}); err != nil {
			return fmt.Errorf("error releasing claims for booking %s: %w", id, err)
		}

		claimDocs := make([]interface{}, len(claims))
		for i, c := range claims {
			claimDocs[i] = c
		}
		if _, err := r.claimColl.InsertMany(sc, claimDocs); err != nil {
			return err
		}

		res, err := r.bookingColl.UpdateOne(sc, bson.M{"id": id}, bson.M{
			"$set": bson.M{
				"date":       date,
				"start_time": startTime,
				"end_time":   endTime,
				"status":     models.BookingConfirmed,
			},
			"$unset": bson.M{"customer_confirmed_at": ""},
		})
		if err != nil {
			return fmt.Errorf("error rescheduling booking %s: %w", id, err)
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		return conflictErr(err)
	}
	return nil
}
