package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	OutboxDbName  = "jeffston"
	OutboxColName = "pending_bookings"
)

// PendingBooking is a booking the upstream could not accept at submission
// time. Instead of fabricating a success response we park the payload here
// and retry explicitly; the guest is told the truth.
type PendingBooking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference   string             `bson:"reference" json:"reference" validate:"required"`
	Record      BookingRecord      `bson:"record" json:"record"`
	LastError   string             `bson:"last_error" json:"last_error"`
	Attempts    int                `bson:"attempts" json:"attempts"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	LastTriedAt time.Time          `bson:"last_tried_at" json:"last_tried_at"`
}

type OutboxRepo interface {
	SavePending(ctx context.Context, record *BookingRecord, cause string) (*PendingBooking, error)
	ListPending(ctx context.Context) ([]*PendingBooking, error)
	RemovePending(ctx context.Context, reference string) error
}

func (mdb *MongodbRepo) SavePending(ctx context.Context, record *BookingRecord, cause string) (*PendingBooking, error) {
	col, err := mdb.GetCollection(ctx, OutboxDbName, OutboxColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	now := time.Now()
	filter := bson.M{"reference": record.Reference}

	update := bson.M{
		"$set": bson.M{
			"record":        record,
			"last_error":    cause,
			"last_tried_at": now,
		},
		"$inc": bson.M{"attempts": 1},
		"$setOnInsert": bson.M{
			"reference":  record.Reference,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result PendingBooking
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error upserting pending booking: %v", err)
	}

	return &result, nil
}

func (mdb *MongodbRepo) ListPending(ctx context.Context) ([]*PendingBooking, error) {
	col, err := mdb.GetCollection(ctx, OutboxDbName, OutboxColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error finding pending bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var pending []*PendingBooking
	for cursor.Next(ctx) {
		var p PendingBooking
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("error decoding pending booking: %v", err)
		}
		pending = append(pending, &p)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return pending, nil
}

func (mdb *MongodbRepo) RemovePending(ctx context.Context, reference string) error {
	col, err := mdb.GetCollection(ctx, OutboxDbName, OutboxColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	_, err = col.DeleteOne(ctx, bson.M{"reference": reference})
	return err
}
