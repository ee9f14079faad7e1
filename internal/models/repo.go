package models

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

// BookingStore is the storage contract both backends satisfy: the remote
// Apps Script proxy (sheetapi) and the direct spreadsheet store (sheetstore).
type BookingStore interface {
	CreateBooking(ctx context.Context, record *BookingRecord) (*SubmitResult, error)
	VerifyPayment(ctx context.Context, reference string) (*SubmitResult, error)
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
}

func MongodbNewRepo(mongodbClient *mongo.Client) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}
