package connect

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jeffstoncourt/bookingserver/internal/sheetstore"
)

var (
	MongoDBClient *mongo.Client
	SheetStore    *sheetstore.Store
)

// mongo init

func MongoDBConnect() (*mongo.Client, error) {
	uri := os.Getenv("MONGODB_URI")
	password := os.Getenv("MONGODB_PASSWORD")
	fullUri := strings.Replace(uri, "<password>", password, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	clientOptions := options.Client().ApplyURI(fullUri)

	var err error
	MongoDBClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := MongoDBClient.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	fmt.Println("✅ MongoDB connected successfully")
	return MongoDBClient, nil
}

func MongoDBDisconnect() error {
	if MongoDBClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := MongoDBClient.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %v", err)
	}
	MongoDBClient = nil
	return nil
}

// InitSheetStore builds the direct Sheets API store and verifies the
// spreadsheet is reachable before the server starts taking bookings.
func InitSheetStore(ctx context.Context, credentialsFile, spreadsheetID string) (*sheetstore.Store, error) {
	store, err := sheetstore.NewStore(ctx, credentialsFile, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheet store: %v", err)
	}

	if err := store.TestConnection(); err != nil {
		return nil, fmt.Errorf("spreadsheet is not reachable: %v", err)
	}

	SheetStore = store
	fmt.Println("✅ Google Sheets connected successfully")
	return store, nil
}
