package container

import (
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jeffstoncourt/bookingserver/internal/booking"
	"github.com/jeffstoncourt/bookingserver/internal/config"
	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
	"github.com/jeffstoncourt/bookingserver/internal/payments"
	"github.com/jeffstoncourt/bookingserver/internal/services"
)

// StorageBackend is what either booking backend provides: the catalogue
// plus the booking write path.
type StorageBackend interface {
	services.ListingSource
	models.BookingStore
}

// Container holds all application dependencies
type Container struct {
	Logger   *slog.Logger
	Notifier notify.Notifier

	MongoDBClient *mongo.Client

	ListingsService *services.ListingsService
	BookingService  *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	notifier notify.Notifier,
	backend StorageBackend,
	lister services.BookingLister,
	resolver services.PaymentResolver,
	gateway payments.Gateway,
	mongoClient *mongo.Client,
	cfg *config.Config,
) *Container {
	listingsService := services.NewListingsService(backend, cfg.PageSize, 5*time.Minute)
	orchestrator := booking.NewOrchestrator(backend, gateway, notifier, logger, cfg.TaxRate, cfg.Currency)
	bookingService := services.NewBookingService(orchestrator, resolver, listingsService, lister, cfg.PaystackPublicKey)

	return &Container{
		Logger:          logger,
		Notifier:        notifier,
		MongoDBClient:   mongoClient,
		ListingsService: listingsService,
		BookingService:  bookingService,
	}
}
