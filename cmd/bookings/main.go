package main

import (
	bookinghandler "lineup/internal/bookings/handler"
	"lineup/internal/bookings/notify"
	bookingrepo "lineup/internal/bookings/repository"
	bookingservice "lineup/internal/bookings/service"
	"lineup/internal/bookings/validator"
	institutionrepo "lineup/internal/institutions/repository"
	"lineup/internal/location"
	locationhandler "lineup/internal/location/handler"
	queuerepo "lineup/internal/queue/repository"
	queueservice "lineup/internal/queue/service"
	"lineup/pkg/app"
	"lineup/pkg/config"
	"lineup/pkg/contracts"
	"lineup/pkg/kafka"
	kafka_config "lineup/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, initHandlers(cfg, serverApp))
	serverApp.OnShutdown(cfg.Client.GracefulShutdown)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, serverApp *app.Application) contracts.Handler {
	institutionRepo := institutionrepo.NewMongoInstitutionRepository(cfg)
	serviceRepo := queuerepo.NewMongoServiceRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)

	allocator := queueservice.NewQueueAllocator(serviceRepo, cfg)

	var geocoder location.Geocoder
	if cfg.GeocoderBaseURL != "" {
		geocoder = location.NewHTTPGeocoder(cfg.GeocoderBaseURL, cfg.LocationAcquireTimeout)
	}
	registry := location.NewRegistry(geocoder, cfg.Log, cfg.LocationAcquireTimeout, cfg.LocationMaxCacheAge)
	serverApp.OnShutdown(registry.Stop)

	notifier := initNotifier(cfg, serverApp)

	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		institutionRepo,
		serviceRepo,
		allocator,
		validator.NewBookingValidator(cfg.Log),
		registry,
		notifier,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)

	return contracts.Join(
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		locationhandler.NewLocationHandler(registry, cfg.Log),
	)
}

func initNotifier(cfg *config.Config, serverApp *app.Application) notify.Notifier {
	if cfg.BookingEventsTopic == "" {
		cfg.Log.Info("No booking events topic configured, notifications disabled")
		return notify.NopNotifier{}
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Booking event notifications enabled", "topic", cfg.BookingEventsTopic)
	return notify.NewKafkaNotifier(producer, cfg.Log)
}
