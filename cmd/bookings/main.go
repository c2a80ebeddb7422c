package main

import (
	"deskhive/internal/bookings/events"
	"deskhive/internal/bookings/handler"
	"deskhive/internal/bookings/repository"
	"deskhive/internal/bookings/service"
	"deskhive/internal/bookings/validator"
	propertiesrepo "deskhive/internal/properties/repository"
	"deskhive/pkg/app"
	"deskhive/pkg/clock"
	"deskhive/pkg/config"
	"deskhive/pkg/kafka"
	kafka_config "deskhive/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	bookingService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MinBookingHours)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	propertyRepo := propertiesrepo.NewMongoPropertyRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		propertyRepo,
		bookingValidator,
		publisher,
		clock.System(),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return events.NoopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingsTopic, cfg.KafkaBookingsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaBookingsTopic)
	return events.NewKafkaPublisher(producer, cfg.Log)
}
