package main

import (
	"roombook/internal/reservations/events"
	"roombook/internal/reservations/handler"
	"roombook/internal/reservations/repository"
	"roombook/internal/reservations/service"
	"roombook/internal/reservations/validator"
	"roombook/pkg/app"
	"roombook/pkg/auth"
	"roombook/pkg/clock"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/kafka"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")
	serverApp := app.NewApplication()

	publisher, closePublisher := initPublisher(cfg)
	reservations, query := initServices(cfg, publisher)

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, clock.NewSystem())
	serverApp.SetApp(cfg, verifier,
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewReservationHandler(reservations, query, cfg.Log),
		handler.NewSpaceHandler(query, cfg.Log),
		handler.NewLogHandler(query, cfg.Log),
	)
	serverApp.OnShutdown(closePublisher)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher service.EventPublisher) (service.ReservationService, service.QueryService) {
	rules, err := service.RulesFromPolicy(cfg.Booking)
	if err != nil {
		cfg.Log.Fatal("Invalid booking policy", "error", err)
	}

	repos := service.Repositories{
		Members:      repository.NewMongoMemberRepository(cfg),
		Spaces:       repository.NewMongoSpaceRepository(cfg),
		Reservations: repository.NewMongoReservationRepository(cfg),
		Logs:         repository.NewMongoReservationLogRepository(cfg),
		SlotClaims:   repository.NewMongoSlotClaimRepository(cfg),
	}

	reservations := service.NewReservationService(
		repos,
		mongotx.NewTransactionManager(cfg.Client.Mongo, cfg.TransactionTimeout),
		service.NewTimeSlotValidator(rules),
		validator.NewReservationValidator(cfg.Log),
		publisher,
		clock.NewSystem(),
		cfg,
	)

	cfg.Log.Info("Reservation service initialized",
		"database", cfg.MongoDatabaseName,
		"timezone", rules.Location.String(),
	)
	return reservations, service.NewQueryService(repos, cfg)
}

// initPublisher returns a Kafka-backed publisher when brokers are configured
// and a no-op one otherwise.
func initPublisher(cfg *config.Config) (service.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, reservation events are disabled")
		return service.NoopPublisher{}, func() {}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic,
		Compression: cfg.KafkaCompression,
	}, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Publishing reservation events", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return events.NewKafkaPublisher(producer), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
