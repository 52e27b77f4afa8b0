package main

import (
	"context"

	"queendoctor/internal/auth"
	authhandler "queendoctor/internal/auth/handler"
	"queendoctor/internal/bookings/events"
	bookinghandler "queendoctor/internal/bookings/handler"
	bookingrepo "queendoctor/internal/bookings/repository"
	bookingservice "queendoctor/internal/bookings/service"
	healthhandler "queendoctor/internal/health/handler"
	servicehandler "queendoctor/internal/services/handler"
	servicerepo "queendoctor/internal/services/repository"
	serviceservice "queendoctor/internal/services/service"
	"queendoctor/pkg/app"
	"queendoctor/pkg/client"
	"queendoctor/pkg/config"
	"queendoctor/pkg/kafka"
	kafkamiddleware "queendoctor/pkg/kafka/middleware"
	"queendoctor/pkg/validator"
)

const ServiceName = "queendoctor"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting queendoctor API")

	mongo, err := client.ConnectMongo(context.Background(), cfg.MongoConfig(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	serverApp := newApplication(cfg, mongo)
	serverApp.OnShutdown("mongo", mongo.Close)
	serverApp.Run()
}

func newApplication(cfg *config.Config, mongo *client.Mongo) *app.Application {
	serverApp := app.NewApplication(cfg)

	publisher, metrics := initEvents(cfg, serverApp)
	v := validator.New()

	tokens := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	requireToken := auth.RequireToken(tokens, auth.VerifierOptions{NormalizedStatus: cfg.AuthNormalizedStatus}, cfg.Log)

	catalog := serviceservice.NewCatalogService(
		servicerepo.NewMongoServiceRepository(mongo.Database, cfg.Timeouts()),
		v,
		cfg.Log,
	)
	bookings := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(mongo.Database, cfg.Timeouts()),
		v,
		publisher,
		bookingservice.Options{AllowUnscopedList: cfg.AllowUnscopedBookings},
		cfg.Log,
	)
	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(
		healthhandler.NewHealthHandler(mongo, metrics, cfg.Log),
		authhandler.NewAuthHandler(
			tokens,
			auth.NewEmailIdentityChecker(v),
			authhandler.CookieConfig{Secure: cfg.CookieSecure, SameSite: cfg.SameSite()},
			cfg.Log,
		),
		servicehandler.NewServiceHandler(catalog, cfg.Log),
		bookinghandler.NewBookingHandler(bookings, requireToken, cfg.Log),
	)
	return serverApp
}

// initEvents returns a no-op publisher unless Kafka brokers are configured.
func initEvents(cfg *config.Config, serverApp *app.Application) (events.Publisher, healthhandler.EventMetrics) {
	if !cfg.Kafka.Enabled() {
		cfg.Log.Info("Booking events disabled")
		return events.NopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := kafkamiddleware.NewMetrics()
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware(metrics))

	serverApp.OnShutdown("kafka-producer", func(context.Context) error {
		return producer.Close()
	})

	cfg.Log.Info("Booking events enabled", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, cfg.Kafka.Source, cfg.Kafka.PublishTimeout, cfg.Log), metrics
}
