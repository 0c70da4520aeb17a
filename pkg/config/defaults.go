package config

import "time"

const (
	DefaultEnvFile = ".env"

	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout     = 30 * time.Second
	DefaultTransactionTimeout = 5 * time.Second
	DefaultMaxRequestSize     = 64 * 1024

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCORSOrigins = "http://localhost:3000"

	DefaultJWTIssuer = "roombook"

	DefaultKafkaTopic       = "reservation-events"
	DefaultKafkaCompression = "snappy"

	DefaultBookingOpeningTime = "10:00"
	DefaultBookingClosingTime = "22:00"
	DefaultBookingMinDuration = 30 * time.Minute
	DefaultBookingMaxDuration = 2 * time.Hour
	DefaultBookingTimeZone    = "UTC"

	// SlotGranularity is the alignment every reservation boundary must honour.
	SlotGranularity = 30 * time.Minute

	DefaultPageSize = 20
	MaxPageSize     = 100
)
