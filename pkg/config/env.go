package config

const (
	EnvFile = "ENV_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout     = "REQUEST_TIMEOUT"
	EnvTransactionTimeout = "TRANSACTION_TIMEOUT"
	EnvMaxRequestSize     = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSOrigins = "CORS_ORIGINS"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTIssuer = "JWT_ISSUER"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaTopic       = "KAFKA_TOPIC"
	EnvKafkaCompression = "KAFKA_COMPRESSION"

	EnvBookingPolicyFile  = "BOOKING_POLICY_FILE"
	EnvBookingOpeningTime = "BOOKING_OPENING_TIME"
	EnvBookingClosingTime = "BOOKING_CLOSING_TIME"
	EnvBookingMinDuration = "BOOKING_MIN_DURATION"
	EnvBookingMaxDuration = "BOOKING_MAX_DURATION"
	EnvBookingTimeZone    = "BOOKING_TIMEZONE"
)
