package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBufferMinutes      = "BOOKING_BUFFER_MINUTES"
	EnvCheckoutGraceMin   = "CHECKOUT_GRACE_MINUTES"
	EnvMinBookingHours    = "MIN_BOOKING_HOURS"
	EnvBookingLockTTL     = "BOOKING_LOCK_TTL"
	EnvMaxConflictScan    = "MAX_CONFLICT_SCAN"
	EnvKafkaBookingsTopic = "KAFKA_BOOKINGS_TOPIC"
	EnvKafkaBookingsDLQ   = "KAFKA_BOOKINGS_DLQ_TOPIC"
	EnvKafkaEnabled       = "KAFKA_ENABLED"
)
