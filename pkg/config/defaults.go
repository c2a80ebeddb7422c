package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "deskhive"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Mandatory gap between different users' bookings on one property.
	DefaultBufferMinutes = 30

	// Minutes past planned checkout before overtime starts accruing, used
	// when a property has no grace period configured.
	DefaultCheckoutGraceMin = 15

	// Shortest bookable interval, in hours.
	DefaultMinBookingHours = 0.25

	// Tolerance for the totalAmount and amountPaid equality invariants.
	AmountTolerance = 0.01

	// Advisory lock lifetime; a lock abandoned by a crashed request expires
	// after this long.
	DefaultBookingLockTTL = 10 * time.Second

	// Upper bound on bookings fetched for one conflict check window.
	DefaultMaxConflictScan = 50

	DefaultKafkaBookingsTopic = "deskhive.booking-events"
	DefaultKafkaBookingsDLQ   = ""
	DefaultKafkaEnabled       = false
)
