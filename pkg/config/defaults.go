package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "lineup"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultGeofenceRadiusMeters = 100.0
	DefaultSlotIncrementMin     = 30

	DefaultLocationAcquireTimeout = 10 * time.Second
	DefaultLocationMaxCacheAge    = 60 * time.Second

	DefaultLogLevel = "info"

	DefaultPaginationLimit = 100
)
