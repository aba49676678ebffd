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
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvGeofenceRadiusMeters = "GEOFENCE_RADIUS_METERS"
	EnvSlotIncrementMin     = "SLOT_INCREMENT_MIN"

	EnvLocationAcquireTimeout = "LOCATION_ACQUIRE_TIMEOUT"
	EnvLocationMaxCacheAge    = "LOCATION_MAX_CACHE_AGE"

	EnvGeocoderBaseURL = "GEOCODER_BASE_URL"

	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
)
