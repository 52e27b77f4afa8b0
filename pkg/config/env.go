package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoUser         = "DB_USER"
	EnvMongoPassword     = "DB_PASS"
	EnvMongoHost         = "MONGO_HOST"
	EnvMongoAppName      = "MONGO_APP_NAME"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoStableAPI    = "MONGO_STABLE_API"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvTokenSecret    = "ACCESS_TOKEN_SECRET"
	EnvTokenTTL       = "TOKEN_TTL"
	EnvCookieSecure   = "COOKIE_SECURE"
	EnvCookieSameSite = "COOKIE_SAME_SITE"

	EnvAuthNormalizedStatus  = "AUTH_NORMALIZED_STATUS"
	EnvAllowUnscopedBookings = "BOOKINGS_ALLOW_UNSCOPED_LIST"
	EnvCORSOrigins           = "CORS_ORIGINS"
	EnvRateLimitRPM          = "RATE_LIMIT_RPM"
	EnvAuthRateLimitRPM      = "AUTH_RATE_LIMIT_RPM"
	EnvTrustProxyHeaders     = "TRUST_PROXY_HEADERS"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
