package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoAppName      = "Cluster0"
	DefaultMongoDatabaseName = "queenDoctor"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "5001"
	DefaultLogLevel = "info"

	DefaultTokenTTL = 5 * time.Hour

	DefaultCORSOrigins      = "http://localhost:5173"
	DefaultRateLimitRPM     = 120
	DefaultAuthRateLimitRPM = 20

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
