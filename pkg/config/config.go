package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"queendoctor/pkg/client"
	mongoutil "queendoctor/pkg/db/mongo"
	kafkaconfig "queendoctor/pkg/kafka/config"
	"queendoctor/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	MongoStableAPI    bool

	Port      string
	LogLevel  string
	LogFormat string

	TokenSecret    string
	TokenTTL       time.Duration
	CookieSecure   bool
	CookieSameSite string

	AuthNormalizedStatus  bool
	AllowUnscopedBookings bool

	CORSOrigins       []string
	RateLimitRPM      int
	AuthRateLimitRPM  int
	TrustProxyHeaders bool

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Kafka *kafkaconfig.Config
	Log   *logger.Logger
}

var (
	mongoSchemeRegex     = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mongoCredentialRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
)

// Load reads .env (if present) and the process environment. An invalid
// configuration is fatal.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := FromEnv()
	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	if err := cfg.Kafka.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	if cfg.TokenSecret == "" {
		cfg.Log.Warn("Token secret is not set; credential issuance will fail", "env", EnvTokenSecret)
	}
	cfg.LogConfiguration()
	cfg.Kafka.LogConfiguration(cfg.Log.Info)
	return cfg
}

// FromEnv builds a Config from the environment without validating it.
func FromEnv() *Config {
	return &Config{
		MongoURI:          mongoURIFromEnv(),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoStableAPI:    getEnvBool(EnvMongoStableAPI, false),

		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, logger.JSON),

		TokenSecret:    strings.TrimSpace(os.Getenv(EnvTokenSecret)),
		TokenTTL:       getEnvDuration(EnvTokenTTL, DefaultTokenTTL),
		CookieSecure:   getEnvBool(EnvCookieSecure, false),
		CookieSameSite: strings.ToLower(getEnvStr(EnvCookieSameSite, "")),

		AuthNormalizedStatus:  getEnvBool(EnvAuthNormalizedStatus, false),
		AllowUnscopedBookings: getEnvBool(EnvAllowUnscopedBookings, false),

		CORSOrigins:       splitCSV(getEnvStr(EnvCORSOrigins, DefaultCORSOrigins)),
		RateLimitRPM:      getEnvNum(EnvRateLimitRPM, DefaultRateLimitRPM),
		AuthRateLimitRPM:  getEnvNum(EnvAuthRateLimitRPM, DefaultAuthRateLimitRPM),
		TrustProxyHeaders: getEnvBool(EnvTrustProxyHeaders, false),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Kafka: kafkaconfig.FromEnv(),
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoSchemeRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.TokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("TokenTTL must be positive, got: %s", cfg.TokenTTL))
	}
	if _, ok := parseSameSite(cfg.CookieSameSite); !ok {
		errors = append(errors, fmt.Sprintf("CookieSameSite must be one of [\"\", lax, strict, none], got: %s", cfg.CookieSameSite))
	}
	if cfg.CookieSameSite == "none" && !cfg.CookieSecure {
		errors = append(errors, "CookieSameSite=none requires CookieSecure=true")
	}
	if len(cfg.CORSOrigins) == 0 {
		errors = append(errors, "CORSOrigins cannot be empty")
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRPM <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRPM must be positive, got: %d", cfg.RateLimitRPM))
	}
	if cfg.AuthRateLimitRPM <= 0 {
		errors = append(errors, fmt.Sprintf("AuthRateLimitRPM must be positive, got: %d", cfg.AuthRateLimitRPM))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_stable_api", cfg.MongoStableAPI,
		"port", cfg.Port,
		"token_secret_set", cfg.TokenSecret != "",
		"token_ttl", cfg.TokenTTL,
		"cookie_secure", cfg.CookieSecure,
		"cookie_same_site", cfg.CookieSameSite,
		"auth_normalized_status", cfg.AuthNormalizedStatus,
		"allow_unscoped_bookings", cfg.AllowUnscopedBookings,
		"cors_origins", cfg.CORSOrigins,
		"rate_limit_rpm", cfg.RateLimitRPM,
		"auth_rate_limit_rpm", cfg.AuthRateLimitRPM,
		"trust_proxy_headers", cfg.TrustProxyHeaders,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

// SameSite maps the configured cookie policy onto net/http. An empty policy
// leaves the attribute off the cookie.
func (cfg *Config) SameSite() http.SameSite {
	mode, _ := parseSameSite(cfg.CookieSameSite)
	return mode
}

func parseSameSite(value string) (http.SameSite, bool) {
	switch value {
	case "":
		return 0, true
	case "lax":
		return http.SameSiteLaxMode, true
	case "strict":
		return http.SameSiteStrictMode, true
	case "none":
		return http.SameSiteNoneMode, true
	default:
		return 0, false
	}
}

// mongoURIFromEnv prefers MONGO_URI and falls back to an Atlas SRV URI built
// from DB_USER, DB_PASS and MONGO_HOST.
func mongoURIFromEnv() string {
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		return uri
	}

	user, pass := os.Getenv(EnvMongoUser), os.Getenv(EnvMongoPassword)
	if user == "" || pass == "" {
		return DefaultMongoURI
	}

	host := os.Getenv(EnvMongoHost)
	if host == "" {
		return ""
	}

	query := url.Values{}
	query.Set("retryWrites", "true")
	query.Set("w", "majority")
	query.Set("appName", getEnvStr(EnvMongoAppName, DefaultMongoAppName))

	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     host,
		Path:     "/",
		RawQuery: query.Encode(),
	}
	return u.String()
}

func redactMongoURI(uri string) string {
	return mongoCredentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) MongoConfig() client.MongoConfig {
	return client.MongoConfig{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDatabaseName,
		ConnTimeout: cfg.MongoConnTimeout,
		StableAPI:   cfg.MongoStableAPI,
	}
}

func (cfg *Config) Timeouts() mongoutil.Timeouts {
	return mongoutil.Timeouts{Read: cfg.ReadTimeout, Write: cfg.WriteTimeout}
}
