package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"roombook/pkg/client"
	"roombook/pkg/logger"
)

var (
	clockRegex    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mongoURIRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

// BookingPolicy holds the tunable reservation rules. It can be overlaid from
// a TOML file named by BOOKING_POLICY_FILE.
type BookingPolicy struct {
	OpeningTime string        `toml:"opening_time"`
	ClosingTime string        `toml:"closing_time"`
	MinDuration time.Duration `toml:"min_duration"`
	MaxDuration time.Duration `toml:"max_duration"`
	TimeZone    string        `toml:"timezone"`
}

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout     time.Duration
	TransactionTimeout time.Duration
	MaxRequestSize     int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CORSOrigins []string

	JWTSecret string
	JWTIssuer string

	KafkaBrokers     []string
	KafkaTopic       string
	KafkaCompression string

	Booking BookingPolicy

	Log    *logger.Logger
	Client *client.Client
}

// Load reads, validates and logs the configuration, exiting the process when
// it is invalid.
func Load(serviceName string) *Config {
	log := logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	cfg, err := Parse()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	cfg.Log = log
	cfg.Client = client.NewClient()
	cfg.LogConfiguration()
	return cfg
}

// Parse builds a Config from the optional .env file, the environment and the
// optional booking policy file, then validates it.
func Parse() (*Config, error) {
	if err := loadEnvFile(getEnvStr(EnvFile, DefaultEnvFile)); err != nil {
		return nil, err
	}

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout:     getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		TransactionTimeout: getEnvDuration(EnvTransactionTimeout, DefaultTransactionTimeout),
		MaxRequestSize:     getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		CORSOrigins: splitCSV(getEnvStr(EnvCORSOrigins, DefaultCORSOrigins)),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),
		JWTIssuer: getEnvStr(EnvJWTIssuer, DefaultJWTIssuer),

		KafkaBrokers:     splitCSV(getEnvStr(EnvKafkaBrokers, "")),
		KafkaTopic:       getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),
		KafkaCompression: getEnvStr(EnvKafkaCompression, DefaultKafkaCompression),

		Booking: BookingPolicy{
			OpeningTime: getEnvStr(EnvBookingOpeningTime, DefaultBookingOpeningTime),
			ClosingTime: getEnvStr(EnvBookingClosingTime, DefaultBookingClosingTime),
			MinDuration: getEnvDuration(EnvBookingMinDuration, DefaultBookingMinDuration),
			MaxDuration: getEnvDuration(EnvBookingMaxDuration, DefaultBookingMaxDuration),
			TimeZone:    getEnvStr(EnvBookingTimeZone, DefaultBookingTimeZone),
		},
	}

	if path := getEnvStr(EnvBookingPolicyFile, ""); path != "" {
		if err := cfg.Booking.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

// overlayFile replaces policy fields with those present in a TOML file.
// Fields missing from the file keep their current values.
func (p *BookingPolicy) overlayFile(path string) error {
	var file BookingPolicy
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("failed to load booking policy: %w", err)
	}
	if file.OpeningTime != "" {
		p.OpeningTime = file.OpeningTime
	}
	if file.ClosingTime != "" {
		p.ClosingTime = file.ClosingTime
	}
	if file.MinDuration != 0 {
		p.MinDuration = file.MinDuration
	}
	if file.MaxDuration != 0 {
		p.MaxDuration = file.MaxDuration
	}
	if file.TimeZone != "" {
		p.TimeZone = file.TimeZone
	}
	return nil
}

// OpeningMinute returns the opening time as minutes since midnight.
func (p BookingPolicy) OpeningMinute() int {
	return clockMinutes(p.OpeningTime)
}

// ClosingMinute returns the closing time as minutes since midnight.
func (p BookingPolicy) ClosingMinute() int {
	return clockMinutes(p.ClosingTime)
}

func (p BookingPolicy) Location() (*time.Location, error) {
	return time.LoadLocation(p.TimeZone)
}

func (p BookingPolicy) validate() []string {
	var errs []string

	if !clockRegex.MatchString(p.OpeningTime) {
		errs = append(errs, fmt.Sprintf("BookingOpeningTime must be in HH:MM format (00:00-23:59), got: %s", p.OpeningTime))
	}
	if !clockRegex.MatchString(p.ClosingTime) {
		errs = append(errs, fmt.Sprintf("BookingClosingTime must be in HH:MM format (00:00-23:59), got: %s", p.ClosingTime))
	}
	if len(errs) == 0 {
		if p.OpeningMinute() >= p.ClosingMinute() {
			errs = append(errs, fmt.Sprintf("BookingOpeningTime (%s) must be before BookingClosingTime (%s)", p.OpeningTime, p.ClosingTime))
		}
		granularity := int(SlotGranularity / time.Minute)
		if p.OpeningMinute()%granularity != 0 || p.ClosingMinute()%granularity != 0 {
			errs = append(errs, fmt.Sprintf("Booking opening and closing times must be aligned to %s", SlotGranularity))
		}
	}

	if p.MinDuration <= 0 {
		errs = append(errs, fmt.Sprintf("BookingMinDuration must be positive, got: %s", p.MinDuration))
	}
	if p.MaxDuration < p.MinDuration {
		errs = append(errs, fmt.Sprintf("BookingMaxDuration (%s) must be >= BookingMinDuration (%s)", p.MaxDuration, p.MinDuration))
	}
	if p.MinDuration%SlotGranularity != 0 || p.MaxDuration%SlotGranularity != 0 {
		errs = append(errs, fmt.Sprintf("Booking durations must be multiples of %s", SlotGranularity))
	}

	if _, err := p.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("BookingTimeZone is not a known location: %s", p.TimeZone))
	}

	return errs
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !mongoURIRegex.MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWTSecret cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"TransactionTimeout", cfg.TransactionTimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(cfg.KafkaBrokers) > 0 {
		if cfg.KafkaTopic == "" {
			errs = append(errs, "KafkaTopic cannot be empty when KafkaBrokers are set")
		}
		validCompressions := map[string]bool{
			"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
		}
		if !validCompressions[cfg.KafkaCompression] {
			errs = append(errs, fmt.Sprintf("KafkaCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.KafkaCompression))
		}
	}

	errs = append(errs, cfg.Booking.validate()...)

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errs {
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
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"transaction_timeout", cfg.TransactionTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"cors_origins", cfg.CORSOrigins,
		"jwt_issuer", cfg.JWTIssuer,
		"kafka_enabled", len(cfg.KafkaBrokers) > 0,
		"kafka_topic", cfg.KafkaTopic,
		"booking_opening_time", cfg.Booking.OpeningTime,
		"booking_closing_time", cfg.Booking.ClosingTime,
		"booking_min_duration", cfg.Booking.MinDuration,
		"booking_max_duration", cfg.Booking.MaxDuration,
		"booking_timezone", cfg.Booking.TimeZone,
	)
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func clockMinutes(hhmm string) int {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return -1
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return -1
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return -1
	}
	return hours*60 + minutes
}

func splitCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
