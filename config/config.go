package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "github.com/devmazaharul/fcommerce/pkg/aws"
	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	AppEnv string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL string

	JWTSecret          string
	SessionTTL         time.Duration
	CookieSecure       bool
	GuardVerifyTimeout time.Duration
	AdminEmail         string
	AdminPassword      string

	CartMaxQty  int
	CartTTL     time.Duration
	CartIdleTTL time.Duration
	CartStorage string

	EventsBackend    string
	KafkaBrokers     []string
	OrderEventsTopic string
	OrderSNSTopicArn string

	S3Bucket        string
	S3PublicBaseURL string

	AllowedOrigins    []string
	UseSecrets        bool
	CloudWatchEnabled bool
	MetricsNamespace  string
}

// SecretSource resolves named JSON secrets. *aws_pkg.SecretsClient satisfies it.
type SecretSource interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

// Load reads configuration from the environment, after loading a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.UseSecrets {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			return nil, err
		}
		cfg.applySecrets(context.Background(), aws_pkg.NewSecretsClient(awsCfg))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	var errs []string
	duration := func(key string, fallback time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, raw))
			return fallback
		}
		return d
	}
	integer := func(key string, fallback int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Sprintf("%s: invalid positive integer %q", key, raw))
			return fallback
		}
		return n
	}

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Dhaka"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		SessionTTL:         duration("SESSION_TTL", time.Hour),
		CookieSecure:       getEnv("COOKIE_SECURE", "true") != "false",
		GuardVerifyTimeout: duration("GUARD_VERIFY_TIMEOUT", 2*time.Second),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),

		CartMaxQty:  integer("CART_MAX_QTY", 10),
		CartTTL:     duration("CART_TTL", 7*24*time.Hour),
		CartIdleTTL: duration("CART_IDLE_TTL", 30*time.Minute),
		CartStorage: strings.ToLower(getEnv("CART_STORAGE", "redis")),

		EventsBackend:    strings.ToLower(getEnv("EVENTS_BACKEND", "none")),
		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order.placed"),
		OrderSNSTopicArn: os.Getenv("ORDER_SNS_TOPIC_ARN"),

		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		UseSecrets:        os.Getenv("AWS_USE_SECRETS") == "true",
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
		MetricsNamespace:  getEnv("CLOUDWATCH_NAMESPACE", "FCommerce"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// applySecrets overrides database credentials and the JWT secret from
// Secrets Manager. Missing secrets leave the environment values in place.
func (c *Config) applySecrets(ctx context.Context, sm SecretSource) {
	if m, err := sm.GetSecretMap(ctx, "fcommerce/DB_CREDENTIALS"); err == nil {
		override(&c.PostgresUser, m["POSTGRES_USER"])
		override(&c.PostgresPassword, m["POSTGRES_PASSWORD"])
		override(&c.PostgresDB, m["POSTGRES_DB"])
		override(&c.PostgresHost, m["POSTGRES_HOST"])
		override(&c.PostgresPort, m["POSTGRES_PORT"])
	}
	if m, err := sm.GetSecretMap(ctx, "fcommerce/JWT"); err == nil {
		override(&c.JWTSecret, m["JWT_SECRET"])
	}
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "" || c.PostgresHost == "" {
		return fmt.Errorf("database config incomplete")
	}
	switch c.CartStorage {
	case "redis", "memory":
	default:
		return fmt.Errorf("CART_STORAGE must be redis or memory, got %q", c.CartStorage)
	}
	switch c.EventsBackend {
	case "none":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_BACKEND=kafka")
		}
	case "sns":
		if c.OrderSNSTopicArn == "" {
			return fmt.Errorf("ORDER_SNS_TOPIC_ARN is required when EVENTS_BACKEND=sns")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be kafka, sns or none, got %q", c.EventsBackend)
	}
	return nil
}

// PostgresDSN builds the gorm postgres DSN.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
