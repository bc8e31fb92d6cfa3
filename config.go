package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/media"
	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/sender"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds every setting the backend reads from the environment.
type Config struct {
	Port           string
	Env            string
	MongoURI       string
	MongoDBName    string
	RedisURL       string
	ClientURL      string
	AdminURL       string
	AllowedOrigins string

	TokenSecret         string // access and refresh tokens
	VerifySecret        string // reset-password links (JWT_SECRET_FOR_VERIFY)
	ProviderTokenSecret string // provider sign-in tokens, optional

	SMTP     sender.SMTPConfig
	Postgres database.PostgresConfig

	ImageStore string // cloudinary | s3
	Cloudinary media.CloudinaryConfig
	S3         media.S3Config

	OrderEventsTopicARN string
	OrderEventsQueueURL string

	StripeSecretKey string
	StripeCurrency  string

	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
	RateLimitRPS      float64
	RateLimitBurst    int
}

// secretOverlay replaces config values with the secrets that resolve.
type secretOverlay interface {
	Overlay(ctx context.Context, dst map[string]*string) int
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true the secrets are read from Secrets Manager,
// falling back to env vars on failure.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := fromEnv()

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			applySecrets(context.Background(), cfg, awspkg.NewSecretsClient(awsCfg, os.Getenv("AWS_SECRETS_PREFIX"), zap.L()))
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "vastrashahi"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ClientURL:      getEnv("CLIENT_URL", "http://localhost:3000"),
		AdminURL:       getEnv("ADMIN_URL", "http://localhost:4000"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),

		TokenSecret:         os.Getenv("TOKEN_SECRET"),
		VerifySecret:        os.Getenv("JWT_SECRET_FOR_VERIFY"),
		ProviderTokenSecret: os.Getenv("PROVIDER_TOKEN_SECRET"),

		SMTP: sender.SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getEnv("SMTP_PORT", "587"),
			Username:   os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASS"),
			SenderName: getEnv("SMTP_SENDER_NAME", "Vastrashahi"),
		},
		Postgres: database.PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
			TimeZone: os.Getenv("POSTGRES_TIMEZONE"),
		},

		ImageStore: getEnv("IMAGE_STORE", "cloudinary"),
		Cloudinary: media.CloudinaryConfig{
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:       os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "profile"),
		},
		S3: media.S3Config{
			Bucket:           getEnv("AWS_S3_BUCKET", "vastrashahi"),
			Prefix:           getEnv("AWS_S3_PREFIX", "products/"),
			CloudFrontDomain: os.Getenv("AWS_CLOUDFRONT_DOMAIN"),
			Endpoint:         getEnv("AWS_S3_ENDPOINT", os.Getenv("AWS_ENDPOINT")),
		},

		OrderEventsTopicARN: os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		OrderEventsQueueURL: os.Getenv("ORDER_EVENTS_QUEUE_URL"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		StripeCurrency:  getEnv("STRIPE_CURRENCY", "inr"),

		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchGroup:   getEnv("CLOUDWATCH_LOG_GROUP", "/vastrashahi/backend"),
		MetricsNamespace:  getEnv("CLOUDWATCH_NAMESPACE", "Vastrashahi"),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

// applySecrets overrides env values with any secret that resolves to a non-empty string.
func applySecrets(ctx context.Context, cfg *Config, sm secretOverlay) {
	sm.Overlay(ctx, map[string]*string{
		"TOKEN_SECRET":          &cfg.TokenSecret,
		"JWT_SECRET_FOR_VERIFY": &cfg.VerifySecret,
		"STRIPE_SECRET_KEY":     &cfg.StripeSecretKey,
		"CLOUDINARY_API_SECRET": &cfg.Cloudinary.APISecret,
	})
}

func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}
	if c.VerifySecret == "" {
		return fmt.Errorf("JWT_SECRET_FOR_VERIFY is required")
	}
	if c.ImageStore != "cloudinary" && c.ImageStore != "s3" {
		return fmt.Errorf("IMAGE_STORE must be cloudinary or s3, got %q", c.ImageStore)
	}
	return nil
}
