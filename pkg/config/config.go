package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	AWS       AWSConfig
	Stripe    StripeConfig
	Mail      MailConfig
	AIBackend AIBackendConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type AWSConfig struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	BucketName       string
	CloudFrontDomain string
}

type StripeConfig struct {
	SecretKey      string
	EndpointSecret string
	SuccessURL     string
	CancelURL      string
}

type MailConfig struct {
	SendgridAPIKey string
	FromAddress    string
	FromName       string
	// Callback URLs the mailed links point the browser at.
	ForgotPasswordURL string
	InvitationURL     string
}

type AIBackendConfig struct {
	URL string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "quanty")
	v.SetDefault("DATABASE_PASSWORD", "quanty_secret")
	v.SetDefault("DATABASE_NAME", "quanty")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 120)
	v.SetDefault("AWS_BUCKET_REGION", "eu-central-1")
	v.SetDefault("AI_BACKEND_URL", "http://localhost:5000")
	v.SetDefault("MAIL_FROM_NAME", "Quanty")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		AWS: AWSConfig{
			Region:           v.GetString("AWS_BUCKET_REGION"),
			AccessKeyID:      v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey:  v.GetString("AWS_SECRET_ACCESS_KEY"),
			BucketName:       v.GetString("AWS_BUCKET_NAME"),
			CloudFrontDomain: v.GetString("AWS_CLOUDFRONT_DOMAIN"),
		},
		Stripe: StripeConfig{
			SecretKey:      v.GetString("STRIPE_SECRET_KEY"),
			EndpointSecret: v.GetString("STRIPE_ENDPOINT_SECRET"),
			SuccessURL:     v.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:      v.GetString("STRIPE_CANCEL_URL"),
		},
		Mail: MailConfig{
			SendgridAPIKey:    v.GetString("SENDGRID_API_KEY"),
			FromAddress:       v.GetString("MAIL_FROM_ADDRESS"),
			FromName:          v.GetString("MAIL_FROM_NAME"),
			ForgotPasswordURL: v.GetString("FORGOT_PASSWORD_CALLBACK_URL"),
			InvitationURL:     v.GetString("INVITATION_CALLBACK_URL"),
		},
		AIBackend: AIBackendConfig{
			URL: v.GetString("AI_BACKEND_URL"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	return cfg, nil
}
