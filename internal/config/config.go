package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type AWSConfig struct {
	Region     string
	AccountID  string
	BucketName string

	AccessKeyID     string
	SecretAccessKey string
}

type ServiceConfig struct {
	UploadsNotificationsQueueName string

	SweepInterval  time.Duration
	ChunkRetention time.Duration
}

type CorsConfig struct {
	Origins string
}

type Config struct {
	Env         string
	UploadsAddr string

	Tracing     bool
	TracingAddr string

	AWSConfig     *AWSConfig
	ServiceConfig *ServiceConfig
	CorsConfig    *CorsConfig
}

func LoadConfig() Config {
	return Config{
		Env:         getEnv("ENV", "DEV"),
		UploadsAddr: getEnv("UPLOADS_ADDR", ":8080"),

		Tracing:     getEnvBool("TRACING", false),
		TracingAddr: getEnv("TRACING_ADDR", "localhost:4317"),

		AWSConfig: &AWSConfig{
			Region:     getEnv("AWS_REGION", "us-east-1"),
			AccountID:  os.Getenv("AWS_ACCOUNT_ID"),
			BucketName: getEnv("UPLOADS_BUCKET_NAME", "chatstack-uploads"),

			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},

		ServiceConfig: &ServiceConfig{
			UploadsNotificationsQueueName: os.Getenv("UPLOADS_NOTIFICATIONS_QUEUE_NAME"),

			SweepInterval:  getEnvDuration("CHUNK_SWEEP_INTERVAL", 15*time.Minute),
			ChunkRetention: getEnvDuration("CHUNK_RETENTION", 24*time.Hour),
		},

		CorsConfig: &CorsConfig{
			Origins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
	}
}

func (c *Config) Validate() error {
	if c.AWSConfig == nil {
		return errors.New("aws config is missing")
	}
	return c.AWSConfig.Validate()
}

func (c *AWSConfig) Validate() error {
	if c.Region == "" {
		return errors.New("aws region is required")
	}
	return c.ValidateSecrets()
}

func (c *AWSConfig) ValidateSecrets() error {
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return errors.New("aws security credentials were not found")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
