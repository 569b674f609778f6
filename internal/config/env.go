package config

import (
	"os"
	"strconv"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Port             string
	Env              string
	BackendRoot      string
	BackendTimeout   time.Duration
	RequestTimeout   time.Duration
	DetectionTimeout time.Duration
	MaxUploadBytes   int64

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	ViewStateTTL  time.Duration

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSBucketName      string
}

// LoadEnv reads .env when present. A missing file only logs a warning so the
// process can run on plain environment variables.
func LoadEnv(logger *logrus.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", err)
	}
}

func NewAppConfig() AppConfig {
	return AppConfig{
		Port:             getEnv("APP_PORT", "3000"),
		Env:              getEnv("APP_ENV", "development"),
		BackendRoot:      getEnv("BACKEND_ROOT", gateway.DefaultRoot),
		BackendTimeout:   getDuration("BACKEND_TIMEOUT", 60*time.Second),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 10*time.Second),
		DetectionTimeout: getDuration("DETECTION_TIMEOUT", 120*time.Second),
		MaxUploadBytes:   int64(getInt("MAX_UPLOAD_MB", 50)) * 1024 * 1024,

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		ViewStateTTL:  getDuration("VIEW_STATE_TTL", 24*time.Hour),

		AWSRegion:          getEnv("AWS_REGION", "eu-west-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSBucketName:      os.Getenv("AWS_BUCKET_NAME"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
