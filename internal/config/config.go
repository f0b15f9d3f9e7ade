package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrMissingEnv is returned when a required environment variable is unset
var ErrMissingEnv = errors.New("missing required environment variable")

// DefaultCutoff marks the deployment of the corrected resize logic. Uploads
// processed before it went through the buggy sizing rule.
var DefaultCutoff = time.Date(2021, time.September, 1, 0, 0, 0, 0, time.UTC)

// Config holds all job configuration
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Job      JobConfig
	HTTPAddr string
	Metrics  MetricsConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	User                   string
	Password               string
	Name                   string
	InstanceConnectionName string
	SocketDir              string
	Host                   string // overrides the Cloud SQL socket when set
	Port                   int
	SSLMode                string
	MaxConns               int
	ConnMaxLifetime        time.Duration
	QueryTimeout           time.Duration
}

// StorageConfig holds object store configuration
type StorageConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	LocalDir        string // serve the bucket from {LocalDir}/{Bucket} instead of S3
}

// JobConfig holds correction pass settings
type JobConfig struct {
	Cutoff        time.Time
	MaxWidth      int
	MaxHeight     int
	Quality       int
	ScratchDir    string
	DryRun        bool
	MarkProcessed bool
}

// MetricsConfig holds Pushgateway settings
type MetricsConfig struct {
	PushgatewayURL string
}

// Load reads configuration from the environment. All required variables are
// checked before returning so the error names every missing one.
func Load() (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Database: DatabaseConfig{
			User:                   required("DB_USER"),
			Password:               required("DB_PASS"),
			Name:                   required("DB_NAME"),
			InstanceConnectionName: required("INSTANCE_CONNECTION_NAME"),
			SocketDir:              getEnv("DB_SOCKET_DIR", "/cloudsql"),
			Host:                   getEnv("DB_HOST", ""),
			Port:                   getEnvAsInt("DB_PORT", 5432),
			SSLMode:                getEnv("DB_SSLMODE", "disable"),
			MaxConns:               getEnvAsInt("DB_MAX_CONNS", 5),
			ConnMaxLifetime:        getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			QueryTimeout:           getEnvAsDuration("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Bucket:          required("BUCKET_NAME"),
			Endpoint:        getEnv("S3_ENDPOINT", "https://storage.googleapis.com"),
			Region:          getEnv("S3_REGION", "auto"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			LocalDir:        getEnv("STORAGE_DIR", ""),
		},
		Job: JobConfig{
			MaxWidth:      getEnvAsInt("MAX_WIDTH", 1440),
			MaxHeight:     getEnvAsInt("MAX_HEIGHT", 810),
			Quality:       getEnvAsInt("ENCODE_QUALITY", 75),
			ScratchDir:    getEnv("SCRATCH_DIR", os.TempDir()),
			DryRun:        getEnvAsBool("DRY_RUN", false),
			MarkProcessed: getEnvAsBool("MARK_PROCESSED", false),
		},
		HTTPAddr: getEnv("HTTP_ADDR", ""),
		Metrics: MetricsConfig{
			PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	cutoff, err := getEnvAsTime("PROCESSED_CUTOFF", DefaultCutoff)
	if err != nil {
		return nil, err
	}
	cfg.Job.Cutoff = cutoff

	if cfg.Job.MaxWidth <= 0 || cfg.Job.MaxHeight <= 0 {
		return nil, fmt.Errorf("invalid bounds %dx%d", cfg.Job.MaxWidth, cfg.Job.MaxHeight)
	}
	if cfg.Job.Quality < 1 || cfg.Job.Quality > 100 {
		return nil, fmt.Errorf("invalid encode quality: %d", cfg.Job.Quality)
	}

	return cfg, nil
}

// DSN returns the lib/pq connection string. Without DB_HOST the connection
// goes through the Cloud SQL unix socket {SocketDir}/{InstanceConnectionName}.
func (c DatabaseConfig) DSN() string {
	host := c.Host
	if host == "" {
		host = path.Join(c.SocketDir, c.InstanceConnectionName)
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	q.Set("host", host)
	q.Set("port", strconv.Itoa(c.Port))
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsTime(key string, defaultValue time.Time) (time.Time, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t.UTC(), nil
}
