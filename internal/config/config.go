// Package config builds the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory     = "memory"
	StorageFilesystem = "filesystem"
	StorageS3         = "s3"
)

// Config is built once at startup and passed to every component that needs it.
type Config struct {
	ListenAddr string
	LogLevel   string

	// TemplateBaseURL is prefixed to the escaped template id.
	TemplateBaseURL string

	// PublicBaseURL is prefixed to the escaped object key of an upload.
	PublicBaseURL string

	FetchTimeout time.Duration

	StorageType       string
	LocalStoragePath  string
	S3Bucket          string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	FontPath string

	// OutputWidth and OutputHeight force the canvas size; zero keeps the
	// template's own size.
	OutputWidth  int
	OutputHeight int
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:        ":" + getenv("PORT", "8080"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		TemplateBaseURL:   getenv("TEMPLATE_BASE_URL", os.Getenv("SUPABASE_IMAGE_BASE")),
		StorageType:       strings.ToLower(getenv("STORAGE_TYPE", StorageMemory)),
		LocalStoragePath:  getenv("LOCAL_STORAGE_PATH", "./data"),
		S3Bucket:          getenv("S3_BUCKET", os.Getenv("SUPABASE_IMAGE_BUCKET")),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getenv("S3_REGION", "us-east-1"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		FontPath:          getenv("FONT_PATH", "fonts/DejaVuSans-Bold.ttf"),
	}
	cfg.PublicBaseURL = getenv("PUBLIC_BASE_URL", cfg.TemplateBaseURL)

	var err error
	if cfg.OutputWidth, err = getint("OUTPUT_WIDTH", 1080); err != nil {
		return nil, err
	}
	if cfg.OutputHeight, err = getint("OUTPUT_HEIGHT", 1080); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getduration("FETCH_TIMEOUT", 12*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageType {
	case StorageMemory, StorageFilesystem:
	case StorageS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET must be set for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.OutputWidth < 0 || c.OutputHeight < 0 {
		return errors.New("OUTPUT_WIDTH and OUTPUT_HEIGHT must not be negative")
	}
	return nil
}

// HasOutputSize reports whether the canvas is resized before drawing.
func (c *Config) HasOutputSize() bool {
	return c.OutputWidth > 0 && c.OutputHeight > 0
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
