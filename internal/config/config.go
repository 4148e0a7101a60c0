// Package config loads the process configuration once at startup. All
// options come from the environment (with optional .env file support); the
// resulting struct is immutable for the life of the process.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"8099"`
	APIKey string `env:"API_KEY"`

	// Directories: one sub-folder per book under SourceDir; EPUBs land in
	// DestDir.
	SourceDir string `env:"TXT_SOURCE_FOLDER" envDefault:"./data/txts"`
	DestDir   string `env:"EPUB_DEST_FOLDER" envDefault:"./data/epubs"`

	// Book metadata.
	Author   string `env:"EPUB_AUTHOR" envDefault:"Luna"`
	Language string `env:"EPUB_LANGUAGE" envDefault:"zh"`

	// Chapter detection.
	DetectionMode    string `env:"CHAPTER_DETECTION_MODE" envDefault:"pattern+blankline"`
	DoubleBlankSplit bool   `env:"ENABLE_DOUBLE_BLANK_SPLIT" envDefault:"true"`
	InsertMarker     bool   `env:"ENABLE_CHAPTER_MARKER" envDefault:"false"`
	Marker           string `env:"CHAPTER_MARKER" envDefault:"#"`
	EnableSorting    bool   `env:"ENABLE_SORTING" envDefault:"false"`
	DedupeWindow     int    `env:"HEADING_DEDUPE_WINDOW" envDefault:"0"`

	// Pipeline.
	ScanInterval time.Duration `env:"SCAN_INTERVAL" envDefault:"10m"`
	WorkerCount  int           `env:"WORKER_COUNT" envDefault:"2"`
	MaxQueueSize int           `env:"MAX_QUEUE_SIZE" envDefault:"100"`
	ReadRetries  int           `env:"READ_RETRIES" envDefault:"2"`
	WriteRetries int           `env:"WRITE_RETRIES" envDefault:"3"`
	JobTTL       time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// Notifications. Empty disables Bark pushes.
	BarkURL string `env:"BARK_PUSH"`
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DetectionMode {
	case "pattern+blankline", "pattern", "blankline":
	default:
		return fmt.Errorf("CHAPTER_DETECTION_MODE must be pattern+blankline, pattern, or blankline (got %q)", c.DetectionMode)
	}
	if c.SourceDir == "" {
		return fmt.Errorf("TXT_SOURCE_FOLDER is required")
	}
	if c.DestDir == "" {
		return fmt.Errorf("EPUB_DEST_FOLDER is required")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive (got %d)", c.WorkerCount)
	}
	return nil
}
