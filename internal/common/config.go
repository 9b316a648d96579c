package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	FDC    FDCConfig
	OCR    OCRConfig
	Parse  ParseConfig
	Output OutputConfig
	Master MasterConfig
	Log    LogConfig
}

// FDCConfig holds FoodData Central client configuration
type FDCConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
	Timeout  time.Duration
	Delay    time.Duration
}

// OCRConfig holds PDF text extraction configuration
type OCRConfig struct {
	Pdftotext      string
	Pdftoppm       string
	Tesseract      string
	TessdataDir    string
	DPI            int
	MaxPages       int
	EnableFallback bool
}

// ParseConfig holds item parser configuration
type ParseConfig struct {
	RulesPath string
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Dir  string
	XLSX bool
}

// MasterConfig holds the running master table destinations
type MasterConfig struct {
	CSVPath string
	DSN     string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first if present; real env vars win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		FDC: FDCConfig{
			APIKey:   getEnv("USDA_API_KEY", ""),
			BaseURL:  getEnv("FDC_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),
			PageSize: getEnvAsInt("FDC_PAGE_SIZE", 5),
			Timeout:  getEnvAsDuration("FDC_TIMEOUT", 30*time.Second),
			Delay:    getEnvAsDuration("FDC_DELAY", 100*time.Millisecond),
		},
		OCR: OCRConfig{
			Pdftotext:      getEnv("PDFTOTEXT", "pdftotext"),
			Pdftoppm:       getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:      getEnv("TESSERACT", "tesseract"),
			TessdataDir:    getEnv("TESSDATA_PREFIX", ""),
			DPI:            getEnvAsInt("OCR_DPI", 300),
			MaxPages:       getEnvAsInt("OCR_MAX_PAGES", 0),
			EnableFallback: getEnvAsBool("OCR_FALLBACK", false),
		},
		Parse: ParseConfig{
			RulesPath: getEnv("PARSE_RULES", ""),
		},
		Output: OutputConfig{
			Dir:  getEnv("OUTPUT_DIR", "out"),
			XLSX: getEnvAsBool("OUTPUT_XLSX", false),
		},
		Master: MasterConfig{
			CSVPath: getEnv("MASTER_CSV", ""),
			DSN:     getEnv("MASTER_DSN", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
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
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// Validate checks settings every entry point depends on. The API key is not required here:
// the pipeline degrades without it and fill-nutrients checks it itself.
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("FDC_BASE_URL", c.FDC.BaseURL, Required)
	v.Field("FDC_PAGE_SIZE", c.FDC.PageSize, Positive)
	v.Field("FDC_TIMEOUT", c.FDC.Timeout, Positive)
	v.Field("FDC_DELAY", c.FDC.Delay, NonNegative)
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// RequireAPIKey fails when no FDC key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.FDC.APIKey) == "" {
		return NewAppError(CodeConfig, "USDA_API_KEY is required", ErrMissingCredential)
	}
	return nil
}

// NewLogger builds the process logger from LogConfig.
func NewLogger(cfg LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
