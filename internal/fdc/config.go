package fdc

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the FoodData Central client. The API key is passed in explicitly;
// the client never reads the environment.
type Config struct {
	APIKey     string
	BaseURL    string        // default https://api.nal.usda.gov/fdc/v1
	PageSize   int           // default 5
	Timeout    time.Duration // per call, default 30s
	Buckets    [][]DataType  // default DefaultBuckets
	HTTPClient *http.Client  // optional; Timeout is ignored when set
}

const DefaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

type Client struct {
	cfg         Config
	http        *http.Client
	logger      *slog.Logger
	warnedNoKey bool
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = DefaultBuckets
	}
	if logger == nil {
		logger = slog.Default()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:    cfg,
		http:   hc,
		logger: logger,
	}
}

// HasKey reports whether remote lookups can be attempted at all.
func (c *Client) HasKey() bool {
	return c.cfg.APIKey != ""
}
