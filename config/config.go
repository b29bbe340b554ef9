package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API      APIConfig
	Proxy    ProxyConfig
	Storage  StorageConfig
	Search   SearchConfig
	Alerts   AlertsConfig
	LogLevel string
	LogFile  string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ProxyConfig struct {
	URL string
}

type StorageConfig struct {
	Driver      string
	Path        string
	DatabaseURL string
	S3          S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

type SearchConfig struct {
	Backend     string
	CatalogPath string
}

type AlertsConfig struct {
	Enabled bool
}

// Catalog is the static data served by the local search backend.
type Catalog struct {
	Suggestions       []CatalogSuggestion `yaml:"suggestions"`
	PopularSearches   []CatalogPopular    `yaml:"popular_searches"`
	TrendingLocations []CatalogLocation   `yaml:"trending_locations"`
}

type CatalogSuggestion struct {
	Text  string `yaml:"text"`
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}

type CatalogPopular struct {
	Query string `yaml:"query"`
	Count int    `yaml:"count"`
}

type CatalogLocation struct {
	Name          string  `yaml:"name"`
	PropertyCount int     `yaml:"property_count"`
	Growth        float64 `yaml:"growth"`
}

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageS3       = "s3"
	StorageMemory   = "memory"

	SearchLocal = "local"
	SearchHTTP  = "http"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout: getEnvDuration("API_TIMEOUT", 30*time.Second),
		},
		Proxy: ProxyConfig{
			URL: os.Getenv("HTTP_PROXY_URL"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageSQLite)),
			Path:        getEnv("STORAGE_PATH", "vesta_nest.db"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			S3: S3Config{
				Bucket:          os.Getenv("S3_BUCKET"),
				Region:          getEnv("S3_REGION", "us-east-1"),
				Endpoint:        os.Getenv("S3_ENDPOINT"),
				AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
				Prefix:          getEnv("S3_PREFIX", "vesta_nest/"),
			},
		},
		Search: SearchConfig{
			Backend:     strings.ToLower(getEnv("SEARCH_BACKEND", SearchLocal)),
			CatalogPath: os.Getenv("SEARCH_CATALOG_PATH"),
		},
		Alerts: AlertsConfig{
			Enabled: os.Getenv("ALERTS_ENABLED") == "true",
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "vesta_nest.log"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageSQLite, StorageMemory:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("STORAGE_DRIVER=postgres requires DATABASE_URL")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("STORAGE_DRIVER=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Search.Backend {
	case SearchLocal, SearchHTTP:
	default:
		return fmt.Errorf("unknown SEARCH_BACKEND %q", c.Search.Backend)
	}

	return nil
}

// LoadCatalog reads a search catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
