package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sesame-Disk/sesamefs/internal/chunker"
)

// Config holds all configuration for SesameFS
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Versioning VersioningConfig `yaml:"versioning"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings for frontend access
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`
}

// DatabaseConfig holds Cassandra connection settings
type DatabaseConfig struct {
	Hosts       []string `yaml:"hosts"`
	Keyspace    string   `yaml:"keyspace"`
	Consistency string   `yaml:"consistency"`
	LocalDC     string   `yaml:"local_dc"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
}

// StorageConfig holds storage backend settings
type StorageConfig struct {
	DefaultClass    string                        `yaml:"default_class"`
	Classes         map[string]StorageClassConfig `yaml:"classes"`
	EndpointRegions map[string]string             `yaml:"endpoint_regions"` // hostname → region
	RegionClasses   map[string]RegionClassConfig  `yaml:"region_classes"`   // region → {hot, cold}

	// Legacy support (deprecated, use Classes instead)
	Backends map[string]BackendConfig `yaml:"backends"`
}

// StorageClassConfig holds configuration for a storage class (e.g., hot-s3-usa)
type StorageClassConfig struct {
	Type          string `yaml:"type"`           // s3, glacier, disk
	Tier          string `yaml:"tier"`           // hot, cold
	Endpoint      string `yaml:"endpoint"`       // Primary endpoint
	Bucket        string `yaml:"bucket"`         // S3 bucket name
	Region        string `yaml:"region"`         // AWS region
	AccessKey     string `yaml:"access_key"`     // AWS access key (optional, can use env)
	SecretKey     string `yaml:"secret_key"`     // AWS secret key (optional, can use env)
	UsePathStyle  bool   `yaml:"use_path_style"` // For MinIO compatibility
	FailoverClass string `yaml:"failover_class"` // Fallback class if this one is down
}

// RegionClassConfig maps a region to its hot and cold storage classes
type RegionClassConfig struct {
	Hot  string `yaml:"hot"`
	Cold string `yaml:"cold"`
}

// BackendConfig holds configuration for a storage backend (legacy, deprecated)
type BackendConfig struct {
	Type         string `yaml:"type"`          // s3, glacier, filesystem
	Endpoint     string `yaml:"endpoint"`      // S3 endpoint
	Bucket       string `yaml:"bucket"`        // S3 bucket name
	Region       string `yaml:"region"`        // AWS region
	StorageClass string `yaml:"storage_class"` // S3 storage class
	Vault        string `yaml:"vault"`         // Glacier vault name
	Path         string `yaml:"path"`          // Filesystem path
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	DevMode   bool            `yaml:"dev_mode"`
	DevTokens []DevTokenEntry `yaml:"dev_tokens"`
	OIDC      OIDCConfig      `yaml:"oidc"`
}

// DevTokenEntry holds a development token for testing
type DevTokenEntry struct {
	Token  string `yaml:"token"`
	UserID string `yaml:"user_id"`
	OrgID  string `yaml:"org_id"`
}

// OIDCConfig holds OIDC provider settings
type OIDCConfig struct {
	Issuer       string   `yaml:"issuer"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
}

// ChunkingConfig holds FastCDC chunking settings
type ChunkingConfig struct {
	Algorithm     string         `yaml:"algorithm"`      // fastcdc
	HashAlgorithm string         `yaml:"hash_algorithm"` // sha256
	Splitter      SplitterConfig `yaml:"splitter"`       // Content-defined chunk boundaries
	Adaptive      AdaptiveConfig `yaml:"adaptive"`       // Adaptive chunk sizing
}

// SplitterConfig holds the construction-time knobs for the
// content-defined chunk boundary scanner (internal/chunker.Splitter).
// This sits above Adaptive: Adaptive recommends a bits value from
// measured upload speed, Splitter carries the rest of the scanner's
// fixed policy (fan-out granularity, boundary handling, algorithm).
type SplitterConfig struct {
	Bits           uint   `yaml:"bits"`            // Target split bit width, [13, chunker.MaxBits()]
	FanBits        uint   `yaml:"fanbits"`         // Extra-bits-to-level divisor, must be nonzero
	Mode           string `yaml:"mode"`            // "legacy" or "fastcdc"
	KeepBoundaries bool   `yaml:"keep_boundaries"` // Force a split at every source boundary
}

// Splitter builds a chunker.Config from the configured splitter
// settings, ready to pass to chunker.New alongside Bits.
func (s SplitterConfig) Splitter() (chunker.Config, error) {
	mode, err := chunker.ParseMode(s.Mode)
	if err != nil {
		return chunker.Config{}, err
	}
	return chunker.Config{
		KeepBoundaries: s.KeepBoundaries,
		FanBits:        s.FanBits,
		Mode:           mode,
	}, nil
}

// AdaptiveConfig holds adaptive chunk sizing settings
type AdaptiveConfig struct {
	Enabled       bool  `yaml:"enabled"`        // Enable adaptive chunking
	AbsoluteMin   int64 `yaml:"absolute_min"`   // 2 MB floor (terrible connections)
	AbsoluteMax   int64 `yaml:"absolute_max"`   // 256 MB ceiling (datacenter)
	InitialSize   int64 `yaml:"initial_size"`   // 16 MB starting point (before any speed is measured)
	TargetSeconds int   `yaml:"target_seconds"` // Target seconds per chunk (8s default)
}

// ChunkerConfig adapts the YAML-facing AdaptiveConfig to the bounds
// chunker.AdaptiveChunker expects.
func (a AdaptiveConfig) ChunkerConfig() chunker.AdaptiveConfig {
	return chunker.AdaptiveConfig{
		AbsoluteMin:   a.AbsoluteMin,
		AbsoluteMax:   a.AbsoluteMax,
		InitialSize:   a.InitialSize,
		TargetSeconds: float64(a.TargetSeconds),
	}
}

// VersioningConfig holds file versioning settings
type VersioningConfig struct {
	DefaultTTLDays int           `yaml:"default_ttl_days"`
	MinTTLDays     int           `yaml:"min_ttl_days"`
	GCInterval     time.Duration `yaml:"gc_interval"`
}

// Load reads configuration from config.yaml and environment variables
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load config file
	configPath := getEnv("CONFIG_PATH", "config.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 300 * time.Second,
			MaxUploadMB:  10240, // 10 GB
		},
		Database: DatabaseConfig{
			Hosts:       []string{"localhost:9042"},
			Keyspace:    "sesamefs",
			Consistency: "LOCAL_QUORUM",
			LocalDC:     "datacenter1",
		},
		Storage: StorageConfig{
			DefaultClass: "hot",
			Backends: map[string]BackendConfig{
				"hot": {
					Type:   "s3",
					Bucket: "sesamefs-blocks",
					Region: "us-east-1",
				},
			},
		},
		Auth: AuthConfig{
			DevMode: true,
			DevTokens: []DevTokenEntry{
				{
					Token:  "dev-token-123",
					UserID: "00000000-0000-0000-0000-000000000001",
					OrgID:  "00000000-0000-0000-0000-000000000001",
				},
			},
		},
		Chunking: ChunkingConfig{
			Algorithm:     "fastcdc",
			HashAlgorithm: "sha256",
			Splitter: SplitterConfig{
				Bits:           chunker.MinBits,
				FanBits:        4,
				Mode:           "fastcdc",
				KeepBoundaries: true,
			},
			Adaptive: AdaptiveConfig{
				Enabled:       true,
				AbsoluteMin:   2 * 1024 * 1024,   // 2 MB
				AbsoluteMax:   256 * 1024 * 1024, // 256 MB
				InitialSize:   16 * 1024 * 1024,  // 16 MB
				TargetSeconds: 8,                 // 8 seconds per chunk
			},
		},
		Versioning: VersioningConfig{
			DefaultTTLDays: 90,
			MinTTLDays:     7,
			GCInterval:     24 * time.Hour,
		},
	}
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	// Server
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = ":" + v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = v
	}

	// Database
	if v := os.Getenv("CASSANDRA_HOSTS"); v != "" {
		c.Database.Hosts = []string{v}
	}
	if v := os.Getenv("CASSANDRA_KEYSPACE"); v != "" {
		c.Database.Keyspace = v
	}
	if v := os.Getenv("CASSANDRA_USERNAME"); v != "" {
		c.Database.Username = v
	}
	if v := os.Getenv("CASSANDRA_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("CASSANDRA_LOCAL_DC"); v != "" {
		c.Database.LocalDC = v
	}

	// Storage
	if v := os.Getenv("S3_BUCKET"); v != "" {
		if hot, ok := c.Storage.Backends["hot"]; ok {
			hot.Bucket = v
			c.Storage.Backends["hot"] = hot
		}
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		if hot, ok := c.Storage.Backends["hot"]; ok {
			hot.Region = v
			c.Storage.Backends["hot"] = hot
		}
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		if hot, ok := c.Storage.Backends["hot"]; ok {
			hot.Endpoint = v
			c.Storage.Backends["hot"] = hot
		}
	}

	// Auth
	if v := os.Getenv("AUTH_DEV_MODE"); v != "" {
		c.Auth.DevMode = v == "true" || v == "1"
	}

	// Chunking
	if v := os.Getenv("CHUNKING_SPLITTER_BITS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			c.Chunking.Splitter.Bits = uint(i)
		}
	}
	if v := os.Getenv("CHUNKING_SPLITTER_MODE"); v != "" {
		c.Chunking.Splitter.Mode = v
	}

	// OIDC
	if v := os.Getenv("OIDC_ISSUER"); v != "" {
		c.Auth.OIDC.Issuer = v
	}
	if v := os.Getenv("OIDC_CLIENT_ID"); v != "" {
		c.Auth.OIDC.ClientID = v
	}
	if v := os.Getenv("OIDC_CLIENT_SECRET"); v != "" {
		c.Auth.OIDC.ClientSecret = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if len(c.Database.Hosts) == 0 {
		return fmt.Errorf("at least one database host is required")
	}
	if c.Database.Keyspace == "" {
		return fmt.Errorf("database keyspace is required")
	}
	if c.Chunking.Splitter.Bits < chunker.MinBits || c.Chunking.Splitter.Bits > chunker.MaxBits() {
		return fmt.Errorf("chunking.splitter.bits must be in [%d, %d], got %d",
			chunker.MinBits, chunker.MaxBits(), c.Chunking.Splitter.Bits)
	}
	if c.Chunking.Splitter.FanBits == 0 {
		return fmt.Errorf("chunking.splitter.fanbits must be non-zero")
	}
	if _, err := chunker.ParseMode(c.Chunking.Splitter.Mode); err != nil {
		return fmt.Errorf("chunking.splitter.mode: %w", err)
	}
	return nil
}

// getEnv returns environment variable or default
func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
