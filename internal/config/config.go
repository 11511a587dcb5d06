package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

type Config struct {
	ListenAddr      string        `env:"KURA_LISTEN_ADDR" envDefault:":8080"`
	DataDir         string        `env:"KURA_DATA_DIR"`
	CacheTTL        time.Duration `env:"KURA_CACHE_TTL" envDefault:"10m"`
	CacheMaxEntries int           `env:"KURA_CACHE_MAX_ENTRIES" envDefault:"10000"`
	RedisAddr       string        `env:"KURA_REDIS_ADDR"`
	RedisPassword   string        `env:"KURA_REDIS_PASSWORD"`
	RedisDB         int           `env:"KURA_REDIS_DB" envDefault:"0"`
	LogLevel        string        `env:"KURA_LOG_LEVEL" envDefault:"info"`
	LogFilePath     string        `env:"KURA_LOG_FILE"`
	LogMaxSize      int           `env:"KURA_LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups   int           `env:"KURA_LOG_MAX_BACKUPS" envDefault:"3"`
	LogCompress     bool          `env:"KURA_LOG_COMPRESS" envDefault:"false"`
	MaxBodyBytes    int64         `env:"KURA_MAX_BODY_BYTES" envDefault:"10485760"`
	StrictReads     bool          `env:"KURA_STRICT_READS" envDefault:"false"`

	// COSConfig is the raw JSON blob. Empty keeps the process on local disk.
	COSConfig string `env:"COS_CONFIG"`

	// Remote is decoded from COSConfig; nil means local mode.
	Remote *RemoteConfig
}

// RemoteConfig describes the bucket that backs remote mode.
type RemoteConfig struct {
	Endpoint        string `json:"endpoint"`
	APIKey          string `json:"apiKey"`
	InstanceID      string `json:"instanceID"`
	StorageClass    string `json:"storageClass"`
	Bucket          string `json:"bucket"`
	Driver          string `json:"driver,omitempty"`
	Region          string `json:"region,omitempty"`
	AccessKeyID     string `json:"accessKeyID,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
	Prefix          string `json:"prefix,omitempty"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	remote, err := ParseRemote(cfg.COSConfig)
	if err != nil {
		return cfg, err
	}
	cfg.Remote = remote

	if cfg.CacheTTL <= 0 {
		return cfg, errors.New("KURA_CACHE_TTL must be positive")
	}
	return cfg, nil
}

// ParseRemote decodes a COS_CONFIG blob. A blank blob yields nil.
func ParseRemote(raw string) (*RemoteConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var rc RemoteConfig
	if err := json.Unmarshal([]byte(raw), &rc); err != nil {
		return nil, fmt.Errorf("parse COS_CONFIG: %w", err)
	}

	if rc.Driver == "" {
		rc.Driver = DriverS3
	}
	if rc.Region == "" {
		rc.Region = "us-east-1"
	}
	switch rc.Driver {
	case DriverS3, DriverMinio:
	default:
		return nil, fmt.Errorf("COS_CONFIG: unknown driver %q", rc.Driver)
	}
	if rc.Bucket == "" {
		return nil, errors.New("COS_CONFIG: bucket is required")
	}
	if rc.Driver == DriverMinio && rc.Endpoint == "" {
		return nil, errors.New("COS_CONFIG: endpoint is required for the minio driver")
	}
	return &rc, nil
}

// HasStaticCredentials reports whether HMAC keys were supplied.
func (rc RemoteConfig) HasStaticCredentials() bool {
	return rc.AccessKeyID != "" && rc.SecretAccessKey != ""
}
