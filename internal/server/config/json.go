package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/flagx"
	"github.com/dmitrijs2005/linkshare/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// timex.Duration so they may be written as "30s" or as nanoseconds. Fields
// that are absent or zero keep their current value.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`

	BlobBackend       string    `json:"blob_backend"`
	UploadDir         string    `json:"upload_dir"`
	MaxUploadSize     int64     `json:"max_upload_size"`
	AllowedExtensions *[]string `json:"allowed_extensions"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3KeyPrefix    string `json:"s3_key_prefix"`

	LinkCacheSize *int           `json:"link_cache_size"`
	LinkCacheTTL  timex.Duration `json:"link_cache_ttl"`

	LogLevel  string `json:"log_level"`
	LogOutput string `json:"log_output"`
	LogFile   string `json:"log_file"`

	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays the file named by -c/-config in args on config.
// Without such a flag nothing happens.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)

	setString(&config.BlobBackend, c.BlobBackend)
	setString(&config.UploadDir, c.UploadDir)
	if c.MaxUploadSize != 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.AllowedExtensions != nil {
		config.AllowedExtensions = splitExtensions(joinComma(*c.AllowedExtensions))
	}

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3KeyPrefix, c.S3KeyPrefix)

	if c.LinkCacheSize != nil {
		config.LinkCacheSize = *c.LinkCacheSize
	}
	setDuration(&config.LinkCacheTTL, c.LinkCacheTTL)

	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogOutput, c.LogOutput)
	setString(&config.LogFile, c.LogFile)

	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

func joinComma(items []string) string {
	return strings.Join(items, ",")
}
