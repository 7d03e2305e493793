package storage

import "time"

const defaultTimeout = 30 * time.Second

// Config locates the S3-compatible service holding settings documents
// (s3://bucket/key sources) and run reports.
type Config struct {
	// Endpoint is host:port, optionally prefixed with http:// or https://.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the run reports. Empty disables report upload.
	Bucket string `mapstructure:"bucket" default:""`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, the TLS handshake and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns TimeoutSeconds as a duration, 30s when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Reports reports whether run reports should be uploaded.
func (c Config) Reports() bool {
	return c.Bucket != ""
}
