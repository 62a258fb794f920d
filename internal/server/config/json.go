package config

import (
	"encoding/json"
	"os"

	"github.com/mpavlovs/attachd/internal/flagx"
	"github.com/mpavlovs/attachd/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`

	StorageBackend  string `json:"storage_backend"`
	LocalStorageDir string `json:"local_storage_dir"`
	StagingDir      string `json:"staging_dir"`
	PathPrefix      string `json:"path_prefix"`

	ContentTypes []string          `json:"content_types"`
	MinSize      int64             `json:"min_size"`
	MaxSize      int64             `json:"max_size"`
	Thumbnails   map[string]string `json:"thumbnails"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics. Zero values in the file leave the
// corresponding Config fields untouched, so the JSON overlay composes with
// defaults and flags.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.StorageBackend != "" {
		config.StorageBackend = c.StorageBackend
	}
	if c.LocalStorageDir != "" {
		config.LocalStorageDir = c.LocalStorageDir
	}
	if c.StagingDir != "" {
		config.StagingDir = c.StagingDir
	}
	if c.PathPrefix != "" {
		config.PathPrefix = c.PathPrefix
	}
	if len(c.ContentTypes) > 0 {
		config.ContentTypes = c.ContentTypes
	}
	if c.MinSize != 0 {
		config.MinSize = c.MinSize
	}
	if c.MaxSize != 0 {
		config.MaxSize = c.MaxSize
	}
	if len(c.Thumbnails) > 0 {
		config.Thumbnails = c.Thumbnails
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
