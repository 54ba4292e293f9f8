package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/credstore/internal/flagx"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// After unmarshalling, non-zero fields are copied onto the runtime Config.
type JsonConfig struct {
	StoreBackend      string `json:"store_backend"`
	FileStoreDir      string `json:"file_store_dir"`
	DatabaseDSN       string `json:"database_dsn"`
	S3RootUser        string `json:"s3_root_user"`
	S3RootPassword    string `json:"s3_root_password"`
	S3Bucket          string `json:"s3_bucket"`
	S3Region          string `json:"s3_region"`
	S3BaseEndpoint    string `json:"s3_base_endpoint"`
	Digest            string `json:"digest"`
	Iterations        int    `json:"iterations"`
	SaltLength        int    `json:"salt_length"`
	VerifierLength    int    `json:"verifier_length"`
	MaxPasswordLength int    `json:"max_password_length"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; without
// them, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics: a broken explicit config is a startup
// error, not something to run past silently.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.StoreBackend != "" {
		config.StoreBackend = c.StoreBackend
	}
	if c.FileStoreDir != "" {
		config.FileStoreDir = c.FileStoreDir
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
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
	if c.Digest != "" {
		config.Digest = c.Digest
	}
	if c.Iterations != 0 {
		config.Iterations = c.Iterations
	}
	if c.SaltLength != 0 {
		config.SaltLength = c.SaltLength
	}
	if c.VerifierLength != 0 {
		config.VerifierLength = c.VerifierLength
	}
	if c.MaxPasswordLength != 0 {
		config.MaxPasswordLength = c.MaxPasswordLength
	}
}
