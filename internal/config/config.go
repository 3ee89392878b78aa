package config

import (
	"bytes"
	"os"
	"strconv"

	"edakit/domain/screening"
	"edakit/internal/dataprep"
	"edakit/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Screening ScreeningConfig
	Server    ServerConfig
	Log       LogConfig
}

// ScreeningConfig holds the heuristics policy and dataset handling settings
type ScreeningConfig struct {
	PolicyFile    string
	Policy        screening.Policy
	Verbose       bool
	DropThreshold float64
	Sheet         string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	screeningConfig, err := loadScreeningConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load screening configuration")
	}
	config.Screening = *screeningConfig
	config.Server = *loadServerConfig()
	config.Log = *loadLogConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadScreeningConfig() (*ScreeningConfig, error) {
	policy := screening.DefaultPolicy()

	policyFile := getEnvOrDefault("EDAKIT_POLICY_FILE", "")
	if policyFile != "" {
		loaded, err := LoadPolicyFile(policyFile)
		if err != nil {
			return nil, err
		}
		policy = loaded
	}
	policy.Workers = getEnvIntOrDefault("EDAKIT_WORKERS", policy.Workers)

	return &ScreeningConfig{
		PolicyFile:    policyFile,
		Policy:        policy,
		Verbose:       getEnvBoolOrDefault("EDAKIT_VERBOSE", false),
		DropThreshold: getEnvFloatOrDefault("EDAKIT_DROP_THRESHOLD", dataprep.DefaultDropThreshold),
		Sheet:         getEnvOrDefault("EDAKIT_SHEET", ""),
	}, nil
}

// LoadPolicyFile decodes a YAML policy over the default policy, so a file
// only needs the keys it changes. Unknown keys are rejected.
func LoadPolicyFile(path string) (screening.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return screening.Policy{}, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes YAML policy bytes over the default policy.
func ParsePolicy(data []byte) (screening.Policy, error) {
	policy := screening.DefaultPolicy()
	if len(bytes.TrimSpace(data)) == 0 {
		return policy, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&policy); err != nil {
		return screening.Policy{}, errors.Wrap(errors.ConfigInvalid(err.Error()), "invalid policy file")
	}
	if err := policy.Validate(); err != nil {
		return screening.Policy{}, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return policy, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: getEnvOrDefault("LOG_FORMAT", "pretty"),
	}
}

func validateConfig(config *Config) error {
	if err := config.Screening.Policy.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if t := config.Screening.DropThreshold; t <= 0 || t > 1 {
		return errors.ConfigInvalid("EDAKIT_DROP_THRESHOLD must be in (0,1]")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
