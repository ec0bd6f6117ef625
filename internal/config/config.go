package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Server ServerConfig
	Model  ModelConfig
	ICA    ICAConfig
}

type ServerConfig struct {
	Host string // defaults to 0.0.0.0
	Port int    // defaults to 8080
}

type ModelConfig struct {
	SetPath  string // entry metadata artifact (default train.set)
	DataPath string // binary matrix artifact (default train.data)
}

// ICAConfig is the InfoMax iteration schedule used when training the
// independent-component basis.
type ICAConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	BlockSize     int     `yaml:"block_size"`
	LearningRate  float64 `yaml:"learning_rate"`
	Anneal        float64 `yaml:"anneal"`
	Tolerance     float64 `yaml:"tolerance"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envStr reads an environment variable, falling back to the default when it
// is unset or empty.
func envStr(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var defaults struct {
		ICA ICAConfig `yaml:"ica"`
	}
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	ica := defaults.ICA
	ica.MaxIterations = envInt("FACEID_ICA_MAX_ITERATIONS", ica.MaxIterations)

	return &Config{
		Server: ServerConfig{
			Host: envStr("FACEID_HOST", "0.0.0.0"),
			Port: envInt("FACEID_PORT", 8080),
		},
		Model: ModelConfig{
			SetPath:  envStr("FACEID_SET_PATH", "train.set"),
			DataPath: envStr("FACEID_DATA_PATH", "train.data"),
		},
		ICA: ica,
	}
}
