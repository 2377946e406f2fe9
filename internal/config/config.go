package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Polling PollingConfig `yaml:"polling"`
	Breaker BreakerConfig `yaml:"breaker"`
	Board   BoardConfig   `yaml:"board"`
	Tracing TracingConfig `yaml:"tracing"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	File string `yaml:"file"`
}

type PollingConfig struct {
	KitchenInterval time.Duration `yaml:"kitchenInterval"`
	ChefInterval    time.Duration `yaml:"chefInterval"`
}

type BreakerConfig struct {
	MaxRequests  uint32        `yaml:"maxRequests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	FailureRatio float64       `yaml:"failureRatio"`
	MinRequests  uint32        `yaml:"minRequests"`
}

type BoardConfig struct {
	Port              int     `yaml:"port"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Endpoint   string  `yaml:"endpoint"`
	SampleRate float64 `yaml:"sampleRate"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "restopos", "session.json")
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("POS_API_URL", "http://localhost:8000/api")
	v.SetDefault("POS_API_TIMEOUT", "15s")
	v.SetDefault("POS_SESSION_FILE", defaultSessionFile())
	v.SetDefault("POS_KITCHEN_INTERVAL", "10s")
	v.SetDefault("POS_CHEF_INTERVAL", "30s")
	v.SetDefault("POS_BREAKER_MAX_REQUESTS", 1)
	v.SetDefault("POS_BREAKER_INTERVAL", "60s")
	v.SetDefault("POS_BREAKER_TIMEOUT", "30s")
	v.SetDefault("POS_BREAKER_FAILURE_RATIO", 0.5)
	v.SetDefault("POS_BREAKER_MIN_REQUESTS", 5)
	v.SetDefault("POS_BOARD_PORT", 0)
	v.SetDefault("POS_BOARD_RPS", 5)
	v.SetDefault("POS_BOARD_BURST", 10)
	v.SetDefault("POS_TRACING_ENABLED", false)
	v.SetDefault("POS_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("POS_TRACE_SAMPLE_RATE", 1.0)
	v.SetDefault("LOG_LEVEL", "info")

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"POS_API_TIMEOUT", "POS_KITCHEN_INTERVAL", "POS_CHEF_INTERVAL",
		"POS_BREAKER_INTERVAL", "POS_BREAKER_TIMEOUT",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, err
		}
		durations[key] = d
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: v.GetString("POS_API_URL"),
			Timeout: durations["POS_API_TIMEOUT"],
		},
		Session: SessionConfig{
			File: v.GetString("POS_SESSION_FILE"),
		},
		Polling: PollingConfig{
			KitchenInterval: durations["POS_KITCHEN_INTERVAL"],
			ChefInterval:    durations["POS_CHEF_INTERVAL"],
		},
		Breaker: BreakerConfig{
			MaxRequests:  v.GetUint32("POS_BREAKER_MAX_REQUESTS"),
			Interval:     durations["POS_BREAKER_INTERVAL"],
			Timeout:      durations["POS_BREAKER_TIMEOUT"],
			FailureRatio: v.GetFloat64("POS_BREAKER_FAILURE_RATIO"),
			MinRequests:  v.GetUint32("POS_BREAKER_MIN_REQUESTS"),
		},
		Board: BoardConfig{
			Port:              v.GetInt("POS_BOARD_PORT"),
			RequestsPerSecond: v.GetFloat64("POS_BOARD_RPS"),
			Burst:             v.GetInt("POS_BOARD_BURST"),
		},
		Tracing: TracingConfig{
			Enabled:    v.GetBool("POS_TRACING_ENABLED"),
			Endpoint:   v.GetString("POS_OTLP_ENDPOINT"),
			SampleRate: v.GetFloat64("POS_TRACE_SAMPLE_RATE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
