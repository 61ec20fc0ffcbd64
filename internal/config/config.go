package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Planner  PlannerConfig  `yaml:"planner"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Publish  PublishConfig  `yaml:"publish"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type PlannerConfig struct {
	SolverTimeLimit time.Duration `yaml:"solver_time_limit"`
	TimeHorizon     int           `yaml:"time_horizon"`
	Workers         int           `yaml:"workers"`
	AvgSpeedKmh     float64       `yaml:"avg_speed_kmh"`
	StopTimeMin     float64       `yaml:"stop_time_min"`
	KmPerDegree     float64       `yaml:"km_per_degree"`
}

type InputConfig struct {
	// Source is "file" (Path, or stdin when empty) or "database".
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

type OutputConfig struct {
	// Path of the result JSON; stdout when empty.
	Path string `yaml:"path"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type PublishConfig struct {
	RedisURL     string   `yaml:"redis_url"`
	RedisChannel string   `yaml:"redis_channel"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
}

type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

func Defaults() *Config {
	return &Config{
		Planner: PlannerConfig{
			SolverTimeLimit: 10 * time.Second,
			TimeHorizon:     10000,
			Workers:         4,
			AvgSpeedKmh:     30,
			StopTimeMin:     10,
			KmPerDegree:     111,
		},
		Input: InputConfig{
			Source: "file",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			URL:    "data/fleet.db",
		},
		Publish: PublishConfig{
			RedisChannel: "fleet:routes",
			KafkaTopic:   "fleet.routes",
		},
	}
}

// Load reads a yaml config on top of Defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %q: parse yaml: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file settings with environment variables, if set.
func (c *Config) ApplyEnv() error {
	c.Input.Source = Get("INPUT_SOURCE", c.Input.Source)
	c.Input.Path = Get("INPUT_PATH", c.Input.Path)
	c.Output.Path = Get("OUTPUT_PATH", c.Output.Path)
	c.Database.Driver = Get("DB_DRIVER", c.Database.Driver)
	c.Database.URL = Get("DATABASE_URL", c.Database.URL)
	c.Publish.RedisURL = Get("REDIS_URL", c.Publish.RedisURL)
	c.Publish.RedisChannel = Get("REDIS_CHANNEL", c.Publish.RedisChannel)
	c.Publish.KafkaTopic = Get("KAFKA_TOPIC", c.Publish.KafkaTopic)
	c.Metrics.TextfilePath = Get("METRICS_TEXTFILE", c.Metrics.TextfilePath)

	if v := Get("KAFKA_BROKERS", ""); v != "" {
		brokers := make([]string, 0)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Publish.KafkaBrokers = brokers
	}

	if v := Get("SOLVER_TIME_LIMIT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("apply env: SOLVER_TIME_LIMIT: %w", err)
		}
		c.Planner.SolverTimeLimit = d
	}

	if v := Get("PLANNER_WORKERS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("apply env: PLANNER_WORKERS: %w", err)
		}
		c.Planner.Workers = n
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
