package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"plume/internal/schedule"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Enabled         bool   `yaml:"enabled"`
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Hours struct {
		OpeningMin    int    `yaml:"opening_min"`
		ClosingMin    int    `yaml:"closing_min"`
		SlotInterval  int    `yaml:"slot_interval"`
		ClosedWeekday string `yaml:"closed_weekday"`
	} `yaml:"hours"`

	Notifications struct {
		PerSecond float64 `yaml:"per_second"`
		Burst     int     `yaml:"burst"`
	} `yaml:"notifications"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/plume.db"
	}
	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BusinessHours maps the config section to generator hours, falling back
// to salon defaults for unset fields.
func (c *Config) BusinessHours() schedule.Hours {
	hours := schedule.DefaultHours()
	if c.Hours.OpeningMin > 0 {
		hours.OpeningMin = c.Hours.OpeningMin
	}
	if c.Hours.ClosingMin > 0 {
		hours.ClosingMin = c.Hours.ClosingMin
	}
	if c.Hours.SlotInterval > 0 {
		hours.SlotInterval = c.Hours.SlotInterval
	}
	if wd, ok := weekdays[c.Hours.ClosedWeekday]; ok {
		hours.ClosedWeekday = wd
	}
	return hours
}
