package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Frequency values accepted by the analysis configuration.
const (
	FrequencyCalendarDay = "calendar-day"
	FrequencyBusinessDay = "business-day"
	FrequencyAuto        = "auto"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	AnalysisTimeout time.Duration `yaml:"analysis_timeout" envconfig:"ANALYSIS_TIMEOUT" default:"5m"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// AnalysisConfig carries the engine defaults applied when a request does not
// override them.
type AnalysisConfig struct {
	Frequency      string  `yaml:"frequency" envconfig:"FREQUENCY" default:"auto"`
	IQRMultiplier  float64 `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" default:"1.5"`
	JumpThreshold  float64 `yaml:"jump_threshold" envconfig:"JUMP_THRESHOLD" default:"0.05"`
	TrendWindow    int     `yaml:"trend_window" envconfig:"TREND_WINDOW" default:"30"`
	MaxConcurrency int     `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"4"`
}

// ExportConfig contains report export configuration
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"reports"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("TSCHECK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config into env config. envconfig.Process writes
// the struct tag defaults for every variable that is not set, so the env side
// never carries zero values. A field is treated as env-set only when it
// differs from Default(); otherwise a non-zero file value wins. An env var
// explicitly set to its default value is indistinguishable from unset, so the
// file value applies in that case too.
func mergeConfigs(fileConfig, envConfig Config) Config {
	def := Default()

	if envConfig.Server.Port == def.Server.Port && fileConfig.Server.Port != 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == def.Server.ReadTimeout && fileConfig.Server.ReadTimeout != 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == def.Server.WriteTimeout && fileConfig.Server.WriteTimeout != 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Analysis.Frequency == def.Analysis.Frequency && fileConfig.Analysis.Frequency != "" {
		envConfig.Analysis.Frequency = fileConfig.Analysis.Frequency
	}
	if envConfig.Analysis.IQRMultiplier == def.Analysis.IQRMultiplier && fileConfig.Analysis.IQRMultiplier != 0 {
		envConfig.Analysis.IQRMultiplier = fileConfig.Analysis.IQRMultiplier
	}
	if envConfig.Analysis.JumpThreshold == def.Analysis.JumpThreshold && fileConfig.Analysis.JumpThreshold != 0 {
		envConfig.Analysis.JumpThreshold = fileConfig.Analysis.JumpThreshold
	}
	if envConfig.Analysis.TrendWindow == def.Analysis.TrendWindow && fileConfig.Analysis.TrendWindow != 0 {
		envConfig.Analysis.TrendWindow = fileConfig.Analysis.TrendWindow
	}
	if envConfig.Export.OutputDir == def.Export.OutputDir && fileConfig.Export.OutputDir != "" {
		envConfig.Export.OutputDir = fileConfig.Export.OutputDir
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	switch c.Analysis.Frequency {
	case FrequencyCalendarDay, FrequencyBusinessDay, FrequencyAuto:
	default:
		return fmt.Errorf("invalid analysis frequency: %q", c.Analysis.Frequency)
	}

	if c.Analysis.IQRMultiplier <= 0 {
		return fmt.Errorf("iqr multiplier must be positive, got %v", c.Analysis.IQRMultiplier)
	}

	if c.Analysis.JumpThreshold <= 0 {
		return fmt.Errorf("jump threshold must be positive, got %v", c.Analysis.JumpThreshold)
	}

	if c.Analysis.TrendWindow < 2 {
		return fmt.Errorf("trend window must be at least 2, got %d", c.Analysis.TrendWindow)
	}

	if c.Analysis.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be at least 1, got %d", c.Analysis.MaxConcurrency)
	}

	// Logging is always structured JSON; only the sink is configurable
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "stdout", "stderr", "file", "both":
	default:
		c.Logging.Output = "stdout"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "reports"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			AnalysisTimeout: 5 * time.Minute,
			MaxUploadBytes:  32 << 20, // 32MB
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Analysis: AnalysisConfig{
			Frequency:      FrequencyAuto,
			IQRMultiplier:  1.5,
			JumpThreshold:  0.05,
			TrendWindow:    30,
			MaxConcurrency: 4,
		},
		Export: ExportConfig{
			OutputDir: "reports",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
	}
}
