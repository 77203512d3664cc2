package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// SourceConfig describes where the price spreadsheet lives and how its
// cells are parsed.
type SourceConfig struct {
	Kind               string            `yaml:"kind" envconfig:"KIND"`
	Location           string            `yaml:"location" envconfig:"LOCATION"`
	Sheet              string            `yaml:"sheet" envconfig:"SHEET"`
	Range              string            `yaml:"range" envconfig:"RANGE"`
	APIKey             string            `yaml:"api_key" envconfig:"API_KEY"`
	Timeout            time.Duration     `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxBytes           int64             `yaml:"max_bytes" envconfig:"MAX_BYTES"`
	DateLayouts        []string          `yaml:"date_layouts" envconfig:"DATE_LAYOUTS"`
	DecimalSeparator   string            `yaml:"decimal_separator" envconfig:"DECIMAL_SEPARATOR"`
	ThousandsSeparator string            `yaml:"thousands_separator" envconfig:"THOUSANDS_SEPARATOR"`
	Columns            map[string]string `yaml:"columns" envconfig:"COLUMNS"`
}

// ExportConfig controls export artifacts
type ExportConfig struct {
	CSVBOM bool   `yaml:"csv_bom" envconfig:"CSV_BOM"`
	Author string `yaml:"author" envconfig:"AUTHOR"`
}

// TelemetryConfig controls OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Load loads configuration from defaults, the first config file found in
// the usual locations, and environment variables, in increasing order of
// precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is like Load but reads the given YAML file. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable keep their current value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file on cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
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

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}

	// JSON is the only supported log format
	c.Logging.Format = DefaultLogFormat

	if err := c.Source.validate(); err != nil {
		return err
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Telemetry.TraceExporter)
	}
	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return fmt.Errorf("unsupported metric exporter: %s", c.Telemetry.MetricExporter)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("sample ratio must be within [0, 1]")
	}

	return nil
}

func (s *SourceConfig) validate() error {
	switch s.Kind {
	case "", SourceExcel, SourceSheets, SourceCSV:
	default:
		return fmt.Errorf("unsupported source kind: %q", s.Kind)
	}

	if s.Timeout <= 0 {
		return fmt.Errorf("source timeout must be positive")
	}
	if s.MaxBytes <= 0 {
		return fmt.Errorf("source max bytes must be positive")
	}

	if utf8.RuneCountInString(s.DecimalSeparator) != 1 {
		return fmt.Errorf("decimal separator must be a single character, got %q", s.DecimalSeparator)
	}
	if utf8.RuneCountInString(s.ThousandsSeparator) > 1 {
		return fmt.Errorf("thousands separator must be at most one character, got %q", s.ThousandsSeparator)
	}
	if s.DecimalSeparator == s.ThousandsSeparator {
		return fmt.Errorf("decimal and thousands separators must differ")
	}

	if len(s.DateLayouts) == 0 {
		s.DateLayouts = DefaultDateLayouts()
	}
	if len(s.Columns) == 0 {
		s.Columns = DefaultColumnMapping()
	}

	return nil
}

// ResolvedKind returns the source kind, inferring it from the location
// when not set explicitly.
func (s SourceConfig) ResolvedKind() string {
	if s.Kind != "" {
		return s.Kind
	}
	loc := strings.ToLower(s.Location)
	switch {
	case strings.HasSuffix(loc, ".csv"):
		return SourceCSV
	case strings.HasPrefix(loc, "sheets:"):
		return SourceSheets
	default:
		return SourceExcel
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"agrodash.yaml",
		"configs/agrodash.yaml",
		"../configs/agrodash.yaml",
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
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/agrodash.log",
		},
		Paths: PathsConfig{
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Source: SourceConfig{
			Location:           DefaultSourceLocation,
			Sheet:              DefaultSheetName,
			Timeout:            DefaultSourceTimeout,
			MaxBytes:           DefaultSourceMaxBytes,
			DateLayouts:        DefaultDateLayouts(),
			DecimalSeparator:   DefaultDecimalSep,
			ThousandsSeparator: DefaultThousandsSep,
			Columns:            DefaultColumnMapping(),
		},
		Export: ExportConfig{
			CSVBOM: true,
			Author: "Projeto Agrícola - Unespar",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
