package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"wbstats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Tracing TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
	Reports []ReportConfig `yaml:"reports" ignored:"true" validate:"dive"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration. Relative entries are
// resolved against BaseDir, and an empty BaseDir means the executable directory.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
	ExportsDir string `yaml:"exports_dir" envconfig:"EXPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// TracingConfig contains OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED"`
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=stdout none"`
	FilePath    string  `yaml:"file_path" envconfig:"FILE_PATH"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, then the config file, then
// environment variables (highest priority). An empty configFile searches the
// well-known locations and silently continues when none exists.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	explicit := configFile != ""
	if !explicit {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			if explicit {
				return nil, errors.NewConfigError(fmt.Sprintf("config file %s is not accessible", configFile), err)
			}
		} else if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// Environment overrides only the variables that are actually set
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize fills optional values and pins the logging format to JSON
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format != DefaultLogFormat {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = DefaultLogOutput
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "stdout"
	}
	for i := range c.Reports {
		c.Reports[i].applyDefaults()
	}
}

// Validate checks struct tags and the cross-field rules of every report
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return errors.NewConfigError("config validation failed", formatValidationErrors(err))
	}

	names := make(map[string]bool, len(c.Reports))
	for i := range c.Reports {
		r := &c.Reports[i]
		if names[r.Name] {
			return errors.NewConfigError(fmt.Sprintf("duplicate report name %q", r.Name), nil)
		}
		names[r.Name] = true

		if err := r.checkRanges(); err != nil {
			return errors.NewConfigError("config validation failed", err)
		}
	}
	return nil
}

// formatValidationErrors flattens validator output into one readable error
func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return stderrors.New(strings.Join(msgs, "; "))
}

// Report returns the report with the given name
func (c *Config) Report(name string) (*ReportConfig, error) {
	for i := range c.Reports {
		if c.Reports[i].Name == name {
			return &c.Reports[i], nil
		}
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("report %q", name)).
		WithContext("available", c.ReportNames())
}

// ReportNames lists the configured report names in order
func (c *Config) ReportNames() []string {
	names := make([]string, 0, len(c.Reports))
	for _, r := range c.Reports {
		names = append(names, r.Name)
	}
	return names
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"wbstats.yaml",
		"configs/wbstats.yaml",
		"../configs/wbstats.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults and env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ChartsDir:  DefaultChartsDir,
			ExportsDir: DefaultExportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Exporter:    "stdout",
			FilePath:    DefaultTraceFile,
			SampleRatio: 1.0,
		},
		Reports: DefaultReports(),
	}
}
