// Package config loads optionslip settings from a YAML file and OPTIONSLIP_*
// environment variables, and reloads them when the file changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/optionslip/assemble"
	"github.com/tsawler/optionslip/cascade"
	"github.com/tsawler/optionslip/classify"
	"github.com/tsawler/optionslip/engine"
	"github.com/tsawler/optionslip/layout"
	"github.com/tsawler/optionslip/lexicon"
)

// EnvPrefix prefixes every environment override, e.g.
// OPTIONSLIP_CASCADE_SWEEP_MAX=300.
const EnvPrefix = "OPTIONSLIP"

// Config is the file representation of the engine settings.
type Config struct {
	// Lexicon is a path to a YAML lexicon; empty uses the built-in tables.
	// Relative paths are resolved against the config file's directory.
	Lexicon string `yaml:"lexicon" mapstructure:"lexicon"`

	// Output is the CLI output format: json or yaml.
	Output string `yaml:"output" mapstructure:"output"`

	// Workers bounds how many documents the CLI parses at once.
	Workers int `yaml:"workers" mapstructure:"workers"`

	SkipAdvanced bool              `yaml:"skip_advanced" mapstructure:"skip_advanced"`
	Rows         RowsConfig        `yaml:"rows" mapstructure:"rows"`
	Advanced     AdvancedConfig    `yaml:"advanced" mapstructure:"advanced"`
	Cascade      CascadeConfig     `yaml:"cascade" mapstructure:"cascade"`
	Classifier   ClassifierConfig  `yaml:"classifier" mapstructure:"classifier"`
	Placeholder  PlaceholderConfig `yaml:"placeholder" mapstructure:"placeholder"`

	dir string
}

// RowsConfig holds the row grouping tolerances.
type RowsConfig struct {
	Basic    float64 `yaml:"basic" mapstructure:"basic"`
	Advanced float64 `yaml:"advanced" mapstructure:"advanced"`
}

// AdvancedConfig holds the advanced mode length thresholds.
type AdvancedConfig struct {
	NameMinLength    int  `yaml:"name_min_length" mapstructure:"name_min_length"`
	AddressMinLength int  `yaml:"address_min_length" mapstructure:"address_min_length"`
	BackfillBranches bool `yaml:"backfill_branches" mapstructure:"backfill_branches"`
}

// CascadeConfig holds the tier thresholds and window sizes.
type CascadeConfig struct {
	AnchorLookahead    int `yaml:"anchor_lookahead" mapstructure:"anchor_lookahead"`
	PageScanBelow      int `yaml:"page_scan_below" mapstructure:"page_scan_below"`
	NumberSweepBelow   int `yaml:"number_sweep_below" mapstructure:"number_sweep_below"`
	PageScanBefore     int `yaml:"page_scan_before" mapstructure:"page_scan_before"`
	PageScanAfter      int `yaml:"page_scan_after" mapstructure:"page_scan_after"`
	SweepSearchBefore  int `yaml:"sweep_search_before" mapstructure:"sweep_search_before"`
	SweepSearchAfter   int `yaml:"sweep_search_after" mapstructure:"sweep_search_after"`
	SweepContextBefore int `yaml:"sweep_context_before" mapstructure:"sweep_context_before"`
	SweepContextAfter  int `yaml:"sweep_context_after" mapstructure:"sweep_context_after"`
	SweepMin           int `yaml:"sweep_min" mapstructure:"sweep_min"`
	SweepMax           int `yaml:"sweep_max" mapstructure:"sweep_max"`
}

// ClassifierConfig holds the keyword-centred span sizes.
type ClassifierConfig struct {
	CourseSpanBefore  int `yaml:"course_span_before" mapstructure:"course_span_before"`
	CourseSpanAfter   int `yaml:"course_span_after" mapstructure:"course_span_after"`
	CollegeSpanBefore int `yaml:"college_span_before" mapstructure:"college_span_before"`
	CollegeSpanAfter  int `yaml:"college_span_after" mapstructure:"college_span_after"`
}

// PlaceholderConfig describes the fallback record.
type PlaceholderConfig struct {
	CollegeCode string `yaml:"college_code" mapstructure:"college_code"`
	BranchCode  string `yaml:"branch_code" mapstructure:"branch_code"`
	CollegeName string `yaml:"college_name" mapstructure:"college_name"`
	BranchName  string `yaml:"branch_name" mapstructure:"branch_name"`
}

// DefaultConfig returns the configuration matching engine.DefaultConfig.
func DefaultConfig() *Config {
	e := engine.DefaultConfig()
	return &Config{
		Output:  "json",
		Workers: 4,
		Rows: RowsConfig{
			Basic:    e.BasicRows.Tolerance,
			Advanced: e.AdvancedRows.Tolerance,
		},
		Advanced: AdvancedConfig{
			NameMinLength:    e.Advanced.NameMinLength,
			AddressMinLength: e.Advanced.AddressMinLength,
			BackfillBranches: e.Assembler.BackfillBranchNames,
		},
		Cascade: CascadeConfig{
			AnchorLookahead:    e.Cascade.AnchorLookahead,
			PageScanBelow:      e.Cascade.PageScanBelow,
			NumberSweepBelow:   e.Cascade.NumberSweepBelow,
			PageScanBefore:     e.Cascade.PageScanBefore,
			PageScanAfter:      e.Cascade.PageScanAfter,
			SweepSearchBefore:  e.Cascade.SweepSearchBefore,
			SweepSearchAfter:   e.Cascade.SweepSearchAfter,
			SweepContextBefore: e.Cascade.SweepContextBefore,
			SweepContextAfter:  e.Cascade.SweepContextAfter,
			SweepMin:           e.Cascade.SweepMin,
			SweepMax:           e.Cascade.SweepMax,
		},
		Classifier: ClassifierConfig{
			CourseSpanBefore:  e.Classifier.CourseSpanBefore,
			CourseSpanAfter:   e.Classifier.CourseSpanAfter,
			CollegeSpanBefore: e.Classifier.CollegeSpanBefore,
			CollegeSpanAfter:  e.Classifier.CollegeSpanAfter,
		},
		Placeholder: PlaceholderConfig{
			CollegeCode: e.Placeholder.CollegeCode,
			BranchCode:  e.Placeholder.BranchCode,
			CollegeName: e.Placeholder.CollegeName,
			BranchName:  e.Placeholder.BranchName,
		},
	}
}

// EngineConfig converts the settings into an engine configuration.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		BasicRows:    layout.RowConfig{Tolerance: c.Rows.Basic},
		AdvancedRows: layout.RowConfig{Tolerance: c.Rows.Advanced},
		Advanced: engine.AdvancedConfig{
			NameMinLength:    c.Advanced.NameMinLength,
			AddressMinLength: c.Advanced.AddressMinLength,
		},
		Cascade: cascade.Config{
			AnchorLookahead:    c.Cascade.AnchorLookahead,
			PageScanBelow:      c.Cascade.PageScanBelow,
			NumberSweepBelow:   c.Cascade.NumberSweepBelow,
			PageScanBefore:     c.Cascade.PageScanBefore,
			PageScanAfter:      c.Cascade.PageScanAfter,
			SweepSearchBefore:  c.Cascade.SweepSearchBefore,
			SweepSearchAfter:   c.Cascade.SweepSearchAfter,
			SweepContextBefore: c.Cascade.SweepContextBefore,
			SweepContextAfter:  c.Cascade.SweepContextAfter,
			SweepMin:           c.Cascade.SweepMin,
			SweepMax:           c.Cascade.SweepMax,
		},
		Classifier: classify.Config{
			CourseSpanBefore:  c.Classifier.CourseSpanBefore,
			CourseSpanAfter:   c.Classifier.CourseSpanAfter,
			CollegeSpanBefore: c.Classifier.CollegeSpanBefore,
			CollegeSpanAfter:  c.Classifier.CollegeSpanAfter,
		},
		Assembler: assemble.Config{BackfillBranchNames: c.Advanced.BackfillBranches},
		Placeholder: assemble.PlaceholderConfig{
			CollegeCode: c.Placeholder.CollegeCode,
			BranchCode:  c.Placeholder.BranchCode,
			CollegeName: c.Placeholder.CollegeName,
			BranchName:  c.Placeholder.BranchName,
		},
		SkipAdvanced: c.SkipAdvanced,
	}
}

// LoadLexicon returns the configured lexicon, or the built-in tables when
// none is set.
func (c *Config) LoadLexicon() (*lexicon.Lexicon, error) {
	if c.Lexicon == "" {
		return lexicon.Default(), nil
	}
	path := c.Lexicon
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	return lexicon.Load(path)
}

// Validate checks values the engine cannot work with.
func (c *Config) Validate() error {
	switch c.Output {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Rows.Basic <= 0 || c.Rows.Advanced <= 0 {
		return fmt.Errorf("row tolerances must be positive")
	}
	if c.Cascade.AnchorLookahead < 1 {
		return fmt.Errorf("anchor_lookahead must be at least 1")
	}
	if c.Cascade.SweepMin > c.Cascade.SweepMax {
		return fmt.Errorf("sweep_min %d exceeds sweep_max %d", c.Cascade.SweepMin, c.Cascade.SweepMax)
	}
	return nil
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
	errs      []func(error)
}

// NewManager creates a new config manager and loads initial config. An
// empty cfgFile searches ./optionslip.yaml and $HOME/.optionslip; a missing
// file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults, err := defaultSettings()
	if err != nil {
		return err
	}
	for key, value := range defaults {
		cm.v.SetDefault(key, value)
	}

	// Environment variables with OPTIONSLIP_ prefix
	cm.v.SetEnvPrefix(EnvPrefix)
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("optionslip")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		cm.v.AddConfigPath("$HOME/.optionslip")
	}

	// Try to read config file (not required)
	if err := cm.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// defaultSettings flattens DefaultConfig into viper's nested map form.
func defaultSettings() (map[string]any, error) {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults: %w", err)
	}
	var settings map[string]any
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode defaults: %w", err)
	}
	return settings, nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if used := cm.v.ConfigFileUsed(); used != "" {
		cfg.dir = filepath.Dir(used)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// File returns the config file in use, if any.
func (cm *Manager) File() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// OnError registers a callback for reloads that fail; the previous
// configuration stays in effect.
func (cm *Manager) OnError(fn func(error)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.errs = append(cm.errs, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()

		cm.mu.Lock()
		if err == nil {
			cm.config = cfg
		}
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		errs := make([]func(error), len(cm.errs))
		copy(errs, cm.errs)
		cm.mu.Unlock()

		if err != nil {
			for _, fn := range errs {
				fn(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// WriteDefault writes the default configuration to the specified path.
// A non-empty lexiconPath is recorded as the lexicon to load.
func WriteDefault(path, lexiconPath string) error {
	cfg := DefaultConfig()
	cfg.Lexicon = lexiconPath

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# optionslip configuration
# Every key can be overridden from the environment, e.g.
#   OPTIONSLIP_CASCADE_SWEEP_MAX=300 OPTIONSLIP_OUTPUT=yaml

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
