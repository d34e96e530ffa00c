// Package config resolves questbar configuration from defaults, JSONC
// config files and command line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/questbar/internal/storage"
	"github.com/calvinalkan/questbar/internal/textfit"
)

// AppName names the per-user config and data directories.
const AppName = "questbar"

// File names inside the data directory.
const (
	LockFileName = "questbar.lock"
	LogFileName  = "questbar.log"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir     string `json:"data_dir"`
	LogLevel    string `json:"log_level,omitempty"`
	OpenCommand string `json:"open_command,omitempty"`

	// Status label budget, see [textfit.Fitter].
	LabelBaseWidth       float64 `json:"label_base_width,omitempty"`
	WideDisplayThreshold int     `json:"wide_display_threshold,omitempty"`
	WideDisplayBonus     float64 `json:"wide_display_bonus,omitempty"`

	// Primary display. A terminal cannot ask the window system, so these
	// are configured.
	DisplayWidth int     `json:"display_width,omitempty"`
	ScaleFactor  float64 `json:"scale_factor,omitempty"`

	// Resolved paths (computed, not serialized)
	DataDirAbs string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global   string // Path to global config if loaded, empty otherwise
	Explicit string // Path to --config file if loaded, empty otherwise
}

// LogLevels lists the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the default configuration for env on goos.
// DataDir is left empty when env has neither XDG_DATA_HOME nor HOME.
func Default(env map[string]string, goos string) Config {
	openCmd := "xdg-open"
	if goos == "darwin" {
		openCmd = "open"
	}

	return Config{
		DataDir:              defaultDataDir(env, goos),
		LogLevel:             "warn",
		OpenCommand:          openCmd,
		LabelBaseWidth:       textfit.DefaultBaseMaxWidth,
		WideDisplayThreshold: textfit.DefaultWideThreshold,
		WideDisplayBonus:     textfit.DefaultWideBonus,
		DisplayWidth:         1440,
		ScaleFactor:          1,
	}
}

// defaultDataDir mirrors the per-user application data directory of each
// platform: ~/Library/Application Support on darwin, XDG elsewhere.
func defaultDataDir(env map[string]string, goos string) string {
	if goos == "darwin" {
		if home := env["HOME"]; home != "" {
			return filepath.Join(home, "Library", "Application Support", AppName)
		}

		return ""
	}

	if xdgData := env["XDG_DATA_HOME"]; xdgData != "" {
		return filepath.Join(xdgData, AppName)
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", AppName)
	}

	return ""
}

// globalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/questbar/config.json if set, otherwise
// ~/.config/questbar/config.json. Returns empty string if home directory
// cannot be determined.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, AppName, "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", AppName, "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDir         string            // base for relative paths; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DataDirOverride string            // --data-dir flag value; empty means no override
	Env             map[string]string // environment variables
	GOOS            string            // platform for defaults; empty means runtime.GOOS
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/questbar/config.json or $XDG_CONFIG_HOME/questbar/config.json)
// 3. Explicit config file via ConfigPath (if non-empty)
// 4. CLI overrides.
//
// DataDirAbs in the returned Config is an absolute path.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDir
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	goos := input.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	cfg := Default(input.Env, goos)

	if path := globalConfigPath(input.Env); path != "" {
		globalCfg, loaded, err := loadConfigFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
			cfg = merge(cfg, globalCfg)
		}
	}

	if input.ConfigPath != "" {
		path := input.ConfigPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		explicitCfg, _, err := loadConfigFile(path, true)
		if err != nil {
			return Config{}, err
		}

		cfg.Sources.Explicit = path
		cfg = merge(cfg, explicitCfg)
	}

	if input.DataDirOverride != "" {
		cfg.DataDir = input.DataDirOverride
	}

	err := validate(cfg)
	if err != nil {
		return Config{}, err
	}

	if filepath.IsAbs(cfg.DataDir) {
		cfg.DataDirAbs = cfg.DataDir
	} else {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

// QuestFile returns the absolute path of the quest file.
func (c Config) QuestFile() string {
	return filepath.Join(c.DataDirAbs, storage.FileName)
}

// LockFile returns the absolute path of the single-instance lock file.
func (c Config) LockFile() string {
	return filepath.Join(c.DataDirAbs, LockFileName)
}

// LogFile returns the absolute path of the tray log file.
func (c Config) LogFile() string {
	return filepath.Join(c.DataDirAbs, LogFileName)
}

// Fitter returns a [textfit.Fitter] with the configured budget.
func (c Config) Fitter(m textfit.Measurer) textfit.Fitter {
	return textfit.Fitter{
		Measurer:      m,
		BaseMaxWidth:  c.LabelBaseWidth,
		WideBonus:     c.WideDisplayBonus,
		WideThreshold: c.WideDisplayThreshold,
	}
}

// Display returns the configured primary display.
func (c Config) Display() textfit.Display {
	return textfit.Display{LogicalWidth: c.DisplayWidth, ScaleFactor: c.ScaleFactor}
}

// Format renders the effective configuration as indented JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}

// loadConfigFile loads a config file. If mustExist is false, a missing file
// returns a zero config and loaded=false.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}

			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicit "" would otherwise be indistinguishable from "unset".
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if val, exists := raw["data_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			return Config{}, ErrDataDirEmpty
		}
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.OpenCommand != "" {
		base.OpenCommand = overlay.OpenCommand
	}

	if overlay.LabelBaseWidth != 0 {
		base.LabelBaseWidth = overlay.LabelBaseWidth
	}

	if overlay.WideDisplayThreshold != 0 {
		base.WideDisplayThreshold = overlay.WideDisplayThreshold
	}

	if overlay.WideDisplayBonus != 0 {
		base.WideDisplayBonus = overlay.WideDisplayBonus
	}

	if overlay.DisplayWidth != 0 {
		base.DisplayWidth = overlay.DisplayWidth
	}

	if overlay.ScaleFactor != 0 {
		base.ScaleFactor = overlay.ScaleFactor
	}

	return base
}

func validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrNoDataDir
	}

	if !slices.Contains(LogLevels, cfg.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	for _, check := range []struct {
		name  string
		value float64
	}{
		{"label_base_width", cfg.LabelBaseWidth},
		{"wide_display_threshold", float64(cfg.WideDisplayThreshold)},
		{"wide_display_bonus", cfg.WideDisplayBonus},
		{"display_width", float64(cfg.DisplayWidth)},
		{"scale_factor", cfg.ScaleFactor},
	} {
		if check.value < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeValue, check.name)
		}
	}

	return nil
}
