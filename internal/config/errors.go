package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data-dir cannot be empty")
	ErrNoDataDir          = errors.New("cannot determine data directory (set $XDG_DATA_HOME or $HOME)")
	ErrInvalidLogLevel    = errors.New("invalid log_level (must be debug|info|warn|error)")
	ErrNegativeValue      = errors.New("value cannot be negative")
)
