// Package config handles taskflow configuration.
package config

const (
	// DefaultDirName is the config directory name under ~/.config.
	DefaultDirName = "taskflow"
	// DefaultDataFile is the default tasks database filename.
	DefaultDataFile = "tasks.db"
	// DefaultDescriptionLines is the default number of description preview
	// lines in TUI rows.
	DefaultDescriptionLines = 1

	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	maxDescriptionLines = 3
)
