package constants

const (
	// AppName is the application name used for config paths and logging
	AppName = "habitquest"

	// DefaultConfigPath is the default storage location
	DefaultConfigPath = "~/.config/habitquest/habitquest.db"
)
