package types

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	Board   BoardConfig   `mapstructure:"board" validate:"required"`
}

// ProjectConfig holds project-related settings.
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig holds data storage configuration.
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// BoardConfig holds board display defaults applied when the stored settings
// carry no value of their own.
type BoardConfig struct {
	IdealDailyMinutes int `mapstructure:"idealDailyMinutes" validate:"gt=0"`
}
