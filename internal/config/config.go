package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"` // Seconds
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// SchedulerConfig contains the tunable parameters of the scheduling engine.
// Values here feed srs.ParamsConfig; anything left at zero keeps the
// algorithm's defaults.
type SchedulerConfig struct {
	MinEasinessFactor     float64 `mapstructure:"min_easiness_factor"     validate:"omitempty,gt=1"`
	MaxEasinessFactor     float64 `mapstructure:"max_easiness_factor"     validate:"omitempty,gtefield=MinEasinessFactor"`
	InitialEasinessFactor float64 `mapstructure:"initial_easiness_factor" validate:"omitempty,gt=1"`

	ReviewThreshold   int `mapstructure:"review_threshold"   validate:"gte=0"`
	MasteredThreshold int `mapstructure:"mastered_threshold" validate:"gte=0"`

	MaxDuePerSession int `mapstructure:"max_due_per_session" validate:"gte=0"`
	MaxNewPerSession int `mapstructure:"max_new_per_session" validate:"gte=0"`
}
