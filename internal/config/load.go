package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. KOTOBA_SERVER_PORT or KOTOBA_DATABASE_URL.
const envPrefix = "KOTOBA"

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory or /etc/kotoba.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/kotoba")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values so a bare environment still produces
// a runnable configuration (except for the database URL, which has no safe
// default and must be provided).
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 15)

	// Registered empty so AutomaticEnv picks the key up; validation rejects
	// the empty value if nothing supplies it.
	v.SetDefault("database.url", "")

	v.SetDefault("scheduler.min_easiness_factor", 1.3)
	v.SetDefault("scheduler.max_easiness_factor", 3.0)
	v.SetDefault("scheduler.initial_easiness_factor", 2.5)
	v.SetDefault("scheduler.review_threshold", 7)
	v.SetDefault("scheduler.mastered_threshold", 21)
	v.SetDefault("scheduler.max_due_per_session", 50)
	v.SetDefault("scheduler.max_new_per_session", 10)
}

// validate runs struct-tag validation over the loaded configuration and
// converts validator errors into a readable message.
func validate(cfg *Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}
