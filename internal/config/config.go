// Package config loads scheduler runtime configuration from the
// environment (and an optional .env file).
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full set of runtime knobs the CLI and solver read.
type Config struct {
	Env string

	Data  DataConfig
	Solve SolveConfig
	Log   LogConfig
}

// DataConfig locates the three CSV input tables (spec.md §6).
type DataConfig struct {
	CoursesPath  string
	RoomsPath    string
	TeachersPath string
}

// SolveConfig bounds the solver run.
type SolveConfig struct {
	MaxDuration time.Duration
}

// LogConfig controls the zap logger's verbosity and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads TIMETABLE_-prefixed environment variables, applying
// defaults for anything unset. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// With an explicit SetConfigFile, viper reports a missing file as
		// a plain not-exist error rather than ConfigFileNotFoundError.
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("TIMETABLE_ENV"),
		Data: DataConfig{
			CoursesPath:  v.GetString("TIMETABLE_COURSES_PATH"),
			RoomsPath:    v.GetString("TIMETABLE_ROOMS_PATH"),
			TeachersPath: v.GetString("TIMETABLE_TEACHERS_PATH"),
		},
		Solve: SolveConfig{
			MaxDuration: parseDuration(v.GetString("TIMETABLE_SOLVE_MAX_DURATION"), 30*time.Second),
		},
		Log: LogConfig{
			Level:  v.GetString("TIMETABLE_LOG_LEVEL"),
			Format: v.GetString("TIMETABLE_LOG_FORMAT"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("TIMETABLE_ENV", EnvDevelopment)
	v.SetDefault("TIMETABLE_COURSES_PATH", "courses.csv")
	v.SetDefault("TIMETABLE_ROOMS_PATH", "rooms.csv")
	v.SetDefault("TIMETABLE_TEACHERS_PATH", "teachers.csv")
	v.SetDefault("TIMETABLE_SOLVE_MAX_DURATION", "30s")
	v.SetDefault("TIMETABLE_LOG_LEVEL", "info")
	v.SetDefault("TIMETABLE_LOG_FORMAT", "console")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
