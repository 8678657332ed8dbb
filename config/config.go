package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is everything the server reads from the environment
type Config struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AcceptedOrigins []string
	StoreDriver     string
	StaticDir       string
	BotSchedule     string
	Log             LogConfig
}

// LogConfig controls the zerolog setup and optional rotated log file
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Address is the listen address built from Host and Port.
func (c Config) Address() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "3000")
	v.SetDefault("READ_TIMEOUT_SECONDS", 15)
	v.SetDefault("WRITE_TIMEOUT_SECONDS", 15)
	v.SetDefault("IDLE_TIMEOUT_SECONDS", 60)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 30)
	v.SetDefault("ACCEPTED_ORIGINS", "*")
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("BOT_SCHEDULE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 7)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
}

// New reads the configuration from environment variables, falling back to defaults.
// Call godotenv first if a .env file should be honoured.
func New() Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return Config{
		Host:            strings.TrimSpace(v.GetString("HOST")),
		Port:            GetString(v, "PORT", "3000"),
		ReadTimeout:     seconds(v, "READ_TIMEOUT_SECONDS", 15),
		WriteTimeout:    seconds(v, "WRITE_TIMEOUT_SECONDS", 15),
		IdleTimeout:     seconds(v, "IDLE_TIMEOUT_SECONDS", 60),
		ShutdownTimeout: seconds(v, "SHUTDOWN_TIMEOUT_SECONDS", 30),
		AcceptedOrigins: splitList(v.GetString("ACCEPTED_ORIGINS")),
		StoreDriver:     GetString(v, "STORE_DRIVER", "memory"),
		StaticDir:       strings.TrimSpace(v.GetString("STATIC_DIR")),
		BotSchedule:     strings.TrimSpace(v.GetString("BOT_SCHEDULE")),
		Log: LogConfig{
			Level:      GetString(v, "LOG_LEVEL", "info"),
			Format:     GetString(v, "LOG_FORMAT", "console"),
			File:       strings.TrimSpace(v.GetString("LOG_FILE")),
			MaxSizeMB:  GetInt(v, "LOG_MAX_SIZE_MB", 100),
			MaxBackups: GetInt(v, "LOG_MAX_BACKUPS", 7),
			MaxAgeDays: GetInt(v, "LOG_MAX_AGE_DAYS", 30),
		},
	}
}

// GetString returns the trimmed value for key, or defaultValue when it is blank.
func GetString(v *viper.Viper, key string, defaultValue string) string {
	if v == nil {
		return defaultValue
	}
	if val := strings.TrimSpace(v.GetString(key)); val != "" {
		return val
	}
	return defaultValue
}

// GetInt returns the value for key, or defaultValue when it is not a positive integer.
func GetInt(v *viper.Viper, key string, defaultValue int) int {
	if v == nil {
		return defaultValue
	}
	asInt := v.GetInt(key)
	if asInt <= 0 {
		return defaultValue
	}
	return asInt
}

func seconds(v *viper.Viper, key string, defaultValue int) time.Duration {
	return time.Duration(GetInt(v, key, defaultValue)) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
