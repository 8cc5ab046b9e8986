// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Channels  []string        `mapstructure:"channels"`
	Database  DatabaseConfig  `mapstructure:"database"`
	API       APIConfig       `mapstructure:"api"`
	Economy   EconomyConfig   `mapstructure:"economy"`
	Betting   BettingConfig   `mapstructure:"betting"`
	Minigames MinigamesConfig `mapstructure:"minigames"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// APIConfig holds the REST API listener configuration.
type APIConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EconomyConfig holds balance and reward configuration.
type EconomyConfig struct {
	StartingBalance  int64 `mapstructure:"starting_balance"`
	TransferMin      int64 `mapstructure:"transfer_min"`
	TransferMax      int64 `mapstructure:"transfer_max"`
	DailyReward      int64 `mapstructure:"daily_reward"`
	DailyCooldownHrs int   `mapstructure:"daily_cooldown_hours"`
	ActivityReward   int64 `mapstructure:"activity_reward"`
	ActivityMessages int64 `mapstructure:"activity_messages"`
	ActivityMinChurn int64 `mapstructure:"activity_min_interval_seconds"`
}

// BettingConfig holds slot betting configuration.
type BettingConfig struct {
	MinBet          int64 `mapstructure:"min_bet"`
	MaxBet          int64 `mapstructure:"max_bet"`
	CooldownSeconds int   `mapstructure:"cooldown_seconds"`
}

// MinigamesConfig holds minigame session configuration.
type MinigamesConfig struct {
	TickSeconds     int              `mapstructure:"tick_seconds"`
	SessionDuration time.Duration    `mapstructure:"session_duration"`
	Number          NumberGameConfig `mapstructure:"number"`
	Word            WordGameConfig   `mapstructure:"word"`
	RPS             RPSGameConfig    `mapstructure:"rps"`
}

// NumberGameConfig holds number-guessing game configuration.
type NumberGameConfig struct {
	Prize     int64 `mapstructure:"prize"`
	Decrement int64 `mapstructure:"decrement"`
	Floor     int64 `mapstructure:"floor"`
}

// WordGameConfig holds word-guessing game configuration.
type WordGameConfig struct {
	Ceiling   int64 `mapstructure:"ceiling"`
	Decrement int64 `mapstructure:"decrement"`
	Floor     int64 `mapstructure:"floor"`
}

// RPSGameConfig holds rock-paper-scissors game configuration.
type RPSGameConfig struct {
	BaseBank int64 `mapstructure:"base_bank"`
	EntryFee int64 `mapstructure:"entry_fee"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. DATABASE_HOST, API_ADDR, BETTING_MAX_BET.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "casinobot")
	v.SetDefault("database.name", "casinobot")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// API defaults
	v.SetDefault("api.addr", ":8080")
	v.SetDefault("api.allowed_origins", []string{"*"})

	// Economy defaults
	v.SetDefault("economy.starting_balance", 1000)
	v.SetDefault("economy.transfer_min", 100)
	v.SetDefault("economy.transfer_max", 5000)
	v.SetDefault("economy.daily_reward", 500)
	v.SetDefault("economy.daily_cooldown_hours", 24)
	v.SetDefault("economy.activity_reward", 50)
	v.SetDefault("economy.activity_messages", 25)
	v.SetDefault("economy.activity_min_interval_seconds", 600)

	// Betting defaults
	v.SetDefault("betting.min_bet", 10)
	v.SetDefault("betting.max_bet", 5000)
	v.SetDefault("betting.cooldown_seconds", 60)

	// Minigame defaults
	v.SetDefault("minigames.tick_seconds", 60)
	v.SetDefault("minigames.session_duration", "5m")
	v.SetDefault("minigames.number.prize", 1000)
	v.SetDefault("minigames.number.decrement", 50)
	v.SetDefault("minigames.number.floor", 300)
	v.SetDefault("minigames.word.ceiling", 5000)
	v.SetDefault("minigames.word.decrement", 200)
	v.SetDefault("minigames.word.floor", 300)
	v.SetDefault("minigames.rps.base_bank", 500)
	v.SetDefault("minigames.rps.entry_fee", 50)
}

// HasChannel checks if a channel is in the configured channel list.
func (c *Config) HasChannel(channel string) bool {
	for _, ch := range c.Channels {
		if ch == channel {
			return true
		}
	}
	return false
}
