package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the server.
// Tags use mapstructure for Viper unmarshalling and env variable binding.
type ServerConfig struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`

	// Platform OAuth2 application and bot credentials.
	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string `mapstructure:"DISCORD_REDIRECT_URI"`
	DiscordBotToken     string `mapstructure:"DISCORD_BOT_TOKEN"`

	// FrontendURL is where login redirects land.
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Session lifetime in hours.
	SessionTTLHour int `mapstructure:"SESSION_TTL_HOUR"`

	// CredentialStore selects where delegated tokens live: "memory" or
	// "redis". Redis is for multi-process deployments.
	CredentialStore string `mapstructure:"CREDENTIAL_STORE"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisKeyPrefix  string `mapstructure:"REDIS_KEY_PREFIX"`
}

// LoadConfig reads configuration from file, environment variables, and defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/guildforms/")
	v.AddConfigPath("$HOME/.guildforms")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "5001")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/guildforms_dev")
	v.SetDefault("MONGO_DB_NAME", "guildforms_dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("SESSION_TTL_HOUR", 24)
	v.SetDefault("CREDENTIAL_STORE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_KEY_PREFIX", "guildforms")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars carry it.
		// Anything else (malformed file, permissions) is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}
