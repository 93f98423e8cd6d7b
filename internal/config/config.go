package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/ougirez/popchart/internal/pkg/resas"
)

const envPrefix = "POPCHART"

type Config struct {
	API         resas.Config
	ServerAddr  string
	CORSOrigins []string
	PostgresDSN string
	CacheTTL    time.Duration
	LogLevel    string
	LogDev      bool
	AdminSecret string
	ChartWidth  int
	ChartHeight int
	InitTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperAPIBaseURL, resas.DefaultBaseURL)
	v.SetDefault(constants.ViperAPIKey, "")
	v.SetDefault(constants.ViperAPITimeout, 10*time.Second)
	v.SetDefault(constants.ViperAPIRetries, 3)
	v.SetDefault(constants.ViperAPIRatePerSec, 5.0)
	v.SetDefault(constants.ViperServerAddr, ":8080")
	v.SetDefault(constants.ViperServerCORSOrigins, []string{"http://localhost:3000"})
	v.SetDefault(constants.ViperPostgresDSN, "")
	v.SetDefault(constants.ViperCacheTTL, 24*time.Hour)
	v.SetDefault(constants.ViperLogLevel, "info")
	v.SetDefault(constants.ViperLogDevelopment, false)
	v.SetDefault(constants.ViperSecretKey, "")
	v.SetDefault(constants.ViperChartWidth, 960)
	v.SetDefault(constants.ViperChartHeight, 400)
	v.SetDefault(constants.ViperInitTimeout, 30*time.Second)
}

// Load reads .env (if present), then the config file, then POPCHART_* variables.
// configFile may be empty, in which case ./config.yaml is used when it exists.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return load(viper.GetViper(), configFile)
}

func load(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv(envPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		API: resas.Config{
			BaseURL:    v.GetString(constants.ViperAPIBaseURL),
			APIKey:     v.GetString(constants.ViperAPIKey),
			Timeout:    v.GetDuration(constants.ViperAPITimeout),
			Retries:    uint64(v.GetInt(constants.ViperAPIRetries)),
			RatePerSec: v.GetFloat64(constants.ViperAPIRatePerSec),
		},
		ServerAddr:  v.GetString(constants.ViperServerAddr),
		CORSOrigins: v.GetStringSlice(constants.ViperServerCORSOrigins),
		PostgresDSN: v.GetString(constants.ViperPostgresDSN),
		CacheTTL:    v.GetDuration(constants.ViperCacheTTL),
		LogLevel:    v.GetString(constants.ViperLogLevel),
		LogDev:      v.GetBool(constants.ViperLogDevelopment),
		AdminSecret: v.GetString(constants.ViperSecretKey),
		ChartWidth:  v.GetInt(constants.ViperChartWidth),
		ChartHeight: v.GetInt(constants.ViperChartHeight),
		InitTimeout: v.GetDuration(constants.ViperInitTimeout),
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", constants.ViperAPIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", constants.ViperAPIBaseURL, c.API.BaseURL)
	}
	if c.ServerAddr == "" {
		return fmt.Errorf("%s is required", constants.ViperServerAddr)
	}
	return nil
}
