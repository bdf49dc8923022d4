package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	Server struct {
		Addr     string `mapstructure:"addr"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Vault struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"vault"`
	Descriptor struct {
		APIBase        string `mapstructure:"api_base"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"descriptor"`
	Engine struct {
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	} `mapstructure:"engine"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
}

// LoadConfig loads the configuration from a file and the environment. An
// explicit file path overrides the default search locations.
func LoadConfig(file string) (*Config, error) {
	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("descriptor.api_base", "https://api.github.com")
	viper.SetDefault("descriptor.timeout_seconds", 10)
	viper.SetDefault("engine.timeout_seconds", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Descriptor.APIBase = strings.TrimRight(config.Descriptor.APIBase, "/")

	return &config, nil
}
