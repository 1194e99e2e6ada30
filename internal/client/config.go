package client

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the terminal client configuration.
type Config struct {
	Server struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"server"`
	Token string `mapstructure:"token"`
}

var Cfg *Config

// LoadConfig reads ./configs/config.yaml plus environment overrides.
func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.url", "ws://localhost:8080/ws")

	viper.SetEnvPrefix("CHATRELAY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Fatalf("Unable to decode config into struct: %v", err)
	}
}
