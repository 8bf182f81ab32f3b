package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Geocoding GeocodingConfig
	Routing   RoutingConfig
	Tracking  TrackingConfig
	Poll      PollConfig
}

type ServerConfig struct {
	Addr string
}

type DBConfig struct {
	User     string
	Password string
	DBName   string
	SSLMode  string
	Host     string
	Port     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GeocodingConfig struct {
	BaseURL string
	Country string
	Limit   int
}

type RoutingConfig struct {
	BaseURL string
}

type TrackingConfig struct {
	MinUpdateSeconds int
}

type PollConfig struct {
	IntervalSeconds int
	TimeoutSeconds  int
}

var Cfg *Config

func InitConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("geocoding.baseurl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoding.country", "Angola")
	viper.SetDefault("geocoding.limit", 1)
	viper.SetDefault("routing.baseurl", "https://router.project-osrm.org")
	viper.SetDefault("tracking.minupdateseconds", 10)
	viper.SetDefault("poll.intervalseconds", 4)
	viper.SetDefault("poll.timeoutseconds", 10)

	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	err = viper.Unmarshal(&Cfg)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
