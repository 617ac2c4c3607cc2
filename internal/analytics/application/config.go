package application

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	weather "energy-audit/internal/weather/domain"
)

// WeatherConfig locates the observation service and the audited site.
// Coordinates are explicit configuration, not a constant baked into the
// pipeline.
type WeatherConfig struct {
	BaseURL  string           `yaml:"base_url"`
	Location weather.Location `yaml:"location"`
}

// Config defines the analysis service configuration.
type Config struct {
	HTTPAddr    string        `yaml:"http_addr"`
	DatabaseURL string        `yaml:"database_url"`
	JWTSecret   string        `yaml:"jwt_secret"`
	Weather     WeatherConfig `yaml:"weather"`
}

// LoadConfig loads config from yaml (AUDIT_CONFIG path) or env. The yaml
// file wins over defaults; env vars fill whatever the file leaves empty.
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTPAddr: getenvDefault("HTTP_ADDR", ":8080"),
		Weather: WeatherConfig{
			BaseURL: getenvDefault("WEATHER_BASE_URL",
				"https://api.meteo.data.gouv.fr/collections/meteofrance-obs/latest"),
			Location: weather.Location{
				Latitude:  getenvFloatDefault("SITE_LATITUDE", 48.8566),
				Longitude: getenvFloatDefault("SITE_LONGITUDE", 2.3522),
			},
		},
	}

	if path := os.Getenv("AUDIT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = getenvDefault("DATABASE_URL", os.Getenv("PG_DSN"))
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = getenvDefault("AUTH_JWT_SECRET", os.Getenv("JWT_SECRET"))
	}
	if cfg.Weather.BaseURL == "" {
		return cfg, errors.New("application: weather base url required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
