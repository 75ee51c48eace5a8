package config

import (
	"os"
	"strconv"
	"time"
)

const (
	GeoSourceNone   = "none"
	GeoSourceStatic = "static"
	GeoSourceSerial = "serial"
)

type Config struct {
	Log       LogConfig
	Geo       GeoConfig
	BusBuffer int
	PageSize  int
}

type LogConfig struct {
	Level  string
	Format string
}

type GeoConfig struct {
	Source         string
	// StaticPosition uses the manual coordinate notation, e.g. "51.50851, -0.12572".
	StaticPosition string
	SerialPort     string
	SerialBaud     int
	Timeout        time.Duration
	MaximumAge     time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Geo: GeoConfig{
			Source:     getEnv("GEO_SOURCE", GeoSourceNone),
			Timeout:    mustGetDuration("GEO_TIMEOUT", 10*time.Second),
			MaximumAge: mustGetDuration("GEO_MAXIMUM_AGE", time.Minute),
		},
		BusBuffer: mustGetInt("BUS_BUFFER", 64),
		PageSize:  mustGetInt("PAGE_SIZE", 10),
	}

	switch cfg.Geo.Source {
	case GeoSourceStatic:
		cfg.Geo.StaticPosition = mustGetEnv("GEO_STATIC_POSITION")
	case GeoSourceSerial:
		cfg.Geo.SerialPort = mustGetEnv("GEO_SERIAL_PORT")
		cfg.Geo.SerialBaud = mustGetInt("GEO_SERIAL_BAUD", 9600)
	case GeoSourceNone:
	default:
		panic("invalid GEO_SOURCE: " + cfg.Geo.Source)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func mustGetDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		panic("invalid duration for env var " + key + ": " + val)
	}
	return d
}
