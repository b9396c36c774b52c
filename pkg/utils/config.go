package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours      int
	SweepIntervalMin int
}

type BookingConfig struct {
	// CancelWindowHours is how long before start a confirmed booking can
	// still be cancelled with a refund.
	CancelWindowHours int
	// MonthlyCancelLimit caps student-initiated cancellations per calendar month.
	MonthlyCancelLimit int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SESSION_SWEEP_INTERVAL_MIN", 30)
	viper.SetDefault("BOOKING_CANCEL_WINDOW_HOURS", 24)
	viper.SetDefault("BOOKING_MONTHLY_CANCEL_LIMIT", 3)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours:      viper.GetInt("SESSION_EXPIRY_HOURS"),
			SweepIntervalMin: viper.GetInt("SESSION_SWEEP_INTERVAL_MIN"),
		},
		Booking: BookingConfig{
			CancelWindowHours:  viper.GetInt("BOOKING_CANCEL_WINDOW_HOURS"),
			MonthlyCancelLimit: viper.GetInt("BOOKING_MONTHLY_CANCEL_LIMIT"),
		},
	}

	return config, nil
}
