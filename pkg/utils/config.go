package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Borrowing BorrowingConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type BorrowingConfig struct {
	MaxActiveBorrowings int
	FinePerDay          float64
}

type SchedulerConfig struct {
	Enabled     bool
	OverdueSpec string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("MAX_ACTIVE_BORROWINGS", 5)
	viper.SetDefault("FINE_PER_DAY", 5000.0)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("OVERDUE_CRON_SPEC", "0 1 * * *")

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
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Borrowing: BorrowingConfig{
			MaxActiveBorrowings: viper.GetInt("MAX_ACTIVE_BORROWINGS"),
			FinePerDay:          viper.GetFloat64("FINE_PER_DAY"),
		},
		Scheduler: SchedulerConfig{
			Enabled:     viper.GetBool("SCHEDULER_ENABLED"),
			OverdueSpec: viper.GetString("OVERDUE_CRON_SPEC"),
		},
	}

	return config, nil
}
