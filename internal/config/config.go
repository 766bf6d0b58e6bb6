package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Logger     LoggerConfig
	Database   DatabaseConfig
	LocalStore LocalStoreConfig
	Sync       SyncConfig
	Store      StoreConfig
	JWT        JWTConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Printer    PrinterConfig
	Seed       SeedConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	// AutoMigrate creates the remote tables on first successful connection.
	AutoMigrate bool
}

type LocalStoreConfig struct {
	Path string
}

type SyncConfig struct {
	HistoryWindow int
	MaxAttempts   int
	Interval      time.Duration
	RemoteTimeout time.Duration
}

type StoreConfig struct {
	WalkInLabel    string
	CurrencySymbol string
	// Timezone is the IANA zone receipts and daily reports are rendered in.
	Timezone string
}

// Location resolves Timezone, falling back to the host zone.
func (c *StoreConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown STORE_TIMEZONE %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type    string // usb, network or none
	USBPath string
	Address string
}

// SeedConfig is the account created in an empty remote database.
type SeedConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "tillsync")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_ENCODING", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "billing")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("LOCAL_STORE_PATH", "./data/local")
	viper.SetDefault("SYNC_HISTORY_WINDOW", 50)
	viper.SetDefault("SYNC_MAX_ATTEMPTS", 10)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 30)
	viper.SetDefault("REMOTE_TIMEOUT_SECONDS", 5)
	viper.SetDefault("STORE_WALK_IN_LABEL", "Walk-in Customer")
	viper.SetDefault("STORE_CURRENCY_SYMBOL", "$")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Logger: LoggerConfig{
			Level:             viper.GetString("LOG_LEVEL"),
			Encoding:          viper.GetString("LOG_ENCODING"),
			DisableCaller:     viper.GetBool("LOG_DISABLE_CALLER"),
			DisableStacktrace: viper.GetBool("LOG_DISABLE_STACKTRACE"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			SSLMode:     viper.GetString("DB_SSL_MODE"),
			Timezone:    viper.GetString("DB_TIMEZONE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		LocalStore: LocalStoreConfig{
			Path: viper.GetString("LOCAL_STORE_PATH"),
		},
		Sync: SyncConfig{
			HistoryWindow: viper.GetInt("SYNC_HISTORY_WINDOW"),
			MaxAttempts:   viper.GetInt("SYNC_MAX_ATTEMPTS"),
			Interval:      time.Duration(viper.GetInt("SYNC_INTERVAL_SECONDS")) * time.Second,
			RemoteTimeout: time.Duration(viper.GetInt("REMOTE_TIMEOUT_SECONDS")) * time.Second,
		},
		Store: StoreConfig{
			WalkInLabel:    viper.GetString("STORE_WALK_IN_LABEL"),
			CurrencySymbol: viper.GetString("STORE_CURRENCY_SYMBOL"),
			Timezone:       viper.GetString("STORE_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
		},
		Seed: SeedConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
