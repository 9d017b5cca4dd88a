package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type ServerConfig struct {
	Port               string `mapstructure:"port"`
	PublicURL          string `mapstructure:"publicURL"`
	CORSAllowedOrigins string `mapstructure:"corsAllowedOrigins"` // comma separated
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	Driver       string `mapstructure:"driver"`
	SeedDemoData bool   `mapstructure:"seedDemoData"`
}

type SessionConfig struct {
	JWTSecret    string        `mapstructure:"jwtSecret"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieSecure bool          `mapstructure:"cookieSecure"`
}

type FirebaseConfig struct {
	CredentialsBase64 string `mapstructure:"credentialsBase64"`
	CredentialsFile   string `mapstructure:"credentialsFile"`
}

type PostmarkConfig struct {
	ServerToken string `mapstructure:"serverToken"`
	Sender      string `mapstructure:"sender"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Postmark PostmarkConfig `mapstructure:"postmark"`
}

// AllowedOrigins splits the configured CORS origins, defaulting to "*".
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Server.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// Load reads .env (if present), an optional config.yaml under path, and the
// environment. Environment variables win over the file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (Config, error) {
	var cfg Config

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.publicURL", "http://localhost:8080")
	v.SetDefault("server.corsAllowedOrigins", "*")
	v.SetDefault("database.driver", StoreDriverPostgres)
	v.SetDefault("database.seedDemoData", false)
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cookieSecure", false)
	v.SetDefault("firebase.credentialsFile", "./firebase-service-account.json")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.publicURL", "PUBLIC_URL")
	v.BindEnv("server.corsAllowedOrigins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.driver", "STORE_DRIVER")
	v.BindEnv("database.seedDemoData", "SEED_DEMO_DATA")
	v.BindEnv("session.jwtSecret", "APP_JWT_SECRET")
	v.BindEnv("session.ttl", "SESSION_TTL")
	v.BindEnv("session.cookieSecure", "COOKIE_SECURE")
	v.BindEnv("firebase.credentialsBase64", "FIREBASE_CREDENTIALS_BASE64")
	v.BindEnv("firebase.credentialsFile", "FIREBASE_CREDENTIALS_FILE")
	v.BindEnv("postmark.serverToken", "POSTMARK_SERVER_TOKEN")
	v.BindEnv("postmark.sender", "EMAIL_SENDER")

	// A missing config file is fine; the environment alone is enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case StoreDriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL environment variable is required")
		}
	case StoreDriverMemory:
	default:
		return errors.New("STORE_DRIVER must be \"postgres\" or \"memory\"")
	}
	if c.Session.JWTSecret == "" {
		return errors.New("APP_JWT_SECRET environment variable is required")
	}
	return nil
}
