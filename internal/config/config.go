package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort      = 8787
	defaultEnv       = "development"
	defaultAppOrigin = "http://localhost:5173"

	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "tdc_site"
	defaultDBCharset  = "utf8mb4"

	defaultRedisURL = "redis://localhost:6379/0"

	defaultSMTPPort = 587
)

// AppConfig holds runtime startup configuration loaded from YAML, with
// environment variable overrides for deployment platforms that only offer
// an env-based config surface.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	DSN            string         `yaml:"dsn"` // MySQL DSN; overrides Database when set
	Database       DatabaseConfig `yaml:"database"`
	RedisURL       string         `yaml:"redis_url"`
	AppOrigin      string         `yaml:"app_origin"` // front-end the confirm flow redirects to
	APIOrigin      string         `yaml:"api_origin"` // public base URL of this API
	AllowedOrigins []string       `yaml:"allowed_origins"`
	JWTSecret      string         `yaml:"jwt_secret"`
	Mail           MailConfig     `yaml:"mail"`
}

// DatabaseConfig describes the MySQL connection when no full DSN is given.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// MailConfig holds outbound mail settings. SMTP is the default transport;
// a Resend API key switches delivery to their HTTP API.
type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ResendKey string `yaml:"resend_key"`
	ContactTo string `yaml:"contact_to"` // operator inbox for contact-form notifications
}

// Load reads the YAML config at path and applies env overrides. A missing
// file is not an error when the path is the default one: the site runs fine
// on env vars alone.
func Load(path string) (*AppConfig, error) {
	cfg := defaultAppConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath:
		// fall through to env/defaults
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
		},
		RedisURL:  defaultRedisURL,
		AppOrigin: defaultAppOrigin,
		Mail: MailConfig{
			Port: defaultSMTPPort,
		},
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(&cfg.Port, "PORT")
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.DSN, "DATABASE_DSN")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.AppOrigin, "APP_ORIGIN")
	setString(&cfg.APIOrigin, "API_ORIGIN")
	setString(&cfg.JWTSecret, "JWT_SECRET")

	setString(&cfg.Mail.Host, "SMTP_HOST")
	setInt(&cfg.Mail.Port, "SMTP_PORT")
	setString(&cfg.Mail.User, "SMTP_USER")
	setString(&cfg.Mail.Pass, "SMTP_PASS")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.Mail.ResendKey, "RESEND_API_KEY")
	setString(&cfg.Mail.ContactTo, "CONTACT_TO")

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
}

func normalize(cfg *AppConfig) {
	switch strings.ToLower(strings.TrimSpace(cfg.Env)) {
	case "prod", "production":
		cfg.Env = "production"
	default:
		cfg.Env = "development"
	}

	cfg.AppOrigin = strings.TrimRight(strings.TrimSpace(cfg.AppOrigin), "/")
	cfg.APIOrigin = strings.TrimRight(strings.TrimSpace(cfg.APIOrigin), "/")
	if cfg.APIOrigin == "" {
		cfg.APIOrigin = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.User
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = defaultSMTPPort
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }
