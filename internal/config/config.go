package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	Log LogConfig

	// Vacío => repos in-memory (solo dev).
	DatabaseURL string `env:"DATABASE_URL"`

	Auth          AuthConfig          `envPrefix:"AUTH_"`
	Keycloak      KeycloakConfig      `envPrefix:"KEYCLOAK_"`
	Elasticsearch ElasticsearchConfig `envPrefix:"ELASTICSEARCH_"`
	Minio         MinioConfig         `envPrefix:"MINIO_"`
	Redis         RedisConfig         `envPrefix:"REDIS_"`
	Sync          SyncConfig          `envPrefix:"SYNC_"`

	MediaMaxUploadBytes      int64 `env:"MEDIA_MAX_UPLOAD_BYTES" envDefault:"20971520"`
	UploadRateLimitPerMinute int   `env:"UPLOAD_RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	// Si está vacío no se monta /admin.
	AdminAPIToken string `env:"ADMIN_API_TOKEN"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
	App    string `env:"APP_NAME" envDefault:"paw-connect-users"`
}

type AuthConfig struct {
	// PEM o base64 "pelado" (como lo muestra Keycloak en el realm).
	PublicKey string        `env:"PUBLIC_KEY"`
	Algorithm string        `env:"ALGORITHM" envDefault:"RS256"`
	Leeway    time.Duration `env:"LEEWAY" envDefault:"30s"`
	// Sin clave y con DevMode se acepta X-Debug-User-ID.
	DevMode bool `env:"DEV_MODE" envDefault:"false"`
}

type KeycloakConfig struct {
	URL          string        `env:"URL"`
	Realm        string        `env:"REALM" envDefault:"paw_connect"`
	ClientID     string        `env:"CLIENT_ID" envDefault:"admin-cli"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type ElasticsearchConfig struct {
	Addresses    []string      `env:"ADDRESSES" envSeparator:","`
	Username     string        `env:"USERNAME"`
	Password     string        `env:"PASSWORD"`
	Index        string        `env:"INDEX" envDefault:"users"`
	WaitTimeout  time.Duration `env:"WAIT_TIMEOUT" envDefault:"60s"`
	WaitInterval time.Duration `env:"WAIT_INTERVAL" envDefault:"1s"`
}

type MinioConfig struct {
	Endpoint      string `env:"ENDPOINT"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	Bucket        string `env:"BUCKET" envDefault:"user-media"`
	UseSSL        bool   `env:"USE_SSL" envDefault:"false"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:9000"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type SyncConfig struct {
	MaxAttempts     uint          `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialInterval time.Duration `env:"INITIAL_INTERVAL" envDefault:"200ms"`
	MaxInterval     time.Duration `env:"MAX_INTERVAL" envDefault:"1s"`
	MaxElapsed      time.Duration `env:"MAX_ELAPSED" envDefault:"3s"`
}

// Load lee un .env opcional y luego las variables de entorno.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

// Validate: en producción no hay fallbacks in-memory.
func (c Config) Validate() error {
	var errs []error
	if c.MediaMaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MEDIA_MAX_UPLOAD_BYTES must be positive"))
	}
	if c.Sync.MaxAttempts == 0 {
		errs = append(errs, errors.New("SYNC_MAX_ATTEMPTS must be at least 1"))
	}
	if !asymmetric(c.Auth.Algorithm) {
		errs = append(errs, fmt.Errorf("AUTH_ALGORITHM %q is not asymmetric", c.Auth.Algorithm))
	}

	if c.IsProduction() {
		required := map[string]string{
			"DATABASE_URL":           c.DatabaseURL,
			"AUTH_PUBLIC_KEY":        c.Auth.PublicKey,
			"KEYCLOAK_URL":           c.Keycloak.URL,
			"KEYCLOAK_CLIENT_SECRET": c.Keycloak.ClientSecret,
			"MINIO_ENDPOINT":         c.Minio.Endpoint,
		}
		for name, v := range required {
			if strings.TrimSpace(v) == "" {
				errs = append(errs, fmt.Errorf("%s is required in production", name))
			}
		}
		if len(c.Elasticsearch.Addresses) == 0 {
			errs = append(errs, errors.New("ELASTICSEARCH_ADDRESSES is required in production"))
		}
		if c.Auth.DevMode {
			errs = append(errs, errors.New("AUTH_DEV_MODE cannot be enabled in production"))
		}
	}
	return errors.Join(errs...)
}

func asymmetric(alg string) bool {
	alg = strings.ToUpper(strings.TrimSpace(alg))
	for _, p := range []string{"RS", "PS", "ES", "EDDSA"} {
		if strings.HasPrefix(alg, p) {
			return true
		}
	}
	return false
}
