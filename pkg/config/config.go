package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "techhive"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Storage  StorageConfig
	JWT      JWTConfig
	Password PasswordConfig
	Stub     StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TECHHIVE_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"TECHHIVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TECHHIVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the client at the storefront backend.
type APIConfig struct {
	BaseURL string        `envconfig:"TECHHIVE_API_BASE_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"TECHHIVE_API_TIMEOUT" default:"10s"`
}

// StorageConfig locates the durable credential store on the local device.
type StorageConfig struct {
	Dir string `envconfig:"TECHHIVE_STORAGE_DIR" default:".techhive"`
}

// JWTConfig is consumed by the stub backend when minting session tokens.
type JWTConfig struct {
	Secret            string `envconfig:"TECHHIVE_JWT_SECRET" default:"dev-secret-change-me"`
	Issuer            string `envconfig:"TECHHIVE_JWT_ISSUER" default:"techhive"`
	ExpirationMinutes int    `envconfig:"TECHHIVE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TECHHIVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TECHHIVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TECHHIVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TECHHIVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TECHHIVE_ARGON_KEY_LEN" default:"32"`
}

// StubConfig configures the local development backend.
type StubConfig struct {
	Port string `envconfig:"TECHHIVE_STUB_PORT" default:"5000"`
	Seed bool   `envconfig:"TECHHIVE_STUB_SEED" default:"true"`
}
