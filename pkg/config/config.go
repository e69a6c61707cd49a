package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Inventory    InventoryConfig
	Storage      StorageConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DENTIO_APP_ENV" required:"true"`
	Port         string `envconfig:"DENTIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DENTIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DENTIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"DENTIO_DB_DSN"`

	LegacyHost     string `envconfig:"DENTIO_DB_HOST"`
	LegacyPort     int    `envconfig:"DENTIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DENTIO_DB_USER"`
	LegacyPassword string `envconfig:"DENTIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"DENTIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"DENTIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DENTIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DENTIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DENTIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DENTIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DENTIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DENTIO_REDIS_ADDR"`
	Password     string        `envconfig:"DENTIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"DENTIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DENTIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DENTIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DENTIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DENTIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DENTIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// InventoryConfig tunes the stock allocation policy.
type InventoryConfig struct {
	// StrictStock turns an allocation shortfall into a hard commit failure
	// instead of a warning on the result.
	StrictStock bool `envconfig:"DENTIO_INVENTORY_STRICT_STOCK" default:"false"`
}

// StorageConfig locates the durable image directory and caps uploads.
type StorageConfig struct {
	PatientsDir string `envconfig:"DENTIO_STORAGE_PATIENTS_DIR" default:"uploads/patients"`
	MaxUploadMB int    `envconfig:"DENTIO_STORAGE_MAX_UPLOAD_MB" default:"25"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"DENTIO_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"DENTIO_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DENTIO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
