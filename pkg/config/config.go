package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RETAILFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "RETAILFLOW_APP_ENV"
	EnvPort       = "RETAILFLOW_APP_PORT"
	EnvLogLevel   = "RETAILFLOW_LOG_LEVEL"
	EnvLogFormat  = "RETAILFLOW_LOG_FORMAT"
	EnvDBDSN      = "RETAILFLOW_DB_DSN"
	EnvDBDriver   = "RETAILFLOW_DB_DRIVER"
	EnvDBHost     = "RETAILFLOW_DB_HOST"
	EnvDBPort     = "RETAILFLOW_DB_PORT"
	EnvDBUser     = "RETAILFLOW_DB_USER"
	EnvDBPassword = "RETAILFLOW_DB_PASSWORD"
	EnvDBName     = "RETAILFLOW_DB_NAME"
	EnvRedisURL   = "RETAILFLOW_REDIS_URL"
	EnvUseSQLite  = "RETAILFLOW_USE_SQLITE"
	EnvSQLitePath = "RETAILFLOW_SQLITE_PATH"

	EnvCORSOrigins       = "RETAILFLOW_CORS_ORIGINS"
	EnvLowStockInclusive = "RETAILFLOW_LOW_STOCK_INCLUSIVE"
	EnvMonitorInterval   = "RETAILFLOW_MONITOR_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Inventory    InventoryConfig
	Monitor      MonitorConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RETAILFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"RETAILFLOW_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"RETAILFLOW_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"RETAILFLOW_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"RETAILFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RETAILFLOW_DB_DSN"`
	Driver string `envconfig:"RETAILFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RETAILFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"RETAILFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RETAILFLOW_DB_USER"`
	LegacyPassword string `envconfig:"RETAILFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"RETAILFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"RETAILFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RETAILFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RETAILFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RETAILFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RETAILFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; an empty URL and address disables the idempotency store.
type RedisConfig struct {
	URL          string        `envconfig:"RETAILFLOW_REDIS_URL"`
	Address      string        `envconfig:"RETAILFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"RETAILFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"RETAILFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RETAILFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RETAILFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RETAILFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RETAILFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RETAILFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"RETAILFLOW_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"RETAILFLOW_SQLITE_PATH" default:"retailflow.db"`
	AutoMigrate bool   `envconfig:"RETAILFLOW_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"RETAILFLOW_CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
}

type InventoryConfig struct {
	// LowStockInclusive flags items whose available quantity equals the
	// threshold; when false only quantities strictly below it are flagged.
	LowStockInclusive bool `envconfig:"RETAILFLOW_LOW_STOCK_INCLUSIVE" default:"true"`
}

// MonitorConfig drives cmd/stock-monitor. The low-stock scan runs on every
// pass; the orphan audit on one pass out of AuditEvery.
type MonitorConfig struct {
	Interval   time.Duration `envconfig:"RETAILFLOW_MONITOR_INTERVAL" default:"15m"`
	LockTTL    time.Duration `envconfig:"RETAILFLOW_MONITOR_LOCK_TTL" default:"30m"`
	AuditEvery int           `envconfig:"RETAILFLOW_MONITOR_AUDIT_EVERY" default:"4"`
	JobTimeout time.Duration `envconfig:"RETAILFLOW_MONITOR_JOB_TIMEOUT" default:"2m"`
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
