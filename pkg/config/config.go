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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	RFM          RFMConfig
	Segmentation SegmentationConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OPTIKART_APP_ENV" required:"true"`
	Port         string `envconfig:"OPTIKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OPTIKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OPTIKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"OPTIKART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"OPTIKART_DB_DSN"`
	Driver string `envconfig:"OPTIKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OPTIKART_DB_HOST"`
	LegacyPort     int    `envconfig:"OPTIKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OPTIKART_DB_USER"`
	LegacyPassword string `envconfig:"OPTIKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"OPTIKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"OPTIKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OPTIKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OPTIKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OPTIKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OPTIKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OPTIKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OPTIKART_REDIS_ADDR"`
	Password     string        `envconfig:"OPTIKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"OPTIKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OPTIKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OPTIKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OPTIKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OPTIKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OPTIKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"OPTIKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"OPTIKART_AUTO_MIGRATE" default:"false"`
}

// RFMConfig carries the scoring tier boundaries so markets can tune them
// without a rebuild. Each list goes from the best tier boundary to the worst;
// the monetary amounts are decimal strings in the market's base currency unit.
type RFMConfig struct {
	RecencyDays     []int    `envconfig:"OPTIKART_RFM_RECENCY_DAYS" default:"90,180,365,730"`
	FrequencyOrders []int64  `envconfig:"OPTIKART_RFM_FREQUENCY_ORDERS" default:"5,4,3,2"`
	MonetarySpend   []string `envconfig:"OPTIKART_RFM_MONETARY_SPEND" default:"50000,25000,10000,5000"`
}

type SegmentationConfig struct {
	Workers          int           `envconfig:"OPTIKART_SEGMENTATION_WORKERS" default:"4"`
	SummaryCacheTTL  time.Duration `envconfig:"OPTIKART_SEGMENTATION_SUMMARY_CACHE_TTL" default:"15m"`
	SnapshotInterval time.Duration `envconfig:"OPTIKART_SEGMENTATION_SNAPSHOT_INTERVAL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
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
