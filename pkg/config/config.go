package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Upload    UploadConfig
	Pipeline  PipelineConfig
	Redis     RedisConfig
	DB        DBConfig
	Ark       ArkConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WEAVEAI_APP_ENV" default:"dev"`
	Port         string `envconfig:"WEAVEAI_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"WEAVEAI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WEAVEAI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type UploadConfig struct {
	MaxUploadMB       int      `envconfig:"WEAVEAI_MAX_UPLOAD_MB" default:"50"`
	AllowedExtensions []string `envconfig:"WEAVEAI_UPLOAD_EXTENSIONS" default:".csv,.xlsx"`
}

// MaxUploadBytes returns the configured upload cap in bytes.
func (u UploadConfig) MaxUploadBytes() int64 {
	if u.MaxUploadMB <= 0 {
		return 50 << 20
	}
	return int64(u.MaxUploadMB) << 20
}

// PipelineConfig carries the tunable caps of the analytics components. The
// defaults mirror the values the product shipped with; tests override them
// through struct literals, not the environment.
type PipelineConfig struct {
	Seed                int64   `envconfig:"WEAVEAI_PIPELINE_SEED" default:"42"`
	ClusterCount        int     `envconfig:"WEAVEAI_CLUSTER_COUNT" default:"3"`
	ElbowMaxK           int     `envconfig:"WEAVEAI_ELBOW_MAX_K" default:"6"`
	ElbowSampleRows     int     `envconfig:"WEAVEAI_ELBOW_SAMPLE_ROWS" default:"2000"`
	ClusterFitCap       int     `envconfig:"WEAVEAI_CLUSTER_FIT_CAP" default:"5000"`
	BasketSampleOrders  int     `envconfig:"WEAVEAI_BASKET_SAMPLE_ORDERS" default:"5000"`
	BasketMinSKUQty     int     `envconfig:"WEAVEAI_BASKET_MIN_SKU_QTY" default:"5"`
	BasketMinSupport    float64 `envconfig:"WEAVEAI_BASKET_MIN_SUPPORT" default:"0.02"`
	BasketMinLift       float64 `envconfig:"WEAVEAI_BASKET_MIN_LIFT" default:"1.05"`
	BasketTopRules      int     `envconfig:"WEAVEAI_BASKET_TOP_RULES" default:"20"`
	ForecastLookback    int     `envconfig:"WEAVEAI_FORECAST_LOOKBACK" default:"7"`
	ForecastHorizonDays int     `envconfig:"WEAVEAI_FORECAST_HORIZON_DAYS" default:"30"`
	ForecastHiddenUnits int     `envconfig:"WEAVEAI_FORECAST_HIDDEN_UNITS" default:"50"`
	ForecastEpochs      int     `envconfig:"WEAVEAI_FORECAST_EPOCHS" default:"20"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WEAVEAI_REDIS_URL"`
	Address      string        `envconfig:"WEAVEAI_REDIS_ADDR"`
	Password     string        `envconfig:"WEAVEAI_REDIS_PASSWORD"`
	DB           int           `envconfig:"WEAVEAI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WEAVEAI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WEAVEAI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WEAVEAI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WEAVEAI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WEAVEAI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint has been configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type DBConfig struct {
	DSN    string `envconfig:"WEAVEAI_DB_DSN"`
	Driver string `envconfig:"WEAVEAI_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"WEAVEAI_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"WEAVEAI_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"WEAVEAI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WEAVEAI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Enabled reports whether the optional run-history store is configured.
func (d DBConfig) Enabled() bool {
	return d.DSN != ""
}

type ArkConfig struct {
	APIKey         string        `envconfig:"WEAVEAI_ARK_API_KEY"`
	BaseURL        string        `envconfig:"WEAVEAI_ARK_BASE_URL" default:"https://ark.cn-beijing.volces.com/api/v3"`
	Model          string        `envconfig:"WEAVEAI_ARK_MODEL" default:"doubao-seed-1-6-250615"`
	RequestTimeout time.Duration `envconfig:"WEAVEAI_ARK_REQUEST_TIMEOUT" default:"5m"`
}

// Enabled reports whether the narrative collaborator can be reached.
func (a ArkConfig) Enabled() bool {
	return a.APIKey != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WEAVEAI_CORS_ORIGINS" default:"http://localhost:3000"`
}

type RateLimitConfig struct {
	UploadWindow  time.Duration `envconfig:"WEAVEAI_RATE_LIMIT_UPLOAD_WINDOW" default:"1m"`
	UploadIPLimit int           `envconfig:"WEAVEAI_RATE_LIMIT_UPLOAD_IP_LIMIT" default:"10"`
}
