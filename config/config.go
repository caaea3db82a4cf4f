package config

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host        string      `envconfig:"HOST" mapstructure:"host"`
	Port        string      `envconfig:"PORT" mapstructure:"port"`
	Prefix      string      `envconfig:"PREFIX" mapstructure:"prefix"`
	Mode        Mode        `envconfig:"MODE" mapstructure:"mode"`
	Mysql       Mysql       `mapstructure:"mysql"`
	Redis       Redis       `mapstructure:"redis"`
	JWT         JWT         `mapstructure:"jwt"`
	Log         Log         `mapstructure:"log"`
	Sentry      Sentry      `mapstructure:"sentry"`
	S3          S3          `mapstructure:"s3"`
	Mail        Mail        `mapstructure:"mail"`
	Leaderboard Leaderboard `mapstructure:"leaderboard"`
}

type Mysql struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Username string `envconfig:"USERNAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
}

type Redis struct {
	Host     string `envconfig:"HOST" mapstructure:"host"`
	Port     string `envconfig:"PORT" mapstructure:"port"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	DB       int    `envconfig:"DB" mapstructure:"db"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"` // 秒
}

type Log struct {
	FilePath   string `envconfig:"FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string        `envconfig:"DSN" mapstructure:"dsn"`
	Environment string        `envconfig:"ENVIRONMENT" mapstructure:"environment"`
	SampleRate  float64       `envconfig:"SAMPLE_RATE" mapstructure:"sample_rate"` // 性能追踪采样率
	Tracing     SentryTracing `mapstructure:"tracing"`
}

type SentryTracing struct {
	DBSlowThresholdMs    int  `envconfig:"DB_SLOW_THRESHOLD_MS" mapstructure:"db_slow_threshold_ms"`
	RedisSlowThresholdMs int  `envconfig:"REDIS_SLOW_THRESHOLD_MS" mapstructure:"redis_slow_threshold_ms"`
	TraceHTTPCalls       bool `envconfig:"TRACE_HTTP_CALLS" mapstructure:"trace_http_calls"`
}

type S3 struct {
	Endpoint        string `envconfig:"ENDPOINT" mapstructure:"endpoint"`
	BaseURL         string `envconfig:"BASE_URL" mapstructure:"base_url"`
	Bucket          string `envconfig:"BUCKET" mapstructure:"bucket"`
	Region          string `envconfig:"REGION" mapstructure:"region"`
	AccessKey       string `envconfig:"ACCESS_KEY" mapstructure:"access_key"`
	SecretAccessKey string `envconfig:"SECRET_KEY" mapstructure:"secret_key"`
	Prefix          string `envconfig:"PREFIX" mapstructure:"prefix"`
	UsePathStyle    bool   `envconfig:"PATH_STYLE" mapstructure:"path_style"`
}

// Mail 邮件服务采用 HTTP API 形式，按模板 ID 发送
type Mail struct {
	APIURL   string `envconfig:"API_URL" mapstructure:"api_url"`
	APIToken string `envconfig:"API_TOKEN" mapstructure:"api_token"`
	From     string `envconfig:"FROM" mapstructure:"from"`
}

type Leaderboard struct {
	CacheTTL time.Duration `envconfig:"CACHE_TTL" mapstructure:"cache_ttl"`
}

var cfg = &Config{}

// Init 读取 config.yaml 后再用 JURY_ 前缀的环境变量覆盖
func Init() {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		panic(err)
	}
	if err := envconfig.Process("JURY", c); err != nil {
		panic(err)
	}
	c.Mode = Mode(strings.ToLower(string(c.Mode)))
	if c.Mode != ModeRelease {
		c.Mode = ModeDebug
	}
	cfg = c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("prefix", "api")
	v.SetDefault("mode", string(ModeDebug))

	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.db_name", "competition_jury")

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", "6379")

	v.SetDefault("jwt.access_expire", 7*24*3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("sentry.tracing.db_slow_threshold_ms", 100)
	v.SetDefault("sentry.tracing.redis_slow_threshold_ms", 20)

	v.SetDefault("leaderboard.cache_ttl", "60s")
}

func Get() *Config {
	return cfg
}

// Set 替换全局配置，测试用
func Set(c *Config) {
	cfg = c
}
