package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Entitlement  EntitlementConfig  `mapstructure:"entitlement"`
	Queue        QueueConfig        `mapstructure:"queue"`
	Cron         CronConfig         `mapstructure:"cron"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	// Driver is one of mysql, postgres or sqlite.
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type SubscriptionConfig struct {
	TrialDays int `mapstructure:"trial_days"`
}

func (c SubscriptionConfig) TrialPeriod() time.Duration {
	return time.Duration(c.TrialDays) * 24 * time.Hour
}

type EntitlementConfig struct {
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	LockBackend  string        `mapstructure:"lock_backend"` // memory, redis
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
	LockWait     time.Duration `mapstructure:"lock_wait"`
	UsageChannel string        `mapstructure:"usage_channel"`
}

type QueueConfig struct {
	UsageQueue string `mapstructure:"usage_queue"`
	MaxWorkers int    `mapstructure:"max_workers"`
}

type CronConfig struct {
	RolloverInterval  time.Duration `mapstructure:"rollover_interval"`
	RolloverBatchSize int           `mapstructure:"rollover_batch_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("subscription.trial_days", 7)
	v.SetDefault("entitlement.max_retries", 3)
	v.SetDefault("entitlement.retry_delay", 10*time.Millisecond)
	v.SetDefault("entitlement.lock_backend", "memory")
	v.SetDefault("entitlement.lock_ttl", 5*time.Second)
	v.SetDefault("entitlement.lock_wait", 2*time.Second)
	v.SetDefault("entitlement.usage_channel", "usage_events")
	v.SetDefault("queue.usage_queue", "usage_events_queue")
	v.SetDefault("queue.max_workers", 2)
	v.SetDefault("cron.rollover_interval", time.Hour)
	v.SetDefault("cron.rollover_batch_size", 500)
}

func Load(configPath string) (*Config, error) {
	// config.local.yaml next to the given file wins; it holds real secrets and stays out of git.
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
