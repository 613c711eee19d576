package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Store       StoreConfig       `mapstructure:"store"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Email       EmailConfig       `mapstructure:"email"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port               string        `mapstructure:"port"`
	Mode               string        `mapstructure:"mode"`
	ExposeErrorDetails bool          `mapstructure:"expose_error_details"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Mode           string `mapstructure:"mode"`
	AuditBuffer    int    `mapstructure:"audit_buffer"`
	AuditBodyLimit int    `mapstructure:"audit_body_limit"`
}

// StoreConfig 存储配置
type StoreConfig struct {
	Driver     string         `mapstructure:"driver"`
	Table      string         `mapstructure:"table"`
	Region     string         `mapstructure:"region"`
	Endpoint   string         `mapstructure:"endpoint"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Database   DatabaseConfig `mapstructure:"database"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Redis      RedisConfig    `mapstructure:"redis"`
}

// DatabaseConfig 关系型数据库配置（mysql / postgres）
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DiagnosticsConfig 诊断配置
type DiagnosticsConfig struct {
	HeartRateMode  string  `mapstructure:"heart_rate_mode"`
	FixedHeartRate float64 `mapstructure:"fixed_heart_rate"`
	MinHeartRate   int     `mapstructure:"min_heart_rate"`
	MaxHeartRate   int     `mapstructure:"max_heart_rate"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// EmailConfig 邮件配置（登记成功通知）
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

var (
	// GlobalConfig 全局配置实例，仅供 SafeErrorMessage 与 PrintConfig 使用
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("warning: cannot read config file %s: %v", configPath, err)
		} else {
			log.Printf("merged config file: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/ecgenius")
		externalViper.AddConfigPath("$HOME/.ecgenius")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("warning: merge config failed: %v", err)
			} else {
				log.Printf("merged config file: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖
	v.SetEnvPrefix("ECGENIUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容部署脚本里的通用变量名
	_ = v.BindEnv("store.table", "ECGENIUS_STORE_TABLE", "DYNAMODB_TABLE")
	_ = v.BindEnv("store.region", "ECGENIUS_STORE_REGION", "AWS_REGION")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)

	GlobalConfig = &cfg

	return &cfg, nil
}

// applyDefaults 兜底非法或缺省的配置项
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":5000"
	}
	if !strings.HasPrefix(cfg.Server.Port, ":") && !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	if cfg.Store.Timeout <= 0 {
		cfg.Store.Timeout = 5 * time.Second
	}
	if cfg.Log.AuditBuffer <= 0 {
		cfg.Log.AuditBuffer = 256
	}
	if cfg.Diagnostics.MaxHeartRate < cfg.Diagnostics.MinHeartRate {
		cfg.Diagnostics.MinHeartRate, cfg.Diagnostics.MaxHeartRate = cfg.Diagnostics.MaxHeartRate, cfg.Diagnostics.MinHeartRate
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = 120
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
}

// SafeErrorMessage 根据配置决定是否向客户端回显内部错误详情
// GlobalConfig 为 nil 时视为开发环境，直接返回 err.Error()
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && !GlobalConfig.Server.ExposeErrorDetails {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig(logf func(format string, args ...interface{})) {
	if GlobalConfig == nil {
		return
	}
	c := GlobalConfig
	logf("effective config:")
	logf("  server: %s (mode: %s)", c.Server.Port, c.Server.Mode)
	switch c.Store.Driver {
	case "dynamodb":
		logf("  store: dynamodb table=%s region=%s endpoint=%q", c.Store.Table, c.Store.Region, c.Store.Endpoint)
	case "mysql", "postgres":
		logf("  store: %s %s@%s:%s/%s", c.Store.Driver, c.Store.Database.Username, c.Store.Database.Host, c.Store.Database.Port, c.Store.Database.DBName)
	case "sqlite":
		logf("  store: sqlite %s", c.Store.SQLitePath)
	case "redis":
		logf("  store: redis %s db=%d", c.Store.Redis.Addr, c.Store.Redis.DB)
	default:
		logf("  store: %s", c.Store.Driver)
	}
	logf("  diagnostics: heart_rate_mode=%s", c.Diagnostics.HeartRateMode)
	logf("  rate limit: %v, email: %v", c.RateLimit.Enabled, c.Email.Enabled)
}
