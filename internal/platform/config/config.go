package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Campaign CampaignConfig `mapstructure:"campaign"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Driver 选择主数据库类型，支持 "sqlite" 和 "postgres"
	Driver   string         `mapstructure:"driver"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig 定义了PostgreSQL的配置
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CampaignConfig 定义了本届斋月活动的配置
type CampaignConfig struct {
	// StartDate 是活动第一天的日期，格式为 "2006-01-02"
	StartDate string `mapstructure:"startDate"`
	// LengthDays 是活动总天数，合法的day_number范围是 [1, LengthDays]
	LengthDays int `mapstructure:"lengthDays"`
}

// AuthConfig 定义了认证相关的配置
type AuthConfig struct {
	// BcryptCost 是密码哈希的计算成本
	BcryptCost int `mapstructure:"bcryptCost"`
	// SessionTTLHours 是会话令牌的有效时长（小时）
	SessionTTLHours int `mapstructure:"sessionTTLHours"`
	// CookieSecure 控制会话Cookie是否只通过HTTPS传输，
	// 部署在TLS之后时应设为true
	CookieSecure bool `mapstructure:"cookieSecure"`
}

// SessionTTL 返回会话有效时长
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// StartTime 解析配置中的活动开始日期
func (c CampaignConfig) StartTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析campaign.startDate: %w", err)
	}
	return t, nil
}

// CurrentDay 根据当前时间计算活动进行到第几天。
// 活动开始前返回0，结束后固定返回最后一天。
func (c CampaignConfig) CurrentDay(now time.Time) (int, error) {
	start, err := c.StartTime()
	if err != nil {
		return 0, err
	}
	day := int(now.Sub(start).Hours()/24) + 1
	if day < 1 {
		return 0, nil
	}
	if day > c.LengthDays {
		return c.LengthDays, nil
	}
	return day, nil
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 设置默认值，保证零配置也能启动
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite.path", "tracker.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("campaign.startDate", "2026-02-17")
	v.SetDefault("campaign.lengthDays", 30)
	v.SetDefault("auth.bcryptCost", 12)
	v.SetDefault("auth.sessionTTLHours", 7*24)
	v.SetDefault("auth.cookieSecure", false)

	// 4. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 DATABASE_REDIS_ADDRESS=redis:6379
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 5. 读取配置文件；文件缺失不是错误，默认值仍然生效
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Campaign.LengthDays <= 0 {
		return nil, fmt.Errorf("campaign.lengthDays 必须为正数，当前为 %d", cfg.Campaign.LengthDays)
	}
	if _, err := cfg.Campaign.StartTime(); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
