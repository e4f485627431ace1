package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Custody CustodyConfig `mapstructure:"custody"`
	Worker  WorkerConfig  `mapstructure:"worker"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
	GrpcPort string `mapstructure:"grpc_port"`
	Store    string `mapstructure:"store"` // "postgres" or "memory"
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis", "kafka" or "memory"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// CustodyConfig 托管网关相关配置
type CustodyConfig struct {
	SystemAccount string        `mapstructure:"system_account"` // 系统自身身份，确认回调只接受它作为调用方
	NativeAsset   string        `mapstructure:"native_asset"`
	Operators     []string      `mapstructure:"operators"`
	Dispatcher    string        `mapstructure:"dispatcher"`    // "local" or "asynq"
	PendingStore  string        `mapstructure:"pending_store"` // "memory" or "redis"
	PendingTTL    time.Duration `mapstructure:"pending_ttl"`
	StaleAfter    time.Duration `mapstructure:"stale_after"`
	DonateBaseURL string        `mapstructure:"donate_base_url"` // 二维码里的捐款链接前缀
}

type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type CacheConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

var Global Config

func Init() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")
	viper.SetDefault("app.grpc_port", "50051")
	viper.SetDefault("app.store", "postgres")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "donation_user")
	viper.SetDefault("db.password", "donation_password")
	viper.SetDefault("db.name", "donation_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("custody.system_account", "donations.core")
	viper.SetDefault("custody.native_asset", "native")
	viper.SetDefault("custody.dispatcher", "local")
	viper.SetDefault("custody.pending_store", "memory")
	viper.SetDefault("custody.pending_ttl", 24*time.Hour)
	viper.SetDefault("custody.stale_after", 10*time.Minute)
	viper.SetDefault("custody.donate_base_url", "donate://donations.core")

	viper.SetDefault("worker.concurrency", 10)

	viper.SetDefault("cache.token_ttl", time.Hour)
}

// IsOperator 判断账户是否为配置的运营账户 (系统账户本身也视为运营方)
func (c CustodyConfig) IsOperator(account string) bool {
	if account == "" {
		return false
	}
	if account == c.SystemAccount {
		return true
	}
	for _, op := range c.Operators {
		if op == account {
			return true
		}
	}
	return false
}
