package config

import (
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout int
	Timeout     int
	Prefix      string
}

type S3Config struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	Prefix          string
}

// MoraConfig carries the penalty and credit-line business settings. Defaults
// match the contractual values; they are configurable for other portfolios.
type MoraConfig struct {
	MonthlyPenaltyRate decimal.Decimal
	DaysPerMonth       int
	CreditLineMinimum  decimal.Decimal
}

type AppConfig struct {
	Port     string
	Postgres PostgresConfig
	Redis    RedisConfig
	S3       S3Config
	Mora     MoraConfig

	ExportDir         string
	FilesPublicPrefix string
	ExternalURL       string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

func mustBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("invalid bool value %q: %v", s, err)
	}
	return b
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("invalid decimal value %q: %v", s, err)
	}
	return d
}

func Load() AppConfig {
	return AppConfig{
		Port: getenv("APP_PORT", "8010"),
		Postgres: PostgresConfig{
			Host:     getenv("PG_HOST", "127.0.0.1"),
			Port:     mustAtoi(getenv("PG_PORT", "5432")),
			User:     getenv("PG_USER", "root"),
			Password: getenv("PG_PASSWORD", ""),
			DBName:   getenv("PG_DB", "audicob"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:        getenv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    getenv("REDIS_PASSWORD", ""),
			DB:          mustAtoi(getenv("REDIS_DB", "0")),
			MaxRetries:  mustAtoi(getenv("REDIS_MAX_RETRIES", "5")),
			DialTimeout: mustAtoi(getenv("REDIS_DIAL_TIMEOUT", "10")),
			Timeout:     mustAtoi(getenv("REDIS_TIMEOUT", "5")),
			Prefix:      getenv("REDIS_PREFIX", "audicob_cache"),
		},
		S3: S3Config{
			Enabled:         mustBool(getenv("S3_ENABLED", "false")),
			Endpoint:        getenv("S3_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getenv("S3_ACCESS_KEY", "minio"),
			SecretAccessKey: getenv("S3_SECRET_KEY", "minio123"),
			Bucket:          getenv("S3_BUCKET", "statements"),
			Region:          getenv("S3_REGION", "us-east-1"),
			UseSSL:          mustBool(getenv("S3_USE_SSL", "false")),
			Prefix:          getenv("S3_PREFIX", ""),
		},
		Mora: MoraConfig{
			MonthlyPenaltyRate: mustDecimal(getenv("MORA_MONTHLY_RATE", "0.015")),
			DaysPerMonth:       mustAtoi(getenv("MORA_DAYS_PER_MONTH", "30")),
			CreditLineMinimum:  mustDecimal(getenv("CREDIT_LINE_MINIMUM", "180")),
		},
		ExportDir:         getenv("EXPORT_DIR", "./statements"),
		FilesPublicPrefix: getenv("FILES_PUBLIC_PREFIX", "/files"),
		ExternalURL:       getenv("EXTERNAL_URL", ""),
	}
}
