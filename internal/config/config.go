// internal/config/config.go
package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	App           AppConfig
	Cache         CacheConfig
	ObjectStorage ObjectStorageConfig
	Rules         RulesConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	// StoreDriver selects the persistence backend: "postgres" or "memory"
	StoreDriver    string
	DatasetFile    string
	SimulationDate string
	ModelDir       string
	ModelBucket    string
	ModelPrefix    string
	ScenarioDir    string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	RedisPoolSize       int
	RedisTimeoutSeconds int
	DashboardTTLSeconds int
	ApprovalLockSeconds int
}

type ObjectStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// RulesConfig drives the reorder reason table and the festival uplift
type RulesConfig struct {
	FestivalName          string
	FestivalDate          string
	FestivalLeadDays      int
	HeroItemName          string
	WeatherCategory       string
	WetSeasonMonths       []int
	FestivalWindowStart   string // MM-DD
	FestivalWindowDays    int
	FestivalUpliftPercent int
}

func (c CacheConfig) DashboardTTL() time.Duration {
	return time.Duration(c.DashboardTTLSeconds) * time.Second
}

func (c CacheConfig) RedisTimeout() time.Duration {
	if c.RedisTimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.RedisTimeoutSeconds) * time.Second
}

func (c CacheConfig) ApprovalLockTTL() time.Duration {
	if c.ApprovalLockSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ApprovalLockSeconds) * time.Second
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "paintflow")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_STORE_DRIVER", "postgres")
		viper.SetDefault("APP_DATASET_FILE", "./data/dataset.json")
		viper.SetDefault("APP_SIMULATION_DATE", "2025-10-10")
		viper.SetDefault("APP_MODEL_DIR", "./data/models")
		viper.SetDefault("APP_MODEL_BUCKET", "")
		viper.SetDefault("APP_MODEL_PREFIX", "models/")
		viper.SetDefault("APP_SCENARIO_DIR", "")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("REDIS_POOL_SIZE", 10)
		viper.SetDefault("REDIS_TIMEOUT_SECONDS", 3)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("CACHE_APPROVAL_LOCK_SECONDS", 10)
		viper.SetDefault("S3_ENDPOINT", "")
		viper.SetDefault("S3_ACCESS_KEY", "")
		viper.SetDefault("S3_SECRET_KEY", "")
		viper.SetDefault("S3_REGION", "us-east-1")
		viper.SetDefault("S3_USE_SSL", true)
		viper.SetDefault("RULES_FESTIVAL_NAME", "Diwali")
		viper.SetDefault("RULES_FESTIVAL_DATE", "2025-10-25")
		viper.SetDefault("RULES_FESTIVAL_LEAD_DAYS", 21)
		viper.SetDefault("RULES_HERO_ITEM", "Bridal Red")
		viper.SetDefault("RULES_WEATHER_CATEGORY", "Waterproofing")
		viper.SetDefault("RULES_WET_SEASON_MONTHS", []int{6, 7, 8, 9})
		viper.SetDefault("RULES_FESTIVAL_WINDOW_START", "10-15")
		viper.SetDefault("RULES_FESTIVAL_WINDOW_DAYS", 17)
		viper.SetDefault("RULES_FESTIVAL_UPLIFT_PERCENT", 60)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				LogLevel:       viper.GetString("LOG_LEVEL"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				StoreDriver:    viper.GetString("APP_STORE_DRIVER"),
				DatasetFile:    viper.GetString("APP_DATASET_FILE"),
				SimulationDate: viper.GetString("APP_SIMULATION_DATE"),
				ModelDir:       viper.GetString("APP_MODEL_DIR"),
				ModelBucket:    viper.GetString("APP_MODEL_BUCKET"),
				ModelPrefix:    viper.GetString("APP_MODEL_PREFIX"),
				ScenarioDir:    viper.GetString("APP_SCENARIO_DIR"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				RedisPoolSize:       viper.GetInt("REDIS_POOL_SIZE"),
				RedisTimeoutSeconds: viper.GetInt("REDIS_TIMEOUT_SECONDS"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
				ApprovalLockSeconds: viper.GetInt("CACHE_APPROVAL_LOCK_SECONDS"),
			},
			ObjectStorage: ObjectStorageConfig{
				Endpoint:  viper.GetString("S3_ENDPOINT"),
				AccessKey: viper.GetString("S3_ACCESS_KEY"),
				SecretKey: viper.GetString("S3_SECRET_KEY"),
				Region:    viper.GetString("S3_REGION"),
				UseSSL:    viper.GetBool("S3_USE_SSL"),
			},
			Rules: RulesConfig{
				FestivalName:          viper.GetString("RULES_FESTIVAL_NAME"),
				FestivalDate:          viper.GetString("RULES_FESTIVAL_DATE"),
				FestivalLeadDays:      viper.GetInt("RULES_FESTIVAL_LEAD_DAYS"),
				HeroItemName:          viper.GetString("RULES_HERO_ITEM"),
				WeatherCategory:       viper.GetString("RULES_WEATHER_CATEGORY"),
				WetSeasonMonths:       viper.GetIntSlice("RULES_WET_SEASON_MONTHS"),
				FestivalWindowStart:   viper.GetString("RULES_FESTIVAL_WINDOW_START"),
				FestivalWindowDays:    viper.GetInt("RULES_FESTIVAL_WINDOW_DAYS"),
				FestivalUpliftPercent: viper.GetInt("RULES_FESTIVAL_UPLIFT_PERCENT"),
			},
		}
	})

	return instance
}
