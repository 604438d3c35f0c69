// internal/config/config.go
// Loader konfigurasi: file YAML opsional (CONFIG_FILE), lalu environment variables.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName   string `yaml:"app_name"`
	AppEnv    string `yaml:"app_env"`
	AppPort   string `yaml:"app_port"`
	MCPPort   string `yaml:"mcp_port"`
	LogLevel  string `yaml:"log_level"`  // debug|info|warn|error, filter event log
	LogFormat string `yaml:"log_format"` // json|text
	NoGzip    bool   `yaml:"no_gzip"`

	MySQL struct {
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		DB       string `yaml:"db"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		MaxOpen  int    `yaml:"max_open"`
		MaxIdle  int    `yaml:"max_idle"`
	} `yaml:"mysql"`

	LLM struct {
		APIKey  string `yaml:"api_key"`
		APIBase string `yaml:"api_base"`
		Model   string `yaml:"model"`
	} `yaml:"llm"`

	Forecast struct {
		StartMonths      float64 `yaml:"start_months"`
		StepMonths       float64 `yaml:"step_months"`
		HorizonMonths    float64 `yaml:"horizon_months"`
		MaxSamples       int     `yaml:"max_samples"`
		AvgDaysPerMonth  float64 `yaml:"avg_days_per_month"`
		StreamBatchSize  int     `yaml:"stream_batch_size"`
		AnomalyMinZScore float64 `yaml:"anomaly_min_zscore"`
	} `yaml:"forecast"`
}

// Load membaca konfigurasi. Urutan prioritas: env > file YAML > default.
func Load() *Config {
	c := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.readFile(path); err != nil {
			log.Printf("[WARN] config file %s: %v", path, err)
		}
	}

	c.AppName = getEnv("APP_NAME", or(c.AppName, "dca-oilgas"))
	c.AppEnv = getEnv("APP_ENV", or(c.AppEnv, "development"))
	c.AppPort = getEnv("APP_PORT", or(c.AppPort, "8080"))
	c.MCPPort = getEnv("MCP_PORT", or(c.MCPPort, "8090"))
	c.LogLevel = getEnv("LOG_LEVEL", or(c.LogLevel, "info"))
	c.LogFormat = getEnv("LOG_FORMAT", or(c.LogFormat, "json"))
	c.NoGzip = getEnvBool("DISABLE_GZIP", c.NoGzip)

	c.MySQL.DSN = getEnv("DB_DSN", getEnv("DB_DSN_DOCKER", c.MySQL.DSN))
	c.MySQL.Host = getEnv("MYSQL_HOST", c.MySQL.Host)
	c.MySQL.Port = getEnv("MYSQL_PORT", or(c.MySQL.Port, "3306"))
	c.MySQL.DB = getEnv("MYSQL_DB", or(c.MySQL.DB, "dca"))
	c.MySQL.User = getEnv("MYSQL_USER", or(c.MySQL.User, "root"))
	c.MySQL.Password = getEnv("MYSQL_PASSWORD", c.MySQL.Password)
	c.MySQL.MaxOpen = getEnvInt("MYSQL_MAX_OPEN_CONNS", orInt(c.MySQL.MaxOpen, 20))
	c.MySQL.MaxIdle = getEnvInt("MYSQL_MAX_IDLE_CONNS", orInt(c.MySQL.MaxIdle, 10))

	// LLM / OpenAI (opsional: hanya untuk /mcp/route berbasis pertanyaan)
	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.APIBase = getEnv("OPENAI_BASE_URL", or(c.LLM.APIBase, "https://api.openai.com/v1"))
	c.LLM.Model = getEnv("OPENAI_MODEL", or(c.LLM.Model, "gpt-4o-mini"))

	c.Forecast.StartMonths = getEnvFloat("FORECAST_START_MONTHS", orFloat(c.Forecast.StartMonths, 0.1))
	c.Forecast.StepMonths = getEnvFloat("FORECAST_STEP_MONTHS", orFloat(c.Forecast.StepMonths, 0.5))
	c.Forecast.HorizonMonths = getEnvFloat("FORECAST_HORIZON_MONTHS", orFloat(c.Forecast.HorizonMonths, 120))
	c.Forecast.MaxSamples = getEnvInt("FORECAST_MAX_SAMPLES", orInt(c.Forecast.MaxSamples, 20000))
	c.Forecast.AvgDaysPerMonth = getEnvFloat("AVG_DAYS_PER_MONTH", orFloat(c.Forecast.AvgDaysPerMonth, 30.437))
	c.Forecast.StreamBatchSize = getEnvInt("FORECAST_STREAM_BATCH", orInt(c.Forecast.StreamBatchSize, 60))
	c.Forecast.AnomalyMinZScore = getEnvFloat("ANOMALY_MIN_ZSCORE", orFloat(c.Forecast.AnomalyMinZScore, 2.5))

	if c.LLM.APIKey == "" {
		log.Println("[WARN] OPENAI_API_KEY is not set, question routing falls back to keywords")
	}

	return c
}

// Validate memastikan default forecast masuk akal.
func (c *Config) Validate() error {
	if c.Forecast.StartMonths <= 0 {
		return errors.New("forecast.start_months must be positive")
	}
	if c.Forecast.StepMonths <= 0 {
		return errors.New("forecast.step_months must be positive")
	}
	if c.Forecast.HorizonMonths <= c.Forecast.StartMonths {
		return errors.New("forecast.horizon_months must be greater than start_months")
	}
	if c.Forecast.MaxSamples <= 0 {
		return errors.New("forecast.max_samples must be positive")
	}
	if c.Forecast.AvgDaysPerMonth <= 0 {
		return errors.New("forecast.avg_days_per_month must be positive")
	}
	if c.Forecast.StreamBatchSize <= 0 {
		return errors.New("forecast.stream_batch_size must be positive")
	}
	return nil
}

// MySQLDSN DSN eksplisit (DB_DSN) atau dirakit dari MYSQL_*.
// String kosong berarti DB tidak dikonfigurasi.
func (c *Config) MySQLDSN() string {
	if c.MySQL.DSN != "" {
		return c.MySQL.DSN
	}
	if c.MySQL.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.MySQL.User, c.MySQL.Password, c.MySQL.Host, c.MySQL.Port, c.MySQL.DB)
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		_, err := fmt.Sscanf(v, "%d", &i)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
