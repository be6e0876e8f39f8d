package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	alphaVantageKey   = "ALPHA_VANTAGE_API_KEY"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Провайдер рыночных данных (Alpha Vantage).
	Provider struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		WSURL   string `yaml:"ws_url"`
		Mock    bool   `yaml:"mock"` // без ключа гоняем мок
	} `yaml:"provider"`

	// Путь к таблице тарифов лицензий.
	TiersFile string `yaml:"tiers_file"`

	// Ключи подписи лицензий (base64 PEM). Пусто => генерим на старте.
	LicensePrivateKey string `yaml:"license_private_key"`
	LicensePublicKey  string `yaml:"license_public_key"`

	// Дефолты риск-настроек: создаём юзеру при первом обращении.
	DefaultPairs          []string
	DefaultTimeframe      string
	DefaultRiskPct        float64
	DefaultMaxOpenTrades  int
	DefaultTradingEnabled bool

	// Фоновый пересчёт открытых позиций.
	RefreshInterval time.Duration

	// Таймаут на любой внешний вызов провайдера.
	ProviderTimeout time.Duration
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		DefaultPairs:          listFromEnv("DEFAULT_PAIRS", []string{"EURUSD", "GBPUSD", "USDJPY"}),
		DefaultTimeframe:      getenvDefault("TIMEFRAME", "1H"),
		DefaultRiskPct:        floatFromEnv("RISK_PCT", 1.0),
		DefaultMaxOpenTrades:  intFromEnv("MAX_OPEN_TRADES", 3),
		DefaultTradingEnabled: boolFromEnv("TRADING_ENABLED", false),

		RefreshInterval: durationFromEnv("REFRESH_INTERVAL", "60s"),
		ProviderTimeout: durationFromEnv("PROVIDER_TIMEOUT", "10s"),

		TiersFile: getenvDefault("TIERS_FILE", "configs/tiers.yaml"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if k := os.Getenv(alphaVantageKey); k != "" {
		config.Provider.APIKey = k
	}
	if config.Provider.BaseURL == "" {
		config.Provider.BaseURL = "https://www.alphavantage.co/query"
	}
	if config.Provider.APIKey == "" {
		// demo-ключ Alpha Vantage почти всё режет, честнее мок
		config.Provider.Mock = true
	}

	if v := os.Getenv("LICENSE_PRIVATE_KEY"); v != "" {
		config.LicensePrivateKey = v
	}
	if v := os.Getenv("LICENSE_PUBLIC_KEY"); v != "" {
		config.LicensePublicKey = v
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func listFromEnv(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
