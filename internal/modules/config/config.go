package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/helper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	instrumentsENV    = "INSTRUMENTS"
)

// Config ...
type Config struct {
	Telegram struct {
		Token       string `yaml:"token"`
		AdminChatID int64  `yaml:"admin_chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		HealthPort int    `yaml:"health_port"`
	} `yaml:"service"`

	Scan struct {
		// Инструменты для сканирования; ядро не имеет дефолтной вселенной,
		// список обязателен (yaml или INSTRUMENTS=BTCUSDT,ETHUSDT).
		Instruments []string `yaml:"instruments"`
		Interval    string   `yaml:"interval"` // таймфрейм свечей: "1m".."1d"
		Limit       int      `yaml:"limit"`    // сколько свечей тянем на скан
	} `yaml:"scan"`

	// Периодика — только через ENV, yaml.v2 не парсит duration
	ScanEvery       time.Duration // SCAN_EVERY (15m)
	InstrumentDelay time.Duration // INSTRUMENT_DELAY (2s), вежливая пауза между инструментами

	// Дедуп исходящих сигналов
	DedupWindow    time.Duration // DEDUP_WINDOW (1h): повтор (инструмент, сторона) глушится
	DedupRetention time.Duration // DEDUP_RETENTION (24h): старше — выбрасываем при prune
	DedupStorePath string        `yaml:"dedup_store_path"` // пусто => in-memory

	SubscriberStorePath string `yaml:"subscriber_store_path"`

	Stream struct {
		Enabled bool `yaml:"enabled"` // live-тикер через websocket
	} `yaml:"stream"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
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
		ScanEvery:       durationFromEnv("SCAN_EVERY", "15m"),
		InstrumentDelay: durationFromEnv("INSTRUMENT_DELAY", "2s"),
		DedupWindow:     durationFromEnv("DEDUP_WINDOW", "1h"),
		DedupRetention:  durationFromEnv("DEDUP_RETENTION", "24h"),
	}
	config.Scan.Interval = getenvDefault("SCAN_INTERVAL", "1h")
	config.Scan.Limit = intFromEnv("SCAN_LIMIT", 120)
	config.Service.HealthPort = intFromEnv("HEALTH_PORT", 8080)

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

	if v := os.Getenv(instrumentsENV); v != "" {
		config.Scan.Instruments = splitList(v)
	}
	config.Scan.Interval = helper.NormTF(config.Scan.Interval)
	if len(config.Scan.Instruments) == 0 {
		return nil, fmt.Errorf("scan.instruments is empty: nothing to scan")
	}
	if config.Scan.Limit < 40 {
		return nil, fmt.Errorf("scan.limit=%d is below the decision minimum of 40", config.Scan.Limit)
	}

	return &config, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
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

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
