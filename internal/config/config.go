package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config menyimpan semua parameter aplikasi.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	DBDSN string

	JWTSecret string
	TokenTTL  time.Duration

	AdminEmail        string
	AdminPasswordHash string

	CommissionRate   float64 // Persen
	OrderFeedLimit   int
	ChatHistoryLimit int
	MinTopupAmount   float64
	WorkClockTick    time.Duration
	InvoiceSendDelay time.Duration

	RedisAddr     string
	RedisPassword string

	MidtransServerKey string
	MidtransEnv       string

	FirebaseCredentials string

	TelegramBotToken    string
	TelegramAdminChatID int64

	RateLimitRPS   float64
	RateLimitBurst int

	AllowedOrigins []string
}

// Load membaca .env (kalau ada) lalu environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:                 env,
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DBDSN:               getEnv("DB_DSN", "root:@tcp(127.0.0.1:3306)/smartcare?charset=utf8mb4&parseTime=True&loc=Local"),
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@smartcare.id"),
		AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		MidtransServerKey:   getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransEnv:         getEnv("MIDTRANS_ENV", "sandbox"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	var err error
	if cfg.TokenTTL, err = parseDuration("TOKEN_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.WorkClockTick, err = parseDuration("WORK_CLOCK_TICK", "1s"); err != nil {
		return nil, err
	}
	if cfg.InvoiceSendDelay, err = parseDuration("INVOICE_SEND_DELAY", "1s"); err != nil {
		return nil, err
	}
	if cfg.CommissionRate, err = parseFloat("COMMISSION_RATE", "15"); err != nil {
		return nil, err
	}
	if cfg.MinTopupAmount, err = parseFloat("MIN_TOPUP_AMOUNT", "50000"); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloat("RATE_LIMIT_RPS", "5"); err != nil {
		return nil, err
	}
	if cfg.OrderFeedLimit, err = parseInt("ORDER_FEED_LIMIT", "100"); err != nil {
		return nil, err
	}
	if cfg.ChatHistoryLimit, err = parseInt("CHAT_HISTORY_LIMIT", "50"); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = parseInt("RATE_LIMIT_BURST", "10"); err != nil {
		return nil, err
	}

	chatID, err := strconv.ParseInt(getEnv("TELEGRAM_ADMIN_CHAT_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: TELEGRAM_ADMIN_CHAT_ID tidak valid: %w", err)
	}
	cfg.TelegramAdminChatID = chatID

	// JWT secret wajib kuat di production
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	if env == "production" {
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("config: JWT_SECRET wajib minimal 32 karakter di production")
		}
	} else if cfg.JWTSecret == "" {
		cfg.JWTSecret = "rahasia_dapur_smartcare"
		log.Println("config: WARNING - JWT_SECRET default dipakai, ganti di production!")
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	v := getEnv(key, fallback)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s tidak valid (%q): %w", key, v, err)
	}
	return d, nil
}

func parseFloat(key, fallback string) (float64, error) {
	v := getEnv(key, fallback)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s tidak valid (%q): %w", key, v, err)
	}
	return f, nil
}

func parseInt(key, fallback string) (int, error) {
	v := getEnv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s tidak valid (%q): %w", key, v, err)
	}
	return n, nil
}
