package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver string
	DBSource string
	Port     string

	JWTSecret string
	JWTTTL    time.Duration

	YooKassaShopID    string
	YooKassaSecretKey string
	PaymentReturnURL  string

	CleanupMaxAgeDays int
	// Active orders placed inside this window before a requested start
	// block a new reservation on the same table.
	ReservationOrderLookback time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading environment as-is")
	}

	return &Config{
		DBDriver:  getEnv("DB_DRIVER", "sqlite"),
		DBSource:  getEnv("DB_SOURCE", "qrmenu.db"),
		Port:      getEnv("PORT", "8000"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		YooKassaShopID:    os.Getenv("YOOKASSA_SHOP_ID"),
		YooKassaSecretKey: os.Getenv("YOOKASSA_SECRET_KEY"),
		PaymentReturnURL:  getEnv("PAYMENT_RETURN_URL", "http://localhost:3000/payment/result"),

		CleanupMaxAgeDays:        getEnvInt("CLEANUP_MAX_AGE_DAYS", 7),
		ReservationOrderLookback: getEnvDuration("RESERVATION_ORDER_LOOKBACK", 2*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("bad value for %s: %q, using %d", key, v, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("bad value for %s: %q, using %s", key, v, fallback)
	}
	return fallback
}
