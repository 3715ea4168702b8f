package config

import "os"

type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   string
	JWTSecret      string
	AdminUsername  string
	AdminPassword  string
	RestaurantName string
	WhatsAppNumber string
	CurrencySymbol string
	TaxRate        string
	UPIVPA         string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		KafkaBrokers:   getEnv("KAFKA_BROKERS", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		RestaurantName: getEnv("RESTAURANT_NAME", "Spice Garden"),
		WhatsAppNumber: getEnv("RESTAURANT_WHATSAPP", "+919876543210"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
		TaxRate:        getEnv("TAX_RATE", "0.05"),
		UPIVPA:         getEnv("UPI_VPA", "spicegarden@upi"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
