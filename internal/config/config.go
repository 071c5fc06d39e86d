package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	MongoURI string
	MongoDB  string

	// Proveedor de identidad (verificación de bearer tokens).
	IdentityBaseURL string
	IdentityAPIKey  string

	// Proveedor de pagos.
	StripeSecretKey string
	Currency        string

	LogLevel string
}

// Load lee config desde env. El archivo .env es opcional (dev).
func Load() Config {
	_ = godotenv.Load(".env", ".env.local")

	return Config{
		Port:            getenv("PORT", "5000"),
		Env:             getenv("APP_ENV", "development"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getenv("MONGO_DB", "pawlume_server"),
		IdentityBaseURL: os.Getenv("IDENTITY_BASE_URL"),
		IdentityAPIKey:  os.Getenv("IDENTITY_API_KEY"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Currency:        getenv("CURRENCY", "usd"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}
}

func (c Config) IsDev() bool {
	return c.Env != "production"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
