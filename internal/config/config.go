package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	UploadPath  string // Fiş/kanıt fotoğraflarının kaydedileceği klasör yolu

	// Kazı kazan ayarları
	ScrVarianceThreshold float64 // varsayılan fark eşiği (dolar); mağaza bazında ezilebilir
	ScrPackSizes         string  // "fiyat:bilet" çiftleri, ör: "1:240,2:100,5:80"
}

// Bilet yüzü fiyatına göre paket boyutu eyalete/bölgeye göre değişiyor,
// o yüzden sabit değil config (SCR_PACK_SIZES ile ezilebilir).
const defaultPackSizes = "1:240,2:100,3:100,5:80,10:50,20:30,25:30,30:30,40:30"

func Load() *Config {
	// .env varsa yükle (local development için)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=tekel port=5432 sslmode=disable"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadPath:   getEnv("UPLOAD_PATH", "./uploads"), // Default: local development için
		ScrPackSizes: getEnv("SCR_PACK_SIZES", defaultPackSizes),
	}

	cfg.ScrVarianceThreshold = getEnvFloat("SCR_VARIANCE_THRESHOLD", 20)

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=tekel port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[WARN] %s geçersiz (%q), varsayılan %.2f kullanılıyor", key, v, def)
		return def
	}
	return f
}
