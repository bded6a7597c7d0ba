package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	JWTSecret []byte

	CORSOrigins []string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	GoogleClientID string

	RazorpayKeyID     string
	RazorpayKeySecret string

	MailHost     string
	MailPort     string
	MailUsername string
	MailPassword string
	MailFrom     string
	MailFromName string

	NotifyWorkers int

	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	StorageDriver string
	UploadDir     string
	UploadURL     string
	MaxUploadSize string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "kalakriti"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174,https://kalakritiii.vercel.app")),

		AdminEmail:    EnvDefault("ADMIN_EMAIL", "info@kalakriti.com"),
		AdminPassword: EnvDefault("ADMIN_PASSWORD", "kalakriti"),
		AdminName:     EnvDefault("ADMIN_NAME", "Admin"),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		MailHost:     EnvDefault("MAIL_HOST", "smtp.gmail.com"),
		MailPort:     EnvDefault("MAIL_PORT", "587"),
		MailUsername: os.Getenv("MAIL_USERNAME"),
		MailPassword: os.Getenv("MAIL_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailFromName: EnvDefault("MAIL_FROM_NAME", "Kalakriti"),

		NotifyWorkers: EnvIntDefault("NOTIFY_WORKERS", 4),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "order_events"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      EnvDurationDefault("CACHE_TTL", 5*time.Minute),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "services"),

		StorageDriver: EnvDefault("STORAGE_DRIVER", "local"),
		UploadDir:     EnvDefault("UPLOAD_DIR", "uploads"),
		UploadURL:     EnvDefault("UPLOAD_URL", "/uploads"),
		MaxUploadSize: EnvDefault("MAX_UPLOAD_SIZE", "10M"),

		S3Bucket:   os.Getenv("S3_BUCKET"),
		S3Region:   EnvDefault("S3_REGION", "ap-south-1"),
		S3Key:      os.Getenv("S3_KEY"),
		S3Secret:   os.Getenv("S3_SECRET"),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),
		S3URL:      os.Getenv("S3_URL"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
