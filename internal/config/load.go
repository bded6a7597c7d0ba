package config

import "github.com/kalakriti/backend/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustOneOf(cfg.StorageDriver, "STORAGE_DRIVER", "local", "s3")
	if cfg.StorageDriver == "s3" {
		config.MustNonEmpty(cfg.S3Bucket, "S3_BUCKET")
	}

	return ServiceConfig{Config: cfg}
}
