package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"godsendjoseph.dev/edu-connect/internal/env"
	ratelimiter "godsendjoseph.dev/edu-connect/internal/rateLimiter"
	"godsendjoseph.dev/edu-connect/internal/theme"
)

const version = "0.1.0"

func loadConfig() config {
	return config{
		addr:        env.GetString("ADDR", ":8080"),
		env:         env.GetString("ENV", "development"),
		apiURL:      env.GetString("EXTERNAL_URL", "http://localhost:8080"),
		corsOrigins: env.GetStrings("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		redisCfg: redisConfig{
			addr:    env.GetString("REDIS_ADDR", "localhost:6379"),
			pwd:     env.GetString("REDIS_PASSWORD", ""),
			db:      env.GetInt("REDIS_DB", 0),
			enabled: env.GetBool("REDIS_ENABLED", false),
		},
		storage: storageConfig{
			driver:     env.GetString("STORAGE_DRIVER", "local"),
			localDir:   env.GetString("STORAGE_LOCAL_DIR", "./uploads"),
			presignTTL: env.GetDuration("STORAGE_PRESIGN_TTL", 15*time.Minute),
			r2: r2Config{
				endpoint:        env.GetString("R2_ENDPOINT", ""),
				accessKeyID:     env.GetString("R2_ACCESS_KEY_ID", ""),
				secretAccessKey: env.GetString("R2_SECRET_ACCESS_KEY", ""),
				bucketName:      env.GetString("R2_BUCKET_NAME", ""),
				publicURL:       env.GetString("R2_PUBLIC_URL", ""),
			},
			minio: minioConfig{
				endpoint:   env.GetString("MINIO_ENDPOINT", "localhost:9000"),
				accessKey:  env.GetString("MINIO_ACCESS_KEY", ""),
				secretKey:  env.GetString("MINIO_SECRET_KEY", ""),
				bucket:     env.GetString("MINIO_BUCKET", "edu-connect"),
				region:     env.GetString("MINIO_REGION", "us-east-1"),
				publicBase: env.GetString("MINIO_PUBLIC_BASE", ""),
				useSSL:     env.GetBool("MINIO_USE_SSL", false),
			},
		},
		upload: uploadConfig{
			maxBytes: env.GetInt64("UPLOAD_MAX_BYTES", 5<<20),
		},
		auth: authConfig{
			basic: basicConfig{
				username: env.GetString("BASIC_AUTH_USERNAME", "admin"),
				password: env.GetString("BASIC_AUTH_PASSWORD", "password"),
			},
			token: tokenConfig{
				secret:   env.GetString("TOKEN_SECRET", "secret"),
				exp:      env.GetDuration("TOKEN_EXP", 24*time.Hour),
				audience: env.GetString("TOKEN_AUDIENCE", "edu-connect"),
				issuer:   env.GetString("TOKEN_ISSUER", "edu-connect"),
			},
		},
		rateLimiter: ratelimiter.Config{
			RequestPerTimeForIP: env.GetInt("RATE_LIMITER_REQUEST_COUNT", 20),
			TimeFrame:           env.GetDuration("RATE_LIMITER_TIME_FRAME", 5*time.Minute),
			Enabled:             env.GetBool("RATE_LIMITER_ENABLED", true),
		},
		timezone: env.GetString("TIMEZONE", "UTC"),
		slack: slackConfig{
			webhookURL: env.GetString("SLACK_WEBHOOK_URL", ""),
			channel:    env.GetString("SLACK_CHANNEL", "#notifications"),
			username:   env.GetString("SLACK_USERNAME", "Edu Connect"),
			iconEmoji:  env.GetString("SLACK_ICON_EMOJI", ":bell:"),
			enabled:    env.GetBool("SLACK_ENABLED", false),
		},
		theme: theme.DefaultConfig(),
		toasts: toastConfig{
			buffer:        env.GetInt("TOAST_BUFFER", 64),
			streamOrigins: env.GetStrings("TOAST_STREAM_ORIGINS", []string{"localhost:3000"}),
		},
	}
}

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	// A missing .env is fine; the process environment still applies.
	if err := godotenv.Load(env.GetString("ENV_FILE", ".env")); err != nil {
		logger.Infow("no .env file loaded", "error", err)
	}

	cfg := loadConfig()

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to build application", "error", err)
	}
	defer func() {
		if err := app.injector.Shutdown(); err != nil {
			logger.Errorw("shutdown failed", "error", err)
		}
	}()

	app.start(context.Background())

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Errorw("server stopped", "error", err)
	}
}
