package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/do"
	"go.uber.org/zap"

	"godsendjoseph.dev/edu-connect/internal/auth"
	"godsendjoseph.dev/edu-connect/internal/cache"
	"godsendjoseph.dev/edu-connect/internal/cron"
	"godsendjoseph.dev/edu-connect/internal/notification"
	ratelimiter "godsendjoseph.dev/edu-connect/internal/rateLimiter"
	"godsendjoseph.dev/edu-connect/internal/storage"
	"godsendjoseph.dev/edu-connect/internal/theme"
	"godsendjoseph.dev/edu-connect/internal/toast"
	"godsendjoseph.dev/edu-connect/internal/upload"
)

// setupInjector registers a provider for every shared service. Providers
// are lazy and the injector caches what they return, so each service is
// built at most once per injector.
func setupInjector(cfg config, logger *zap.SugaredLogger) *do.Injector {
	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debugf(format, args...)
		},
	})

	do.ProvideValue[*zap.SugaredLogger](injector, logger)

	do.Provide[*cache.Client](injector, func(i *do.Injector) (*cache.Client, error) {
		if !cfg.redisCfg.enabled {
			return cache.New(nil), nil
		}
		rdb := cache.NewRedisClient(cfg.redisCfg.addr, cfg.redisCfg.pwd, cfg.redisCfg.db)
		logger.Infow("cache connection established", "addr", cfg.redisCfg.addr)
		return cache.New(rdb), nil
	})

	do.Provide[*theme.Provider](injector, func(i *do.Injector) (*theme.Provider, error) {
		return theme.NewProvider(cfg.theme, do.MustInvoke[*cache.Client](i)), nil
	})

	do.Provide[*auth.JWTAuthenticator](injector, func(i *do.Injector) (*auth.JWTAuthenticator, error) {
		if cfg.auth.token.secret == "" {
			return nil, errors.New("auth token secret is not configured")
		}
		return auth.NewJWTAuthenticator(cfg.auth.token.secret, cfg.auth.token.audience, cfg.auth.token.issuer), nil
	})

	do.Provide[*auth.BasicCredentials](injector, func(i *do.Injector) (*auth.BasicCredentials, error) {
		return auth.NewBasicCredentials(cfg.auth.basic.username, cfg.auth.basic.password)
	})

	do.Provide[*notification.SlackNotifier](injector, func(i *do.Injector) (*notification.SlackNotifier, error) {
		return notification.NewSlackNotifier(
			cfg.slack.webhookURL,
			cfg.slack.channel,
			cfg.slack.username,
			cfg.slack.iconEmoji,
			cfg.slack.enabled,
		), nil
	})

	do.Provide[*notification.StreamHub](injector, func(i *do.Injector) (*notification.StreamHub, error) {
		return notification.NewStreamHub(logger, cfg.toasts.buffer, cfg.toasts.streamOrigins), nil
	})

	// Both surfaces are subscribed on every mount, whether or not Slack is
	// configured. A disabled notifier renders nothing.
	do.Provide[*toast.Channel](injector, func(i *do.Injector) (*toast.Channel, error) {
		ch := toast.NewChannel(logger, cfg.toasts.buffer)
		if err := ch.Subscribe("slack", do.MustInvoke[*notification.SlackNotifier](i)); err != nil {
			return nil, err
		}
		if err := ch.Subscribe("stream", do.MustInvoke[*notification.StreamHub](i)); err != nil {
			return nil, err
		}
		return ch, nil
	})

	do.Provide[storage.Client](injector, func(i *do.Injector) (storage.Client, error) {
		return newStorageClient(cfg.storage, cfg.apiURL)
	})

	do.Provide[*upload.Uploader](injector, func(i *do.Injector) (*upload.Uploader, error) {
		return upload.New(do.MustInvoke[storage.Client](i), logger), nil
	})

	do.Provide[ratelimiter.Limiter](injector, func(i *do.Injector) (ratelimiter.Limiter, error) {
		return ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestPerTimeForIP,
			cfg.rateLimiter.TimeFrame,
		), nil
	})

	do.Provide[*cron.Scheduler](injector, func(i *do.Injector) (*cron.Scheduler, error) {
		scheduler, err := cron.NewScheduler(logger, cfg.timezone)
		if err != nil {
			return nil, err
		}
		jobs := cron.NewJobManager(logger, do.MustInvoke[*cache.Client](i), do.MustInvoke[*toast.Channel](i))
		jobs.Register(scheduler)
		return scheduler, nil
	})

	return injector
}

func newStorageClient(cfg storageConfig, apiURL string) (storage.Client, error) {
	switch cfg.driver {
	case "", "local":
		return storage.NewLocalClient(cfg.localDir, apiURL)
	case "r2":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewR2Client(ctx, storage.R2Options{
			Endpoint:        cfg.r2.endpoint,
			AccessKeyID:     cfg.r2.accessKeyID,
			SecretAccessKey: cfg.r2.secretAccessKey,
			BucketName:      cfg.r2.bucketName,
			PublicURL:       cfg.r2.publicURL,
			PresignTTL:      cfg.presignTTL,
		})
	case "minio":
		client, err := storage.NewMinioClient(storage.MinioOptions{
			Endpoint:   cfg.minio.endpoint,
			AccessKey:  cfg.minio.accessKey,
			SecretKey:  cfg.minio.secretKey,
			Bucket:     cfg.minio.bucket,
			Region:     cfg.minio.region,
			UseSSL:     cfg.minio.useSSL,
			PublicBase: cfg.minio.publicBase,
			PresignTTL: cfg.presignTTL,
		})
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.driver)
	}
}

// bind returns a step that resolves T from injector into dst.
func bind[T any](injector *do.Injector, dst *T) func() error {
	return func() error {
		v, err := do.Invoke[T](injector)
		if err != nil {
			return fmt.Errorf("resolve %T: %w", dst, err)
		}
		*dst = v
		return nil
	}
}

// newApplication builds a fresh injector and resolves every service the
// handlers use. overrides run after the default providers are registered
// and before anything is resolved.
func newApplication(cfg config, logger *zap.SugaredLogger, overrides ...func(*do.Injector)) (*application, error) {
	injector := setupInjector(cfg, logger)
	for _, override := range overrides {
		override(injector)
	}

	app := &application{
		config:   cfg,
		injector: injector,
		logger:   logger,
	}

	steps := []func() error{
		bind(injector, &app.cache),
		bind(injector, &app.theme),
		bind(injector, &app.authenticator),
		bind(injector, &app.basicAuth),
		bind(injector, &app.slackNotifier),
		bind(injector, &app.stream),
		bind(injector, &app.toasts),
		bind(injector, &app.storageClient),
		bind(injector, &app.uploader),
		bind(injector, &app.rateLimiter),
		bind(injector, &app.scheduler),
	}

	for _, step := range steps {
		if err := step(); err != nil {
			if shutdownErr := injector.Shutdown(); shutdownErr != nil {
				logger.Warnw("injector shutdown failed", "error", shutdownErr)
			}
			return nil, err
		}
	}

	return app, nil
}
