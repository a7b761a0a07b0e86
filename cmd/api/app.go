package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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

// application is built once per process and handed to every handler.
type application struct {
	config   config
	injector *do.Injector
	logger   *zap.SugaredLogger

	cache         *cache.Client
	theme         *theme.Provider
	authenticator *auth.JWTAuthenticator
	basicAuth     *auth.BasicCredentials
	toasts        *toast.Channel
	slackNotifier *notification.SlackNotifier
	stream        *notification.StreamHub
	storageClient storage.Client
	uploader      *upload.Uploader
	rateLimiter   ratelimiter.Limiter
	scheduler     *cron.Scheduler
}

type config struct {
	addr        string
	env         string
	apiURL      string
	corsOrigins []string
	auth        authConfig
	redisCfg    redisConfig
	storage     storageConfig
	upload      uploadConfig
	rateLimiter ratelimiter.Config
	timezone    string
	slack       slackConfig
	theme       theme.Config
	toasts      toastConfig
}

type redisConfig struct {
	addr    string
	pwd     string
	db      int
	enabled bool
}

type storageConfig struct {
	// driver is one of "local", "r2" or "minio".
	driver     string
	localDir   string
	presignTTL time.Duration
	r2         r2Config
	minio      minioConfig
}

type r2Config struct {
	endpoint        string
	accessKeyID     string
	secretAccessKey string
	bucketName      string
	publicURL       string
}

type minioConfig struct {
	endpoint   string
	accessKey  string
	secretKey  string
	bucket     string
	region     string
	publicBase string
	useSSL     bool
}

type uploadConfig struct {
	maxBytes int64
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type basicConfig struct {
	username string
	password string
}

type tokenConfig struct {
	secret   string
	audience string
	issuer   string
	exp      time.Duration
}

type slackConfig struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	enabled    bool
}

type toastConfig struct {
	buffer        int
	streamOrigins []string
}

type contextKey string

func (app *application) mount() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(app.logRequest)
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Use(app.RateLimiterMiddleware)

	// theme → auth → routes
	router.Use(app.theme.Middleware)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.notFoundResponse(w, r, errors.New("route not found"))
	})

	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.methodNotAllowedResponse(w, r, errors.New("method not allowed"))
	})

	if local, ok := app.storageClient.(*storage.LocalClient); ok {
		fileServer := http.FileServer(http.Dir(local.Dir()))
		router.Handle("/uploads/*", http.StripPrefix("/uploads", fileServer))
	}

	app.registerRoutes(router)

	return router
}

// start schedules the background jobs, checks the cache once and posts a
// startup notice to Slack. gocron's Start does not block.
func (app *application) start(ctx context.Context) {
	app.scheduler.Start()

	if err := app.scheduler.RunJobByName(cron.CacheHealthJob); err != nil {
		app.logger.Warnw("initial cache health check failed", "error", err)
	}

	notice := fmt.Sprintf("edu-connect API %s started in %s mode", version, app.config.env)
	if err := app.slackNotifier.SendNotification(ctx, notice); err != nil {
		app.logger.Warnw("startup notice failed", "error", err)
	}
}

func (app *application) run(mux http.Handler) error {
	server := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		app.logger.Infow("signals caught", "signal", s.String())

		shutdown <- server.Shutdown(ctx)
	}()

	app.logger.Infow("Server has started", "addr", app.config.addr, "env", app.config.env)

	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Infow("Server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
