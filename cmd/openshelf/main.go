package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/pkg/accounts"
	"github.com/openshelf/openshelf/pkg/api"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/catalog"
	"github.com/openshelf/openshelf/pkg/config"
	"github.com/openshelf/openshelf/pkg/mailer"
	"github.com/openshelf/openshelf/pkg/middleware"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
	"github.com/openshelf/openshelf/pkg/store/memory"
	storemongo "github.com/openshelf/openshelf/pkg/store/mongo"
	"github.com/openshelf/openshelf/pkg/uploads"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "openshelf: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stores: MongoDB when configured, in-memory otherwise.
	var (
		stores      *store.Stores
		mongoClient *mongodriver.Client
	)
	if cfg.Mongo.URI != "" {
		mongoClient, err = storemongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return fmt.Errorf("connecting to mongodb: %w", err)
		}
		db := mongoClient.Database(cfg.Mongo.Database)
		if err := storemongo.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensuring indexes: %w", err)
		}
		stores = storemongo.NewStores(db, metrics)
		logger.WithField("database", cfg.Mongo.Database).Info("using MongoDB stores")
	} else {
		stores = memory.NewStores()
		logger.Warn("no OPENSHELF_MONGO_URI set, using in-memory stores (dev mode)")
	}

	if err := config.SeedRoles(ctx, stores.Roles, cfg.Auth.RolesFile); err != nil {
		return fmt.Errorf("seeding roles: %w", err)
	}

	// Token service. Dev mode without a configured secret gets an
	// ephemeral one, so every restart invalidates outstanding tokens.
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generating ephemeral secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(buf))
		logger.Warn("no OPENSHELF_JWT_SECRET set, using an ephemeral signing secret")
	}
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:     secret,
		SessionTTL: cfg.Auth.SessionTTL,
		ResetTTL:   cfg.Auth.ResetTTL,
	})
	if err != nil {
		return err
	}

	// Mailer: SMTP relay when configured, log-only otherwise.
	var mail mailer.Mailer
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		mail = mailer.NewLogMailer(logger)
		logger.Warn("no OPENSHELF_SMTP_HOST set, reset emails will be logged only")
	}

	// Upload backend: S3 when a bucket is configured, local dir otherwise.
	var objectStore uploads.ObjectStore
	if cfg.Uploads.S3.Bucket != "" {
		s3Store, err := uploads.NewS3Store(ctx, cfg.Uploads.S3)
		if err != nil {
			return fmt.Errorf("initializing s3 store: %w", err)
		}
		objectStore = s3Store
		logger.WithField("bucket", cfg.Uploads.S3.Bucket).Info("using S3 upload store")
	} else {
		fsStore, err := uploads.NewFilesystemStore(cfg.Uploads.LocalDir)
		if err != nil {
			return fmt.Errorf("initializing filesystem store: %w", err)
		}
		objectStore = fsStore
		logger.WithField("dir", cfg.Uploads.LocalDir).Info("using filesystem upload store")
	}

	// Rate limiter for the credential endpoints: Redis-backed when
	// available so the budget is shared across replicas.
	var redisClient *redis.Client
	limitCfg := &middleware.RateLimitConfig{
		RequestsPerWindow: cfg.Auth.LoginRateLimit,
		WindowDuration:    cfg.Auth.LoginRateWindow,
	}
	var loginLimiter func(http.Handler) http.Handler
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loginLimiter = middleware.NewDistributedRateLimiter(redisClient, limitCfg, "login", logger).Handler
	} else {
		loginLimiter = middleware.NewRateLimiter(limitCfg).Handler
	}

	accountsSvc := accounts.NewService(stores.Users, auth.NewPasswordHasher(), tokens, mail,
		cfg.Server.PublicBaseURL, logger, metrics)
	catalogSvc := catalog.NewService(stores.Posts, stores.Authors, stores.Books)
	uploadsSvc := uploads.NewService(objectStore, cfg.Server.PublicBaseURL)

	server := api.NewServer(api.Config{
		Accounts:     accountsSvc,
		Catalog:      catalogSvc,
		Uploads:      uploadsSvc,
		Auth:         middleware.NewAuthMiddleware(tokens, logger, metrics),
		Authorizer:   middleware.NewAuthorizer(stores.Users, stores.Roles, cfg.Auth.RoleCacheTTL, logger),
		LoginLimiter: loginLimiter,
		Logger:       logger,
		Metrics:      metrics,
	})

	cleanup := accounts.NewCleanupJob(stores.Users, logger)
	if err := cleanup.Start("@hourly"); err != nil {
		return fmt.Errorf("starting reset token cleanup: %w", err)
	}

	// Health and metrics on a separate port for k8s probes.
	health := observability.NewHealthChecker(mongoClient, redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}
	go func() {
		logger.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("health server failed")
		}
	}()

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, apiServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		cleanup.Stop()
		return nil
	})
	if mongoClient != nil {
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
			return mongoClient.Disconnect(ctx)
		})
	}
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	go func() {
		logger.WithField("addr", apiServer.Addr).Info("api server listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("api server failed")
			os.Exit(1)
		}
	}()

	return shutdown.WaitForShutdown()
}
