package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"practice-backend/internal/content"
	"practice-backend/internal/notify"
	"practice-backend/internal/queue"
	"practice-backend/internal/referrals"
	"practice-backend/internal/shared/cache"
	"practice-backend/internal/shared/config"
	"practice-backend/internal/shared/server"
	"practice-backend/internal/shared/server/middleware"
	"practice-backend/internal/shared/storage/db"
	"practice-backend/internal/shared/storage/object"
	localstore "practice-backend/internal/shared/storage/object/local"
	s3store "practice-backend/internal/shared/storage/object/s3"
	"practice-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Redis  *redis.Client
	Sender notify.Sender
	Queue  queue.Client

	ReferralRepo    referrals.Repo
	ContentRepo     content.Repo
	ReferralService *referrals.Service
	ContentService  *content.Service
	ReferralHandler *referrals.Handler
	ContentHandler  *content.Handler
}

// Build prepares dependencies from cfg and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sender, err := buildSender(cfg)
	if err != nil {
		return nil, err
	}

	notifyQueue, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Redis:  buildRedis(ctx, cfg),
		Sender: sender,
		Queue:  notifyQueue,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		ReferralHandler: app.ReferralHandler,
		ContentHandler:  app.ContentHandler,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildStore returns a nil store when S3 is selected without a bucket so the
// intake reports the missing configuration per request.
func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			telemetry.Warn("bootstrap.store.unconfigured", map[string]any{"reason": "S3_BUCKET empty"})
			return nil, nil
		}
		store, err := s3store.New(ctx, s3store.Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			KMSKeyID:        cfg.SSEKMSKeyID,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL, cfg.LocalSigningKey), nil
	}
}

// buildSender picks the notification provider. A nil sender disables e-mail.
func buildSender(cfg config.Config) (notify.Sender, error) {
	switch cfg.EmailProvider {
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, nil
		}
		sender, err := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, nil
		}
		sender, err := notify.NewResendSender(cfg.ResendAPIKey)
		if err != nil {
			return nil, err
		}
		return sender, nil
	default:
		return nil, nil
	}
}

// buildQueue returns nil when notifications are sent inline.
func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.NotifyQueueURL) == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx, cfg.NotifyQueueURL, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil
	}
	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		telemetry.Warn("bootstrap.redis.disabled", map[string]any{"error": err})
		return nil
	}
	return client
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.ReferralRepo = &referrals.PGRepo{DB: app.DB}
		app.ContentRepo = &content.PGRepo{DB: app.DB}
	} else {
		app.ReferralRepo = referrals.NewMemoryRepo()
		app.ContentRepo = content.NewMemoryRepo()
	}

	var contentCache content.Cache
	if app.Redis != nil {
		contentCache = &content.RedisCache{Client: app.Redis}
	}
	contentSvc, err := content.NewService(app.ContentRepo, contentCache, app.Config.ContentCacheTTL)
	if err != nil {
		return err
	}

	app.ReferralService = &referrals.Service{
		Store:     app.Store,
		Repo:      app.ReferralRepo,
		Queue:     app.Queue,
		Sender:    app.Sender,
		From:      app.Config.EmailFrom,
		Recipient: app.Config.DoctorEmail,
	}
	app.ContentService = contentSvc

	var files referrals.SignedFiles
	if ls, ok := app.Store.(*localstore.Store); ok && app.Config.LocalSigningKey != "" {
		files = ls
	}
	app.ReferralHandler = referrals.NewHandler(app.ReferralService, files)
	app.ContentHandler = content.NewHandler(contentSvc)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
