package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"go.uber.org/zap"

	"paudku_backend/internals/configs"
	database "paudku_backend/internals/databases"
	dashRepo "paudku_backend/internals/features/finance/dashboard/repository"
	dashRoute "paudku_backend/internals/features/finance/dashboard/route"
	"paudku_backend/internals/features/finance/dashboard/scheduler"
	helperOSS "paudku_backend/internals/helpers/oss"
	middlewares "paudku_backend/internals/middlewares"
	"paudku_backend/internals/middlewares/logger"
	"paudku_backend/internals/realtime"
	routes "paudku_backend/internals/route"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	zlog := configs.NewLogger(cfg.Server.Mode)
	defer func() { _ = zlog.Sync() }()

	// 🔌 DB connect + pool + warm-up + migrate
	db, err := database.ConnectDB(cfg.DSN(), configs.NewGormLogger(zlog, cfg.Server.Mode))
	if err != nil {
		zlog.Fatal("db", zap.Error(err))
	}
	database.TunePool(db)
	database.WarmUpQueries(db)
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	// 📡 realtime: pg_notify → LISTEN → hub → SSE
	hub := realtime.NewHub()
	listenCtx, stopListen := context.WithCancel(context.Background())
	go func() {
		if err := hub.Listen(listenCtx, cfg.DSN()); err != nil {
			zlog.Error("realtime listener stopped", zap.Error(err))
		}
	}()

	blob, err := helperOSS.NewBlobService(helperOSS.Options{
		Endpoint:      cfg.OSS.Endpoint,
		AccessKey:     cfg.OSS.AccessKey,
		SecretKey:     cfg.OSS.SecretKey,
		SecurityToken: cfg.OSS.SecurityToken,
		Bucket:        cfg.OSS.Bucket,
		PublicBase:    cfg.OSS.PublicBase,
		Prefix:        cfg.OSS.Prefix,
	})
	if err != nil {
		zlog.Warn("OSS tidak tersedia, upload foto dimatikan", zap.Error(err))
		blob = helperOSS.DisabledBlobService{}
	}

	// ⏱ scheduler setelah DB siap
	snapshotter := scheduler.NewSnapshotter(dashRoute.NewService(db), dashRepo.NewSnapshotRepository(db), cfg.Location())
	snapshotCron, err := scheduler.StartCashboxSnapshotCron(snapshotter, cfg.Finance.CashboxSnapshotCron)
	if err != nil {
		zlog.Fatal("cashbox snapshot cron", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		BodyLimit:               6 * 1024 * 1024,
	})

	// SSE tidak boleh di-buffer oleh compress/etag
	isLive := func(c *fiber.Ctx) bool { return strings.Contains(c.Path(), "/live/") }

	// ⚙️ middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(compress.New(compress.Config{Next: isLive, Level: compress.LevelDefault}))
	app.Use(etag.New(etag.Config{Next: isLive}))

	// 🔎 Request-ID + timeout guard (selaras dengan statement_timeout di DB)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	app.Use(middlewares.CorsMiddleware(cfg.Server.CORSOrigins))
	app.Use(logger.LoggerMiddleware(cfg.Server.Timezone))
	app.Use(middlewares.GlobalRateLimiter())

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:         db,
		JWTSecret:  cfg.JWTSecret,
		Notifier:   realtime.PgNotifier{DB: db},
		Hub:        hub,
		Blob:       blob,
		Location:   cfg.Location(),
		FeePercent: cfg.Finance.AdminFeePercent,
		PerHead:    cfg.Finance.AttendanceFeePerHead,
	})

	// 🔒 Keep-Alive & timeout koneksi server (WriteTimeout 0: stream SSE berumur panjang)
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		zlog.Info("✅ Listening", zap.String("port", cfg.Server.Port))
		if err := app.Listen("0.0.0.0:" + cfg.Server.Port); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown: stream SSE → listener → cron → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down...")

	hub.Close()
	stopListen()
	<-snapshotCron.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		zlog.Warn("shutdown", zap.Error(err))
	}
	database.Close(db)
}
