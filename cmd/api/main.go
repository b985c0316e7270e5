package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartcare-backend/internal/chat"
	"smartcare-backend/internal/config"
	"smartcare-backend/internal/handlers"
	"smartcare-backend/internal/logger"
	"smartcare-backend/internal/middleware"
	"smartcare-backend/internal/notify"
	"smartcare-backend/internal/routes"
	"smartcare-backend/internal/services"
	"smartcare-backend/internal/worktimer"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.Env)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.SetTokenSecret(cfg.JWTSecret)
	utils.SetTokenTTL(cfg.TokenTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect DB
	if err := config.ConnectDB(cfg.DBDSN); err != nil {
		logger.Log.Fatalf("database: %v", err)
	}

	// 3. Notifikasi keluar (opsional)
	var pusher notify.Pusher = notify.Nop{}
	if cfg.FirebaseCredentials != "" {
		fcm, err := notify.NewFCM(ctx, cfg.FirebaseCredentials)
		if err != nil {
			logger.Log.WithError(err).Warn("FCM tidak aktif")
		} else {
			pusher = fcm
		}
	}
	var alerter notify.AdminAlerter = notify.Nop{}
	if cfg.TelegramBotToken != "" && cfg.TelegramAdminChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramAdminChatID)
		if err != nil {
			logger.Log.WithError(err).Warn("alert Telegram tidak aktif")
		} else {
			alerter = tg
		}
	}
	var snapClient services.SnapCreator
	if cfg.MidtransServerKey != "" {
		snapClient = services.NewSnapClient(cfg.MidtransServerKey, cfg.MidtransEnv)
	}

	// 4. Timer kerja & hub chat
	clock := worktimer.New(cfg.WorkClockTick)
	go clock.Run(ctx)

	hub := chat.NewHub()
	go hub.Run(ctx)

	var bus chat.Broadcaster = hub
	if cfg.RedisAddr != "" {
		if err := config.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
			logger.Log.WithError(err).Warn("Redis tidak tersedia, chat hanya di instance ini")
		} else {
			relay := chat.NewRedisRelay(config.Redis, hub)
			bus = relay
			go func() {
				if err := relay.Run(ctx); err != nil {
					logger.Log.WithError(err).Error("relay chat berhenti")
				}
			}()
		}
	}

	// 5. Service & Handler
	orderSvc := services.NewOrderService(config.DB, clock, cfg.CommissionRate, cfg.OrderFeedLimit)
	topupSvc := services.NewTopupService(config.DB, snapClient, pusher, alerter, cfg.MinTopupAmount)
	chatSvc := chat.NewService(config.DB, bus, pusher, cfg.ChatHistoryLimit)

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx)

	// 6. Init Router + Middleware Global
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(limiter))

	routes.SetupRoutes(r, routes.Deps{
		Orders:            handlers.NewOrderHandler(orderSvc, cfg.InvoiceSendDelay),
		Chat:              handlers.NewChatHandler(chatSvc, hub, cfg.AllowedOrigins),
		Topups:            handlers.NewTopupHandler(topupSvc),
		Wallet:            handlers.NewWalletHandler(services.NewEarningsService(config.DB)),
		Payments:          handlers.NewPaymentHandler(topupSvc, cfg.MidtransServerKey),
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	// 7. Run Server + graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Infof("Server berjalan di port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Mematikan server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("shutdown tidak bersih")
	}
	if config.Redis != nil {
		_ = config.Redis.Close()
	}
}
