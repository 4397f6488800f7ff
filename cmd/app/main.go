package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	dbadapter "travelhub/internal/adapters/database"
	"travelhub/internal/adapters/httpapi"
	"travelhub/internal/adapters/rabbitmq"
	redisadapter "travelhub/internal/adapters/redis"
	"travelhub/internal/config"
	planapp "travelhub/internal/core/plan/service"
	postapp "travelhub/internal/core/post/service"
	reservationapp "travelhub/internal/core/reservation/service"
	userapp "travelhub/internal/core/user/service"
	postPort "travelhub/internal/ports/post"
	reservationPort "travelhub/internal/ports/reservation"
	"travelhub/internal/workers"

	"go.uber.org/zap"
)

func main() {
	config.InitLogger()
	config.Init() // بارگذاری تنظیمات از .env

	config.InitDB()
	if err := dbadapter.Migrate(config.DB); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("Database migrations completed")

	config.InitRedis()
	defer closeResources(config.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	userRepo := dbadapter.NewUserRepositoryDatabase(config.DB)
	planRepo := dbadapter.NewPlanRepositoryDatabase(config.DB)
	postRepo := dbadapter.NewPostRepositoryDatabase(config.DB)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(config.DB)
	reservationRepo := dbadapter.NewReservationRepositoryDatabase(config.DB)
	paymentRepo := dbadapter.NewPaymentRepositoryDatabase(config.DB)

	// بدون Redis بازدیدها مستقیم در دیتابیس ثبت می‌شوند
	var viewCounter postPort.ViewCounter
	if config.RedisClient != nil {
		viewCounter = redisadapter.NewViewCounterRedis(config.RedisClient)
	}

	var publisher reservationPort.EventPublisher = rabbitmq.NoopPublisher{}
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		publisher = rabbitmq.NewStatusPublisherRabbit(url, config.Logger)
	} else {
		config.Logger.Warn("RABBITMQ_URL not set, reservation events are dropped")
	}

	userSvc := userapp.NewUserService(userRepo, jwtSecret, config.Logger)
	planSvc := planapp.NewPlanService(planRepo, config.Logger)
	postSvc := postapp.NewPostService(postRepo, commentRepo, viewCounter, config.Logger)
	reservationSvc := reservationapp.NewReservationService(reservationRepo, paymentRepo, publisher, config.Logger)

	if name, pass := os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD"); name != "" && pass != "" {
		if err := userSvc.EnsureStaff(ctx, name, pass); err != nil {
			config.Logger.Fatal("Could not create staff user", zap.Error(err))
		}
	}

	if viewCounter != nil {
		flushWorker := workers.NewViewFlushWorker(
			viewCounter,
			postRepo,
			config.GetenvInt("VIEW_FLUSH_BATCH", 500),
			config.GetenvDuration("VIEW_FLUSH_INTERVAL", config.DefaultViewFlushInterval),
			config.Logger,
		)
		go flushWorker.Run(ctx)
	}

	r, err := httpapi.SetupRoutes(config.DB, userSvc, planSvc, postSvc, reservationSvc, jwtSecret, config.Logger)
	if err != nil {
		config.Logger.Fatal("Admin setup failed", zap.Error(err))
	}

	config.Logger.Info("App is running...", zap.String("port", config.Getenv("APP_PORT", "8080")))
	if err := r.Run(":" + config.Getenv("APP_PORT", "8080")); err != nil {
		config.Logger.Fatal("Server failed to start", zap.Error(err))
	}
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeResources(logger *zap.Logger) {
	if config.RedisClient != nil {
		if err := config.RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
	_ = logger.Sync()
}
