package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"concierge-bot/docs"
	"concierge-bot/internal/bot"
	"concierge-bot/internal/bot/session"
	"concierge-bot/internal/common/cache"
	"concierge-bot/internal/common/config"
	"concierge-bot/internal/common/logger"
	"concierge-bot/internal/common/middleware"
	adminhttp "concierge-bot/internal/features/admin/delivery/http"
	adminsvc "concierge-bot/internal/features/admin/service"
	cataloghttp "concierge-bot/internal/features/catalog/delivery/http"
	catalogmodels "concierge-bot/internal/features/catalog/models"
	catalogrepo "concierge-bot/internal/features/catalog/repository/postgres"
	catalogsvc "concierge-bot/internal/features/catalog/service"
	notificationsvc "concierge-bot/internal/features/notification/service"
	orderrepo "concierge-bot/internal/features/order/repository/postgres"
	ordersvc "concierge-bot/internal/features/order/service"
	userhttp "concierge-bot/internal/features/user/delivery/http"
	userrepo "concierge-bot/internal/features/user/repository/postgres"
	usersvc "concierge-bot/internal/features/user/service"
	workflowhttp "concierge-bot/internal/features/workflow/delivery/http"
	workflowsvc "concierge-bot/internal/features/workflow/service"
	"concierge-bot/internal/platform/database"
	"concierge-bot/internal/platform/redis"
	"concierge-bot/internal/platform/telegram"
)

// положительная проверка подписки живёт недолго: отписку надо заметить
const membershipTTL = 10 * time.Minute

// @title           Concierge Bot API
// @version         1.0
// @description     HTTP facade of the concierge ordering bot for the Telegram Mini App. All endpoints require init_data authentication.

// @contact.name   Support

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for authentication

// @tag.name users
// @tag.description Current user profile

// @tag.name catalog
// @tag.description Service categories and items

// @tag.name orders
// @tag.description Submitting requests and tracking own orders

// @tag.name admin
// @tag.description Order moderation and user roles

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.ServiceName, cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting concierge bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// База данных
	dbClient, err := database.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbClient.Close()

	// Redis необязателен: без него сессии хранятся в памяти процесса
	var (
		redisClient  *redis.Client
		cacheService *cache.CacheService
		sessions     session.Store
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.Open(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		cacheService = cache.NewCacheService(redisClient, cfg.ServiceName)
		sessions = session.NewRedisStore(cacheService, cfg.Redis.SessionTTL)
	} else {
		logger.Warn().Msg("REDIS_ADDR is empty, sessions are kept in memory")
		sessions = session.NewMemoryStore(cfg.Redis.SessionTTL)
	}

	adminIDs, err := cfg.AdminTelegramIDs()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid admin IDs")
	}

	// Репозитории и сервисы
	users := usersvc.NewUserService(userrepo.NewRepository(dbClient.DB()), adminIDs)
	catalog := catalogsvc.NewCatalogService(catalogrepo.NewRepository(dbClient.DB()))
	ledger := ordersvc.NewLedger(orderrepo.NewRepository(dbClient.DB()))

	if err := catalog.Seed(ctx, catalogmodels.DefaultCatalog); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed catalog")
	}
	if err := users.EnsureBootstrapAdmin(ctx, cfg.Telegram.BootstrapAdminID); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bootstrap admin")
	}

	// Telegram
	tg, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}
	renderer := bot.NewRenderer(tg.API())
	notifier := notificationsvc.NewService(users, renderer)

	var (
		workflowOpts []workflowsvc.Option
		handlerOpts  = []bot.Option{bot.WithSupport(cfg.Telegram.SupportUsername)}
	)
	if cfg.Telegram.RequiredChannel != "" {
		membership := telegram.NewMembership(tg.API(), cfg.Telegram.RequiredChannel, cacheService, membershipTTL)
		workflowOpts = append(workflowOpts, workflowsvc.WithMembershipGate(membership))
		joinURL := cfg.Telegram.ChannelInviteURL
		if joinURL == "" {
			joinURL = membership.JoinURL()
		}
		if joinURL == "" {
			logger.Warn().Msg("REQUIRED_CHANNEL is numeric and CHANNEL_INVITE_URL is empty, join button is hidden")
		}
		handlerOpts = append(handlerOpts, bot.WithJoinURL(joinURL))
		logger.Info().Str("channel", cfg.Telegram.RequiredChannel).Msg("Channel membership gate enabled")
	}

	workflow := workflowsvc.NewService(users, catalog, ledger, notifier, workflowOpts...)
	admin := adminsvc.NewService(users, catalog, ledger)
	handler := bot.NewHandler(users, workflow, admin, sessions, handlerOpts...)

	// HTTP
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data"}
	router.Use(cors.New(corsConfig))

	docs.SwaggerInfo.Host = ""
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   cfg.ServiceName,
			"bot":       tg.Username(),
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := dbClient.HealthCheck(rctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "database unavailable", "details": err.Error()})
			return
		}
		if redisClient != nil {
			if err := redisClient.HealthCheck(rctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "redis unavailable", "details": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now().UTC()})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramInitData(cfg.Telegram.BotToken, cfg.Server.InitDataTTL))
	v1.Use(middleware.ResolveUser(users))
	userhttp.NewUserHandler(users).RegisterRoutes(v1)
	cataloghttp.NewCatalogHandler(catalog).RegisterRoutes(v1)
	workflowhttp.NewWorkflowHandler(workflow).RegisterRoutes(v1)
	adminhttp.NewAdminHandler(admin).RegisterRoutes(v1)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		logger.Info().Str("username", tg.Username()).Msg("Starting update polling")
		bot.New(renderer, handler).Run(ctx, tg.Updates(cfg.Telegram.PollTimeout))
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	tg.StopUpdates()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	wg.Wait()

	logger.Info().Msg("Server exited")
}
