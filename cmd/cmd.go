package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apod-bot/internal/apod"
	"apod-bot/internal/config"
	"apod-bot/internal/dates"
	"apod-bot/internal/handlers"
	"apod-bot/internal/repository"
	"apod-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database connection established")

	calendar, err := dates.NewCalendar(cfg.Feed.EarliestDate, cfg.Feed.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up feed calendar")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	// Initialize services
	apodClient := apod.NewClient(apod.Config{
		BaseURL: cfg.APOD.BaseURL,
		APIKey:  cfg.APOD.APIKey,
		Timeout: cfg.APOD.Timeout,
	})
	userService := services.NewUserService(userRepo, cfg.Admin.UserID, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	favoriteService := services.NewFavoriteService(favoriteRepo)
	pictureService := services.NewPictureService(
		apodClient,
		services.NewCaptionFormatter(cfg.Feed.CaptionLimit),
		cfg.APOD.FallbackImageURL,
	)
	navigator := services.NewNavigator(userService, favoriteService, pictureService, calendar)

	// Connect to Telegram
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}
	log.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")

	telegramHandler := handlers.NewTelegramHandler(bot, navigator, userService, cfg.APOD.Timeout+10*time.Second)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.PollTimeout
	updates := bot.GetUpdatesChan(u)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().Msg("Polling for updates")
		telegramHandler.Run(ctx, updates)
	}()

	// Admin API is optional
	var srv *http.Server
	if cfg.Server.Port != 0 {
		userHandler := handlers.NewUserHandler(userService, favoriteService)
		srv = &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      handlers.NewRouter(userHandler, userService, db),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			log.Info().
				Str("host", cfg.Server.Host).
				Int("port", cfg.Server.Port).
				Msg("Starting admin server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Admin server failed to start")
			}
		}()
	}

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	bot.StopReceivingUpdates()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Admin server forced to shutdown")
		}
	}

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Update handler did not stop in time")
	}

	log.Info().Msg("Bot exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
