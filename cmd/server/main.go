package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Desorr/dropshipping-store/internal/config"
	"github.com/Desorr/dropshipping-store/internal/es"
	"github.com/Desorr/dropshipping-store/internal/httpserver"
	"github.com/Desorr/dropshipping-store/internal/logging"
	"github.com/Desorr/dropshipping-store/internal/mykafka"
	"github.com/Desorr/dropshipping-store/internal/repo"
	"github.com/Desorr/dropshipping-store/internal/service"
	"github.com/Desorr/dropshipping-store/internal/telegram"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Printf("elasticsearch unavailable, search disabled: %v", err)
		esClient = nil
	}

	tg := telegram.NewClient(configuration.TELEGRAM_BOT_TOKEN, configuration.TELEGRAM_CHAT_ID)

	shopRepo := repo.NewGormRepo(db)
	tokens := &service.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Logger())

	renderer, err := httpserver.NewRenderer("web/templates/*.html")
	if err != nil {
		log.Fatalf("template parse error: %v", err)
	}
	e.Renderer = renderer

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &httpserver.AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		CartHandler:    &httpserver.CartHandler{Shop: &service.ShopService{Repo: shopRepo}, Producer: prod},
		BalanceHandler: &httpserver.BalanceHandler{Balance: &service.BalanceService{Repo: shopRepo}, Producer: prod},
		ProductHandler: &httpserver.ProductHandler{DB: db, ES: esClient, Index: "product", Producer: prod},
		SearchHandler:  &httpserver.SearchHandler{ES: esClient, Index: "product"},
		PageHandler:    &httpserver.PageHandler{Telegram: tg},
		ServiceHandler: tokens,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
