package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"shorturl-go/internal/cache"
	"shorturl-go/internal/handler"
	"shorturl-go/internal/i18n"
	"shorturl-go/internal/middleware"
	"shorturl-go/internal/remotelog"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/service"
	"shorturl-go/internal/store"
	"shorturl-go/pkg/logging"
	"shorturl-go/response"
)

func initConfig() {
	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s/config.yaml", wd)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

func buildStore() store.URLStore {
	driver := viper.GetString("store.driver")
	if driver == "memory" {
		logging.Logger.Warn("Using in-memory store, records are lost on restart")
		return store.NewMemoryStore()
	}

	repository.InitDB(logging.Logger, logging.AtomicLevel)
	return store.NewGormStore(repository.DB)
}

func startServer(r *gin.Engine) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("Server exiting")
}

func main() {
	initConfig()
	logging.InitLoggerFromConfig()
	logging.Logger.Info("Application started")

	urlStore := buildStore()

	var recordCache *cache.Cache
	if viper.GetString("redis.addr") != "" {
		repository.InitRedis()
		recordCache = cache.New(repository.RedisPool)
	}

	rlog := remotelog.NewFromConfig()

	gen := service.NewGenerator(viper.GetInt("shorturl.code_length"))
	shortener := service.NewShortenerService(
		urlStore,
		gen,
		rlog,
		viper.GetString("server.base_url"),
		viper.GetInt("shorturl.default_validity_minutes"),
	)
	redirect := service.NewRedirectService(urlStore, recordCache, rlog)
	h := handler.NewShortURLHandler(shortener, redirect)

	bundle, err := i18n.InitI18n([]string{
		"./i18n/en.toml",
		"./i18n/zh.toml",
	}, "en")
	if err != nil {
		panic(err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(bundle))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OK(struct{}{}, "ok"))
	})
	r.POST("/shorturls", h.Create)
	r.GET("/shorturls/:shortcode", h.Stats)

	// Redirects take every other GET path, so /:shortcode never has to be
	// registered next to the static /shorturls routes.
	r.NoRoute(h.RedirectFallback)

	// Daily stats only make sense with both backing services present.
	if repository.DB != nil && recordCache != nil {
		c := cron.New()
		_, addErr := c.AddFunc("*/10 * * * *", func() {
			if err := service.FlushDailyStats(repository.DB, recordCache); err != nil {
				logging.Logger.Error("Failed to flush daily stats via cron job", zap.Error(err))
			}
		})
		if addErr != nil {
			logging.Logger.Fatal("Failed to schedule cron job", zap.Error(addErr))
		}
		c.Start()
	}

	startServer(r)
}
