package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hychen-tw/mombot/internal/api/router"
	"github.com/hychen-tw/mombot/internal/bot"
	appconfig "github.com/hychen-tw/mombot/internal/config"
	"github.com/hychen-tw/mombot/internal/line"
	"github.com/hychen-tw/mombot/internal/llm"
	"github.com/hychen-tw/mombot/internal/observability/metrics"
	"github.com/hychen-tw/mombot/internal/session"
	"github.com/hychen-tw/mombot/internal/weather"
	"github.com/hychen-tw/mombot/pkg/logging"
)

func main() {
	// .env is a local convenience; deployments supply real process env.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting mombot server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	reg := prometheus.NewRegistry()
	botMetrics := metrics.NewBotMetrics(reg)

	weatherClient, err := weather.NewClient(weather.Config{
		APIKey:  cfg.OpenWeatherAPIKey,
		Timeout: cfg.WeatherTimeout,
		Logger:  logger.Component("weather"),
	})
	if err != nil {
		logger.Error("failed to create weather client", "error", err)
		os.Exit(1)
	}
	reporter := weather.NewReporter(weatherClient, logger.Component("weather"))

	chatClient := llm.New(openai.NewClient(cfg.OpenAIAPIKey), llm.Config{
		ChatModel:   cfg.OpenAIChatModel,
		VisionModel: cfg.OpenAIVisionModel,
		MaxTokens:   cfg.ReplyMaxTokens,
		Logger:      logger.Component("llm"),
	})

	sessions := session.NewMemoryStore(cfg.SessionTTL)

	dispatcher := bot.New(bot.Config{
		Sessions: sessions,
		Chat:     chatClient,
		Weather:  reporter,
		Metrics:  botMetrics,
		Logger:   logger.Component("dispatcher"),
	})

	messagingClient, err := messaging_api.NewMessagingApiAPI(cfg.LineChannelAccessToken)
	if err != nil {
		logger.Error("failed to create line messaging client", "error", err)
		os.Exit(1)
	}
	blobClient, err := line.NewBlobClient(cfg.LineChannelAccessToken)
	if err != nil {
		logger.Error("failed to create line blob client", "error", err)
		os.Exit(1)
	}

	webhookHandler := line.NewWebhookHandler(line.WebhookConfig{
		ChannelSecret: cfg.LineChannelSecret,
		Client:        messagingClient,
		Blobs:         blobClient,
		Dispatcher:    dispatcher,
		Metrics:       botMetrics,
		Logger:        logger.Component("webhook"),
	})

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        webhookHandler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
