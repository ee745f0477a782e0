package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"docuquery/internal/config"
	"docuquery/internal/embedding"
	"docuquery/internal/llm"
	"docuquery/internal/rag/extractors"
	"docuquery/internal/rag/tokenizer"
	"docuquery/internal/ragservice/api"
	"docuquery/internal/ragservice/service"
	"docuquery/pkg/logger"
)

func main() {
	// 1. Load Configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New(cfg.App.Name, "")
	appLogger.Info("Starting RAG service...")

	if cfg.OpenAI.APIKey == "" {
		appLogger.Fatal("OpenAI API key is not set (config openai.apiKey or OPENAI_API_KEY)")
	}

	// 3. Initialize Dependencies
	counter, err := tokenizer.New()
	if err != nil {
		appLogger.Fatal("Failed to initialize tokenizer: " + err.Error())
	}

	embedder := embedding.NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	chatModel := llm.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)
	processor := extractors.NewFileProcessor()

	// 4. Create the RAG Service and Router
	svc := service.New(cfg.Chunking, appLogger, processor, counter, embedder, chatModel)

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(svc, appLogger, cfg.Upload.Dir)
	router := api.SetupRouter(handler, appLogger)

	// 5. Start the HTTP Server
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		appLogger.Info("HTTP server listening at " + cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown: " + err.Error())
	}

	appLogger.Info("Server gracefully stopped")
}
