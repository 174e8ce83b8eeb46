package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"slack_gateway/internal/config"
	"slack_gateway/internal/handler"
	"slack_gateway/internal/logger"
	"slack_gateway/internal/notify"
	slackclient "slack_gateway/internal/service/slack"
	"slack_gateway/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	h, err := buildHandler(cfg)
	if err != nil {
		log.Fatalf("Failed to build slack handler: %v", err)
	}
	defer h.Drain()

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	fmt.Printf("Starting slack gateway on %s...\n", addr)
	if err := h.Router().Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func buildHandler(cfg *config.Config) (*handler.SlackHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := slackclient.New(cfg.SlackBotToken, cfg.SlackDefaultChannel, cfg.SlackAdminID, logger.Named("slack"))
	if err := client.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("failed to bootstrap slack client: %v", err)
	}

	opts := handler.Options{Config: cfg, Client: client}

	if cfg.ArchiveBucketName != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %v", err)
		}
		opts.Archive = storage.NewS3ArchiveStore(s3.NewFromConfig(awsCfg), cfg.ArchiveBucketName)
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic != "" {
		opts.Notifier = notify.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger.Named("notify"))
	}

	return handler.NewSlackHandler(opts)
}
