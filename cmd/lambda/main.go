package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"slack_gateway/internal/config"
	"slack_gateway/internal/handler"
	"slack_gateway/internal/logger"
	"slack_gateway/internal/notify"
	slackclient "slack_gateway/internal/service/slack"
	"slack_gateway/internal/storage"
)

var ginLambda *ginadapter.GinLambda

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}

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

	ginLambda = ginadapter.New(h.Router())
	lambda.Start(handleRequest)
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
