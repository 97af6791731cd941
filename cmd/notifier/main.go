// Command notifier is the Lambda entrypoint for the orders-table stream.
// It writes a notification record each time an order transitions to packed.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/promodeagro/packer-cli/notify"
	"github.com/promodeagro/packer-cli/store"
	"github.com/promodeagro/packer-cli/stream"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	awscfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("load aws config", "error", err)
		os.Exit(1)
	}

	cfg := store.DefaultConfig()
	if v := os.Getenv("PACKER_NOTIFICATIONS_TABLE"); v != "" {
		cfg.NotificationsTable = v
	}

	notifications := notify.NewService(store.New(dynamodb.NewFromConfig(awscfg), cfg), cfg)
	handler := stream.NewHandler(notifications, logger)
	lambda.Start(handler.HandleOrderPacked)
}
