// Command checkout publishes an asset.checked.out event, standing in for
// the lifecycle service during local development and smoke testing.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/Pissaia92/assetforge-plataform/internal/config"
	"github.com/Pissaia92/assetforge-plataform/internal/events"
	"github.com/Pissaia92/assetforge-plataform/pkg/logger"
)

func main() {
	assetID := flag.Int64("asset", 0, "id of the asset being checked out")
	employeeID := flag.String("employee", "", "employee identifier receiving the asset")
	flag.Parse()

	cfg := config.Load()
	log := logger.New("checkout-cli", cfg.LogLevel)
	defer log.Sync()

	publisher, err := events.NewPublisher(cfg.RabbitMQURL, log)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := publisher.PublishCheckout(ctx, *assetID, *employeeID); err != nil {
		log.Fatal("failed to publish checkout event", zap.Error(err))
	}
}
