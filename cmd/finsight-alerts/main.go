// Command finsight-alerts consumes spending alert messages from RabbitMQ
// and writes them to the log. It is the reference consumer: anything that
// should react to alerts (a notifier, a bot) follows the same shape.
package main

import (
	"os"
	"time"

	"finsight/internal/amqp"
	"finsight/internal/cli"
	"finsight/internal/log"
)

func main() {
	cfg, logger := cli.Bootstrap(os.Stdout)

	logger.Info("Starting finsight-alerts")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to consume spending alerts")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err)
		}
	})

	if err := client.Connect(ctx); err != nil {
		logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Connected to AMQP broker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	// Consume in the main goroutine until shutdown. A nil ctx.Err means
	// the broker failed while we still wanted to run.
	err = client.ConsumeSpendingAlerts(ctx, func(msg *amqp.SpendingAlertMessage) error {
		logger.Info("Spending alert",
			log.FieldWorkspace, msg.WorkspaceID.String(),
			log.FieldMonth, msg.Month,
			log.FieldAlertKind, msg.Kind,
			log.FieldCategory, msg.Category,
			log.FieldAmount, msg.Amount.StringFixed(2),
			"message", msg.Message)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Alert consumption failed", log.FieldError, err)
		_ = client.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}
