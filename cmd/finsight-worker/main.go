// Command finsight-worker runs the spending analysis on a schedule,
// publishes alert messages to RabbitMQ and appends report snapshots to a
// Google Sheets spreadsheet. Both destinations are optional; without
// them the worker still runs the analysis and logs the outcome.
package main

import (
	"context"
	"os"
	"time"

	"finsight/internal/amqp"
	"finsight/internal/cache"
	"finsight/internal/calendar"
	"finsight/internal/cli"
	"finsight/internal/export"
	gsheet "finsight/internal/export/google"
	"finsight/internal/log"
	"finsight/internal/services"
	"finsight/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(os.Stdout)

	logger.Info("Starting finsight-worker")

	ctx := context.Background()

	res := cli.InitSource(ctx, logger, cfg)

	reports, err := services.NewReportService(res.Source, calendar.Gregorian{}, cfg.AnalysisConfig())
	if err != nil {
		logger.Error("Failed to initialize report service", log.FieldError, err)
		os.Exit(1)
	}

	// AMQP is optional: without a broker the worker still analyzes and
	// exports, it just cannot publish alerts.
	var publisher worker.AlertPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without alerts", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - spending alerts will not be published")
	}

	var sink export.ReportSink
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			TabBase:       cfg.ReportsSheetName,
			ClientJSON:    cfg.GoogleOAuthClientJSON,
			ClientFile:    cfg.GoogleOAuthClientFile,
			TokenJSON:     cfg.GoogleOAuthTokenJSON,
			TokenFile:     cfg.GoogleOAuthTokenFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets export", log.FieldError, err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets export initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	analysisWorker := worker.New(res.Source, reports, publisher, sink, cfg.AlertDedupTTL)

	cacheManager := cache.NewManager()
	cacheManager.Register(analysisWorker.DedupCache())
	cacheManager.StartCleanup(10 * time.Minute)

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		cacheManager.Stop()
		if err := res.Cleanup(); err != nil {
			logger.Error("Source cleanup failed", log.FieldError, err)
		}
	})

	logger.Info("Analysis worker configured",
		"interval", cfg.AnalysisInterval,
		log.FieldBackend, cfg.DataBackend)

	logger.Info("Running initial analysis...")
	if _, err := analysisWorker.RunOnce(shutdownCtx, time.Now()); err != nil {
		logger.Error("Initial analysis run failed", log.FieldError, err)
	}

	ticker := time.NewTicker(cfg.AnalysisInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-shutdownCtx.Done():
				return
			case now := <-ticker.C:
				if _, err := analysisWorker.RunOnce(shutdownCtx, now); err != nil {
					logger.Error("Analysis run failed", log.FieldError, err)
				}
			}
		}
	}()

	cli.WaitForShutdown(shutdownCtx, done)
}
