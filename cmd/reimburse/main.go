package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	"reimburse/internal/amqp"
	"reimburse/internal/backend"
	"reimburse/internal/cli"
	"reimburse/internal/config"
	"reimburse/internal/core"
	"reimburse/internal/locale"
	applog "reimburse/internal/log"
	"reimburse/internal/services"
	"reimburse/internal/ui"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger.Logger)

	ctx, stop := cli.InterruptContext()
	defer stop()

	out := ui.New(os.Stdout)
	if err := run(ctx, cfg, logger, out); err != nil {
		logger.Error("Run failed", applog.FieldError, err)
		out.Error(err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, out *ui.Printer) error {
	started := time.Now()
	runID := uuid.NewString()
	logger = logger.WithRunID(runID)

	out.Header("Reimbursement report")

	logger.InfoContext(ctx, "Starting run",
		applog.FieldOperation, applog.OpStartup,
		"input_backend", cfg.InputBackend,
		applog.FieldLayout, cfg.ReportLayout)

	repo, err := cli.InitSQLite(logger.WithComponent(applog.ComponentStorage).Logger, cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	rules, err := core.LoadPercentRules(cfg.RulesFile)
	if err != nil {
		return err
	}
	format, err := locale.NewCurrencyFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return err
	}

	notifier, closeNotifier := newNotifier(cfg, runID, logger)
	defer closeNotifier()

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	input, err := factory.OpenInput(ctx, bcfg)
	if err != nil {
		return err
	}
	if input.Cleanup != nil {
		defer input.Cleanup()
	}

	out.Step(1, 3, "Importing transactions")
	importer := services.NewImporter(repo, cfg.Columns, notifier, logger.WithComponent(applog.ComponentImporter).Logger)
	result, err := importer.Import(ctx, input.Reader)
	if err != nil {
		return err
	}
	out.Success("%d sheets, %d created, %d updated, %d unchanged",
		result.Sheets, result.Created, result.Updated, result.Unchanged)

	out.Step(2, 3, "Aggregating totals")
	aggregator := services.NewAggregator(repo, rules, logger.WithComponent(applog.ComponentReporter).Logger)
	summary, err := aggregator.Summarize(ctx)
	if err != nil {
		return err
	}
	if len(summary.Parties) == 0 {
		out.Warning("no reimbursable parties found")
	}
	for _, ps := range summary.Parties {
		if ps.Party.Sentinel() {
			out.Info("%s (not reimbursable): %s", ps.Party.Name, format(ps.GrandTotal.Total))
			continue
		}
		out.Info("%s: %s", ps.Party.Name, format(ps.GrandTotal.Total))
	}

	out.Step(3, 3, "Writing report")
	reporter := services.NewReporter(factory.NewOutput, format, cfg.ReportLayout, logger.WithComponent(applog.ComponentReporter).Logger)
	if err := reporter.Render(ctx, summary, cfg.OutputPath); err != nil {
		return err
	}
	out.Success("report written to %s", cfg.OutputPath)

	logger.InfoContext(ctx, "Run completed",
		applog.FieldPath, cfg.OutputPath,
		applog.FieldDurationMs, time.Since(started).Milliseconds())
	return nil
}

// newNotifier always logs import events and also publishes them to AMQP when
// a broker is configured. A broker that cannot be reached is not fatal.
func newNotifier(cfg *config.Config, runID string, logger *applog.Logger) (services.Notifier, func()) {
	notifiers := services.MultiNotifier{services.NewLogNotifier(logger.WithComponent(applog.ComponentImporter).Logger)}
	if cfg.AMQPURL == "" {
		return notifiers, func() {}
	}

	amqpLogger := logger.WithComponent(applog.ComponentAMQP)
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, runID)
	if err != nil {
		amqpLogger.Warn("Failed to initialize AMQP client, continuing without publishing", applog.FieldError, err)
		return notifiers, func() {}
	}
	amqpLogger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	return append(notifiers, client), func() {
		if err := client.Close(); err != nil {
			amqpLogger.Warn("Failed to close AMQP client", applog.FieldError, err)
		}
	}
}
