package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/solatis/disku/internal/alert"
	"github.com/solatis/disku/internal/conditions"
	"github.com/solatis/disku/internal/core/api"
	"github.com/solatis/disku/internal/core/config"
	"github.com/solatis/disku/internal/core/db"
	"github.com/solatis/disku/internal/core/server"
	"github.com/solatis/disku/internal/sizes"
	"github.com/solatis/disku/internal/types"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the report server",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serverCmd.Flags().Int("port", 8080, "HTTP server port")
	serverCmd.Flags().String("conditions", "", "alarm conditions (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	log, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := config.LoadServerConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("conditions") {
		cfg.AlertConditions, _ = cmd.Flags().GetString("conditions")
		cfg.ConditionsFile = ""
	}

	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := checkMigrations(database); err != nil {
		return err
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	// Conditions: file takes precedence over the inline config value and
	// is also the reload-watch target. All-or-nothing validation happens
	// here, before the server binds.
	var set types.ConditionSet
	if cfg.ConditionsFile != "" {
		set, err = conditions.LoadFile(cfg.ConditionsFile)
	} else {
		set, err = conditions.Parse(cfg.AlertConditions)
	}
	if err != nil {
		return fmt.Errorf("invalid alert conditions: %w", err)
	}
	holder := conditions.NewHolder(set)
	log.WithField("conditions", set.String()).Info("alarm conditions loaded")

	interval, err := sizes.ParseInterval(cfg.AlertInterval)
	if err != nil {
		return fmt.Errorf("invalid alert interval: %w", err)
	}

	channel, err := alert.Load(cfg.AlertChannel, cfg.WebhookURL, cfg.WebhookMixin, log)
	if err != nil {
		return fmt.Errorf("failed to load alert channel: %w", err)
	}

	buffer := alert.NewBuffer(interval, func(batch map[string]string) {
		msgs := make([]string, 0, len(batch))
		for _, msg := range batch {
			msgs = append(msgs, msg)
		}
		if err := channel.Fire(strings.Join(msgs, "\n\n")); err != nil {
			log.WithError(err).Error("alert delivery failed")
		}
	})

	secret, err := config.ReportSecret()
	if err != nil {
		return fmt.Errorf("failed to load report secret: %w", err)
	}
	if len(secret) == 0 {
		log.Warn("DISKU_REPORT_SECRET not set, accepting unsigned reports")
	}

	service, err := api.NewService(queries, holder, buffer, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	httpServer, err := server.NewHTTPServer(cfg, service, secret, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if cfg.ConditionsFile != "" {
		go func() {
			if err := conditions.WatchFile(watchCtx, cfg.ConditionsFile, holder, log); err != nil && watchCtx.Err() == nil {
				log.WithError(err).Error("conditions watcher stopped")
			}
		}()
	}

	log.Infof("Starting disku server v%s on %s:%d", Version, cfg.Host, cfg.Port)
	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		log.Info("Shutting down gracefully...")
		return httpServer.Shutdown(ctx)
	}
}

// checkMigrations refuses to start while any migration is pending, so the
// schema the queries expect is guaranteed before the server binds.
func checkMigrations(database *sqlx.DB) error {
	statuses, err := db.MigrateStatus(database)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			return fmt.Errorf("migration %s not applied - run 'disku migrate' first", s.ID)
		}
	}
	return nil
}
