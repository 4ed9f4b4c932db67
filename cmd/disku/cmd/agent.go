package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/solatis/disku/internal/agent"
	"github.com/solatis/disku/internal/core/config"
	"github.com/solatis/disku/internal/sizes"
	"github.com/spf13/cobra"
)

// Agent exit codes, distinct per failure class so init systems and cron
// wrappers can tell configuration mistakes from transient network trouble.
const (
	exitErrConfig   = 1
	exitErrNetwork  = 2
	exitErrResponse = 3
)

var (
	agentURL        string
	agentIdentifier string
	agentInterval   string
)

var agentCmd = &cobra.Command{
	Use:   "agent [paths...]",
	Short: "Report local disk usage to a disku server",
	Args:  cobra.MinimumNArgs(1),
	Run:   runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.Flags().StringVarP(&agentURL, "url", "u", "", "server URL to report disk usage to")
	agentCmd.Flags().StringVarP(&agentIdentifier, "identifier", "i", "", "unique name identifying this machine in alarms")
	agentCmd.Flags().StringVar(&agentInterval, "interval", "", "report repeatedly at this interval (default: report once)")
	agentCmd.MarkFlagRequired("url")
}

func runAgent(cmd *cobra.Command, paths []string) {
	log, err := newLogger()
	if err != nil {
		logrus.Error(err)
		os.Exit(exitErrConfig)
	}

	secret, err := config.ReportSecret()
	if err != nil {
		log.Error(err)
		os.Exit(exitErrConfig)
	}

	reporter, err := agent.NewReporter(agentURL, secret, log)
	if err != nil {
		log.Error(err)
		os.Exit(exitErrConfig)
	}

	if agentInterval == "" {
		os.Exit(reportOnce(log, reporter, paths))
	}

	interval, err := sizes.ParseInterval(agentInterval)
	if err != nil {
		log.Error(err)
		os.Exit(exitErrConfig)
	}

	// Periodic mode: failures are logged and retried next tick rather
	// than exiting, so a flapping network doesn't kill the agent.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		reportOnce(log, reporter, paths)
		<-ticker.C
	}
}

// reportOnce builds and sends a single report, returning the exit code.
func reportOnce(log logrus.FieldLogger, reporter *agent.Reporter, paths []string) int {
	report, err := agent.BuildReport(paths, agentIdentifier)
	if err != nil {
		log.Error(err)
		return exitErrConfig
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := reporter.Send(ctx, report); err != nil {
		log.Error(err)
		switch {
		case errors.Is(err, agent.ErrBadResponse):
			return exitErrResponse
		case errors.Is(err, agent.ErrConfig):
			return exitErrConfig
		default:
			return exitErrNetwork
		}
	}
	return 0
}
