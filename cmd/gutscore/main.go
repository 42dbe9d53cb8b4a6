// Command gutscore scores bowel records from a YAML dataset and reports
// per-user results, along with BMI and age helpers and a dataset generator.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/gutscore/internal/config"
	"github.com/okian/gutscore/pkg/logger"
)

// cli holds state shared by every subcommand once the root pre-run has
// loaded the configuration.
type cli struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger
	// logOut receives log lines; reports go to the command's stdout.
	logOut io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	c := &cli{logOut: logOut}

	root := &cobra.Command{
		Use:   "gutscore",
		Short: "Bowel health scoring engine",
		Long: `gutscore turns daily bowel records into a 0-10 health score with a
colour tier, and reports age, BMI and symptom summaries alongside it.

Configuration is layered: defaults, then the YAML file named by --config or
GUTSCORE_CONFIG, then GUTSCORE_* environment variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("GUTSCORE_CONFIG"), "YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newScoreCmd(c),
		newBMICmd(),
		newAgeCmd(c),
		newGenerateCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := logger.InitWithWriter(c.logOut); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	cfg, err := config.LoadFile(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	c.cfg = cfg
	c.log = logger.Get().Named("cli")
	c.log.Debug(cmd.Context(), "configuration loaded",
		logger.String("command", cmd.Name()),
		logger.String("timezone", cfg.Timezone),
		logger.Int("workers", cfg.WorkerCount),
	)
	return nil
}

// parseDate reads a YYYY-MM-DD flag value as midnight in loc. An empty value
// yields today.
func parseDate(flag, value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", flag, value)
	}
	return t, nil
}
