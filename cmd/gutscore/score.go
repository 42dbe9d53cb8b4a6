package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/gutscore/internal/adapters/dataset"
	service "github.com/okian/gutscore/internal/app"
	"github.com/okian/gutscore/internal/domain/period"
	"github.com/okian/gutscore/pkg/logger"
	"github.com/okian/gutscore/pkg/metrics"
)

const stopTimeout = 10 * time.Second

type scoreFlags struct {
	data       string
	month      string
	user       string
	asOf       string
	format     string
	metricsOut string
}

func newScoreCmd(c *cli) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every user of a dataset over one month",
		Long: `Loads a YAML dataset, runs each user through the worker pool for the
given month and prints one report per user.

Example:
  gutscore score --data records.yaml --month 2024-06 --as-of 2024-07-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runScore(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.data, "data", "", "YAML dataset file (required)")
	cmd.Flags().StringVar(&f.month, "month", "", "month to score as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&f.user, "user", "", "score only this user")
	cmd.Flags().StringVar(&f.asOf, "as-of", "", "date ages are computed at, YYYY-MM-DD (default: last day of month)")
	cmd.Flags().StringVar(&f.format, "format", formatText, "output format: text or yaml")
	cmd.Flags().StringVar(&f.metricsOut, "metrics-out", "", "write Prometheus text metrics to this file after the run")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (c *cli) runScore(cmd *cobra.Command, f *scoreFlags) error {
	ctx := cmd.Context()
	loc := c.cfg.Location()

	render, err := renderer(f.format)
	if err != nil {
		return err
	}
	p, err := monthFlag(f.month, loc)
	if err != nil {
		return err
	}
	asOf := p.To
	if f.asOf != "" {
		if asOf, err = parseDate("as-of", f.asOf, loc); err != nil {
			return err
		}
	}

	d, err := dataset.Load(f.data)
	if err != nil {
		return err
	}
	batch, err := d.Convert(loc)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithLogger(c.log),
		service.WithWorkerCount(c.cfg.WorkerCount),
		// every job is submitted before any is awaited
		service.WithQueueSize(max(c.cfg.QueueSize, len(d.Users))),
		service.WithDedupeSize(c.cfg.DedupeSize),
		service.WithShardCount(c.cfg.ShardCount),
		service.WithJobTimeout(c.cfg.JobTimeout()),
		service.WithLocation(loc),
	)
	if _, err := svc.Ingest(ctx, batch); err != nil {
		return err
	}

	users := svc.Users(ctx)
	if f.user != "" {
		users = []string{f.user}
	}

	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		// the run context may already be cancelled by a signal
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			c.log.Error(ctx, "service stop failed", logger.Error(err))
		}
	}()

	// Submit everything before awaiting so the pool works in parallel.
	jobs := make([]string, 0, len(users))
	for _, u := range users {
		id, err := svc.Submit(ctx, u, p)
		if err != nil {
			return err
		}
		jobs = append(jobs, id)
	}

	// Reports keep submission order; any failed job cancels the rest.
	reports := make([]service.Report, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range jobs {
		g.Go(func() error {
			res, err := svc.Await(gctx, id)
			if err != nil {
				return fmt.Errorf("score %s: %w", users[i], err)
			}
			r, err := svc.ReportFor(gctx, res, p, asOf)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	st := svc.Stats(ctx)
	metrics.UpdateRepositorySize(st.Users, st.Records)
	c.log.Info(ctx, "scoring finished",
		logger.String("period", p.String()),
		logger.Int("users", len(reports)),
		logger.Int("records", st.Records),
	)

	if err := render(cmd.OutOrStdout(), reports); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	if f.metricsOut != "" {
		return writeMetrics(f.metricsOut)
	}
	return nil
}

func monthFlag(value string, loc *time.Location) (period.Period, error) {
	if value == "" {
		now := time.Now().In(loc)
		return period.Month(now.Year(), now.Month(), loc), nil
	}
	p, err := period.ParseMonth(value, loc)
	if err != nil {
		return period.Period{}, fmt.Errorf("--month: %w", err)
	}
	return p, nil
}

func writeMetrics(path string) (err error) {
	out, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close metrics file: %w", cerr)
		}
	}()
	if err := metrics.WriteText(out, metrics.GetRegistry()); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
