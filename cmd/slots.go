package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/mtzs0/kockabarlang-party-planner/availability"
	"github.com/mtzs0/kockabarlang-party-planner/config"
	"github.com/mtzs0/kockabarlang-party-planner/database"
	"github.com/mtzs0/kockabarlang-party-planner/logging"
	"github.com/mtzs0/kockabarlang-party-planner/reservation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type resolveFunc func(ctx context.Context, req availability.Request) availability.Result

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots [YYYY-MM-DD...]",
		Short: "Show slot availability for dates",
		Long: "Show slot availability for the given dates. Without arguments, dates are read " +
			"from stdin one per line and only the most recently entered date is reported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			db, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database connect: %w", err)
			}
			defer db.Close()

			resolver := availability.NewResolver(slotCatalog(ctx, cfg, db, logger), reservation.NewAccessor(db), logger)
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				for _, arg := range args {
					date, err := time.ParseInLocation(reservation.DateLayout, arg, time.Local)
					if err != nil {
						return fmt.Errorf("invalid date %q: %w", arg, err)
					}
					if err := writeResult(out, resolver.Resolve(ctx, availability.Request{Date: date})); err != nil {
						return err
					}
				}
				return nil
			}

			return watch(ctx, cmd.InOrStdin(), resolver.Resolve, logger, func(res availability.Result) {
				if err := writeResult(out, res); err != nil {
					logger.Error("write result", zap.Error(err))
				}
			})
		},
	}
}

// watch treats every input line as a new date selection. Resolutions run in
// the background and results for a date that is no longer selected are dropped.
func watch(ctx context.Context, in io.Reader, resolve resolveFunc, logger *zap.Logger, emit func(availability.Result)) error {
	var (
		tracker availability.Tracker
		wg      sync.WaitGroup
		scanErr error
	)
	results := make(chan availability.Result)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			date, err := time.ParseInLocation(reservation.DateLayout, line, time.Local)
			if err != nil {
				logger.Warn("ignoring invalid date", zap.String("input", line))
				continue
			}

			req := tracker.Select(date)
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- resolve(ctx, req)
			}()
		}
		scanErr = scanner.Err()
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if !tracker.Accept(res) {
			logger.Debug("dropping stale result", zap.String("date", res.Date.Format(reservation.DateLayout)))
			continue
		}
		emit(res)
	}
	return scanErr
}

func writeResult(w io.Writer, res availability.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", res.Date.Format(reservation.DateLayout), res.Weekday)
	if len(res.Slots) == 0 {
		fmt.Fprintln(tw, "\tno bookable slots")
	}
	for _, s := range res.Slots {
		state := "free"
		if !s.Available {
			state = "taken"
		}
		fmt.Fprintf(tw, "\t%s\t%s\n", s.Label, state)
	}
	if len(res.Degraded) > 0 {
		names := make([]string, 0, len(res.Degraded))
		for _, d := range res.Degraded {
			names = append(names, string(d))
		}
		fmt.Fprintf(tw, "\tdegraded\t%s\n", strings.Join(names, ", "))
	}
	return tw.Flush()
}
