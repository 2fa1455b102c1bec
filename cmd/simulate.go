package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"lottosim/application"
	"lottosim/domain/entities"
	"lottosim/domain/random"
	"lottosim/events"
	"lottosim/report"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// simulateOptions are the flags of the simulate command
type simulateOptions struct {
	tickets   ticketOptions
	maxTrials int64
	stop      string
	pause     time.Duration
	seed      uint64
	chart     string
	history   int
	progress  int64
}

func newSimulateCommand(a *app) *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play the same tickets draw after draw until a prize or budget is hit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("stop") {
				opts.stop = a.cfg.DefaultStopTiers
			}
			if !flags.Changed("pause") {
				opts.pause = a.cfg.TrialPause
			}
			if !flags.Changed("progress") {
				opts.progress = a.cfg.ProgressLogInterval
			}
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), randomSource(opts.seed), opts, a.cfg.HistoryLimit)
		},
	}

	opts.tickets.register(cmd)
	flags := cmd.Flags()
	flags.Int64Var(&opts.maxTrials, "max-trials", 0, "stop after this many draws (0 for no limit)")
	flags.StringVar(&opts.stop, "stop", "6", `tiers that end the run, e.g. "4,5,6", "sena" or "none"`)
	flags.DurationVar(&opts.pause, "pause", time.Millisecond, "pause between draws (0 only yields)")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for reproducible runs (0 uses crypto randomness)")
	flags.StringVar(&opts.chart, "chart", "", "write a PNG histogram of the results to this path")
	flags.IntVar(&opts.history, "history", 0, "print this many of the most recent draws at the end")
	flags.Int64Var(&opts.progress, "progress", application.DefaultProgressInterval, "print progress every this many draws")
	return cmd
}

func runSimulate(ctx context.Context, out io.Writer, source random.Source, opts simulateOptions, historyLimit int) error {
	stops, err := entities.ParseTierSet(opts.stop)
	if err != nil {
		return fmt.Errorf("invalid --stop: %w", err)
	}
	cfg := entities.SimulationConfig{MaxTrials: opts.maxTrials, StopTiers: stops}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.MaxTrials == 0 && cfg.StopTiers.IsEmpty() {
		log.Warn("No budget and no stop tier: the simulation runs until interrupted")
	}
	if opts.progress <= 0 {
		opts.progress = application.DefaultProgressInterval
	}

	bus := events.NewBus()
	defer bus.Close()

	session := application.NewSession("cli", source, bus, application.SessionConfig{
		TrialPause:   opts.pause,
		HistoryLimit: historyLimit,
	})
	if err := opts.tickets.fill(out, session, events.PortfolioSimulation); err != nil {
		return err
	}

	stream, stop := bus.Stream(64,
		events.EventTypeSimulationStarted,
		events.EventTypeSimulationProgress,
		events.EventTypeSimulationFinished,
	)
	defer stop()

	if _, err := session.StartSimulation(ctx, cfg); err != nil {
		return fmt.Errorf("failed to start simulation: %w", err)
	}

	var lastBucket int64
	for event := range stream {
		switch ev := event.(type) {
		case events.SimulationStartedEvent:
			fmt.Fprintf(out, "Simulating with stop on %s, budget %s\n", ev.Config.StopTiers, budgetText(ev.Config.MaxTrials))
		case events.SimulationProgressEvent:
			bucket := ev.Snapshot.TrialsCompleted / opts.progress
			if bucket <= lastBucket {
				continue
			}
			lastBucket = bucket
			fmt.Fprintf(out, "Draw %s: best %s, quadras %d, quinas %d, senas %d, spent %s\n",
				report.FormatCount(ev.Snapshot.TrialsCompleted),
				report.MatchLabel(ev.Snapshot.BestMatchEver),
				ev.Snapshot.TierCounts.Quadra, ev.Snapshot.TierCounts.Quina, ev.Snapshot.TierCounts.Sena,
				report.FormatMoney(ev.Snapshot.TotalCost))
		case events.SimulationFinishedEvent:
			return finishSimulation(out, session, ev.Summary, opts)
		}
	}
	return nil
}

func finishSimulation(out io.Writer, session *application.Session, summary entities.SimulationSummary, opts simulateOptions) error {
	fmt.Fprintln(out)
	for _, line := range report.SummaryLines(summary) {
		fmt.Fprintln(out, line)
	}

	if opts.history > 0 {
		fmt.Fprintln(out, "\nRecent draws:")
		for _, r := range session.Simulation().History(opts.history) {
			fmt.Fprintf(out, "  #%s %s  best %s\n", report.FormatCount(r.Index), entities.FormatNumbers(r.Draw), report.MatchLabel(r.Best))
		}
	}

	if opts.chart != "" && summary.TrialsCompleted > 0 {
		png, err := report.NewChartGenerator().GenerateSimulationChart(summary)
		if err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		if err := os.WriteFile(opts.chart, png, 0o644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Fprintf(out, "Chart written to %s\n", opts.chart)
	}

	if summary.State == entities.SimulationFailed {
		return fmt.Errorf("simulation failed: %s", summary.Error)
	}
	return nil
}

func budgetText(maxTrials int64) string {
	if maxTrials == 0 {
		return "unlimited"
	}
	return report.FormatCount(maxTrials) + " draws"
}
