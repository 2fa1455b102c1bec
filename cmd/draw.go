package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"lottosim/application"
	"lottosim/domain/entities"
	"lottosim/domain/random"
	"lottosim/events"
	"lottosim/report"

	"github.com/spf13/cobra"
)

func newDrawCommand(a *app) *cobra.Command {
	var (
		opts  ticketOptions
		delay time.Duration
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Reveal six numbers one at a time and score your tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("delay") {
				delay = a.cfg.RevealDelay
			}
			return runDraw(cmd.Context(), cmd.OutOrStdout(), randomSource(seed), opts, delay)
		},
	}

	opts.register(cmd)
	cmd.Flags().DurationVar(&delay, "delay", 5*time.Second, "pause before each number is revealed")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible draws (0 uses crypto randomness)")
	return cmd
}

func runDraw(ctx context.Context, out io.Writer, source random.Source, opts ticketOptions, delay time.Duration) error {
	bus := events.NewBus()
	defer bus.Close()

	session := application.NewSession("cli", source, bus, application.SessionConfig{RevealDelay: delay})
	if err := opts.fill(out, session, events.PortfolioDraw); err != nil {
		return err
	}

	stream, stop := bus.Stream(16,
		events.EventTypeDrawNumberRevealed,
		events.EventTypeDrawCompleted,
		events.EventTypeDrawCancelled,
	)
	defer stop()

	if _, err := session.StartDraw(ctx); err != nil {
		return fmt.Errorf("failed to start draw: %w", err)
	}

	for event := range stream {
		switch ev := event.(type) {
		case events.DrawNumberRevealedEvent:
			printReveal(out, ev)
		case events.DrawCompletedEvent:
			printDrawResult(out, ev.Result)
			return nil
		case events.DrawCancelledEvent:
			fmt.Fprintf(out, "\nDraw stopped after %d number(s): %s\n", len(ev.Revealed), entities.FormatNumbers(ev.Revealed))
			return nil
		}
	}
	return nil
}

func printReveal(out io.Writer, ev events.DrawNumberRevealedEvent) {
	fmt.Fprintf(out, "Number %d: %02d  | drawn so far: %s\n", ev.Index, ev.Number, entities.FormatNumbers(ev.SortedSoFar))
	if ev.Waiting {
		fmt.Fprintln(out, "  waiting for more numbers...")
		return
	}
	for _, r := range ev.Results {
		fmt.Fprintf(out, "  ticket %d: %s\n", r.Position, report.MatchLabel(r.Matches))
	}
}

func printDrawResult(out io.Writer, result entities.DrawResult) {
	fmt.Fprintf(out, "\nDraw result: %s\n", entities.FormatNumbers(result.Sorted))
	for _, r := range result.Tickets {
		fmt.Fprintf(out, "Ticket %d [%s]: %s\n", r.Position, entities.FormatNumbers(r.Numbers), report.MatchLabel(r.Matches))
	}
	if winners := result.Winners(); len(winners) > 0 {
		fmt.Fprintf(out, "%d winning ticket(s)!\n", len(winners))
	}
}
