package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"lottosim/config"
	"lottosim/infrastructure"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWatchCommand(a *app) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print lottery events published to NATS by running bots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.OutOrStdout(), a.cfg, subject)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "lottery.>", "NATS subject to follow")
	return cmd
}

func runWatch(ctx context.Context, out io.Writer, cfg *config.Config, subject string) error {
	client := infrastructure.NewNATSClient("lottosim-watch", cfg.NATSServers)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Connect(connectCtx); err != nil {
		return err
	}
	defer client.Close()

	mapper := infrastructure.NewEventSubjectMapper()
	if err := infrastructure.EnsureLotteryEventStream(client, mapper); err != nil {
		return err
	}

	printer := &envelopePrinter{out: out, mapper: mapper}
	if err := client.Subscribe(subject, printer.Handle); err != nil {
		return err
	}

	log.WithField("subject", subject).Info("Watching lottery events")
	<-ctx.Done()
	return nil
}

// envelopePrinter writes one line per received envelope
type envelopePrinter struct {
	mu     sync.Mutex
	out    io.Writer
	mapper *infrastructure.EventSubjectMapper
}

func (p *envelopePrinter) Handle(subject string, data []byte) error {
	envelope, err := infrastructure.DecodeEnvelope(data)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = fmt.Fprintf(p.out, "%s %-22s %s %s\n",
		envelope.Timestamp.Format(time.RFC3339), p.mapper.MapSubjectToEventType(subject), envelope.EventID, envelope.Payload)
	return err
}
