package cmd

import (
	"fmt"
	"io"

	"lottosim/application"
	"lottosim/domain/entities"
	"lottosim/events"
	"lottosim/report"

	"github.com/spf13/cobra"
)

// ticketOptions are the portfolio flags shared by draw and simulate
type ticketOptions struct {
	tickets []string
	random  int
	size    int
}

func (o *ticketOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.tickets, "ticket", "t", nil, `ticket numbers, e.g. "4,8,15,16,23,42" (repeatable)`)
	cmd.Flags().IntVar(&o.random, "random", 0, "number of quick-pick tickets to add")
	cmd.Flags().IntVar(&o.size, "size", 0, "numbers per quick-pick ticket (0 picks a size from 6 to 15)")
}

// fill adds the requested tickets to the session and prints the portfolio
func (o *ticketOptions) fill(out io.Writer, session *application.Session, kind events.PortfolioKind) error {
	if o.random < 0 {
		return fmt.Errorf("--random cannot be negative")
	}

	for _, text := range o.tickets {
		numbers, err := entities.ParseNumbers(text)
		if err != nil {
			return fmt.Errorf("invalid ticket %q: %w", text, err)
		}
		ticket, position, err := session.AddTicket(kind, numbers)
		if err != nil {
			return fmt.Errorf("invalid ticket %q: %w", text, err)
		}
		printTicket(out, position, ticket)
	}

	for n := 0; n < o.random; n++ {
		ticket, position, err := session.AddRandomTicket(kind, o.size)
		if err != nil {
			return fmt.Errorf("failed to add quick-pick ticket: %w", err)
		}
		printTicket(out, position, ticket)
	}

	portfolio, err := session.Portfolio(kind)
	if err != nil {
		return err
	}
	if portfolio.Len() == 0 {
		return fmt.Errorf("%w: pass --ticket or --random", entities.ErrEmptyPortfolio)
	}

	totals := portfolio.Totals()
	fmt.Fprintf(out, "Portfolio: %d ticket(s), %s, %s\n\n",
		totals.Count, report.FormatMoney(totals.Price), report.FormatProbability(totals.Probability))
	return nil
}

func printTicket(out io.Writer, position int, ticket *entities.Ticket) {
	fmt.Fprintf(out, "Ticket %d: %s (%s, %s)\n",
		position, ticket, report.FormatMoney(ticket.Price()), report.FormatOdds(ticket.WinProbability()))
}
