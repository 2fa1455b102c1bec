package application

import (
	"context"
	"fmt"
	"time"

	"lottosim/domain/entities"
	"lottosim/domain/interfaces"
	"lottosim/domain/random"
	"lottosim/domain/services"
	"lottosim/events"

	log "github.com/sirupsen/logrus"
)

// SessionConfig tunes the controller and engine a session owns
type SessionConfig struct {
	RevealDelay  time.Duration
	TrialPause   time.Duration
	HistoryLimit int
}

// Session holds one user's portfolios with their draw controller and
// simulation engine. The manual draw and the simulation keep separate
// portfolios.
type Session struct {
	id          string
	source      random.Source
	publisher   interfaces.EventPublisher
	drawTickets *entities.Portfolio
	simTickets  *entities.Portfolio
	draws       interfaces.DrawController
	simulation  interfaces.SimulationEngine
}

// NewSession wires a session whose events carry id
func NewSession(id string, source random.Source, publisher interfaces.EventPublisher, cfg SessionConfig) *Session {
	generator := services.NewDrawGenerator(source)
	return &Session{
		id:          id,
		source:      source,
		publisher:   publisher,
		drawTickets: entities.NewPortfolio(),
		simTickets:  entities.NewPortfolio(),
		draws:       services.NewDrawController(id, generator, publisher, cfg.RevealDelay),
		simulation: services.NewSimulationEngine(id, generator, publisher, services.SimulationOptions{
			TrialPause:   cfg.TrialPause,
			HistoryLimit: cfg.HistoryLimit,
		}),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Portfolio returns the portfolio of the given kind
func (s *Session) Portfolio(kind events.PortfolioKind) (*entities.Portfolio, error) {
	switch kind {
	case events.PortfolioDraw:
		return s.drawTickets, nil
	case events.PortfolioSimulation:
		return s.simTickets, nil
	default:
		return nil, fmt.Errorf("unknown portfolio %q", kind)
	}
}

// AddTicket validates numbers and appends the ticket to a portfolio
func (s *Session) AddTicket(kind events.PortfolioKind, numbers []int) (*entities.Ticket, int, error) {
	portfolio, err := s.Portfolio(kind)
	if err != nil {
		return nil, 0, err
	}
	ticket, err := entities.NewTicket(numbers)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create ticket: %w", err)
	}
	position := portfolio.Append(ticket)
	s.publishTicketAdded(kind, position, ticket)
	return ticket, position, nil
}

// AddRandomTicket appends a quick-pick ticket. A size of zero picks one
// between 6 and 15.
func (s *Session) AddRandomTicket(kind events.PortfolioKind, size int) (*entities.Ticket, int, error) {
	portfolio, err := s.Portfolio(kind)
	if err != nil {
		return nil, 0, err
	}
	if size == 0 {
		size, err = entities.RandomTicketSize(s.source)
		if err != nil {
			return nil, 0, err
		}
	}
	ticket, err := entities.RandomTicket(s.source, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create random ticket: %w", err)
	}
	position := portfolio.Append(ticket)
	s.publishTicketAdded(kind, position, ticket)
	return ticket, position, nil
}

// ClearTickets empties a portfolio. Runs already started keep their copy.
func (s *Session) ClearTickets(kind events.PortfolioKind) (int, error) {
	portfolio, err := s.Portfolio(kind)
	if err != nil {
		return 0, err
	}
	removed := portfolio.Clear()
	s.publish(events.PortfolioClearedEvent{SessionID: s.id, Portfolio: kind, Removed: removed})
	return removed, nil
}

// StartDraw starts an animated draw over the draw portfolio
func (s *Session) StartDraw(ctx context.Context) (string, error) {
	return s.draws.Start(ctx, s.drawTickets.Tickets())
}

// StopDraw cancels the running draw
func (s *Session) StopDraw() bool {
	return s.draws.Cancel()
}

// StartSimulation starts a simulation over the simulation portfolio
func (s *Session) StartSimulation(ctx context.Context, cfg entities.SimulationConfig) (string, error) {
	return s.simulation.Start(ctx, s.simTickets.Tickets(), cfg)
}

// StopSimulation cancels the running simulation
func (s *Session) StopSimulation() bool {
	return s.simulation.Cancel()
}

// Draws exposes the draw controller
func (s *Session) Draws() interfaces.DrawController {
	return s.draws
}

// Simulation exposes the simulation engine
func (s *Session) Simulation() interfaces.SimulationEngine {
	return s.simulation
}

// Close cancels any run and waits for it to wind down
func (s *Session) Close(ctx context.Context) error {
	s.draws.Cancel()
	s.simulation.Cancel()
	if err := s.draws.Wait(ctx); err != nil {
		return fmt.Errorf("failed to stop draw: %w", err)
	}
	if _, err := s.simulation.Wait(ctx); err != nil {
		return fmt.Errorf("failed to stop simulation: %w", err)
	}
	return nil
}

func (s *Session) publishTicketAdded(kind events.PortfolioKind, position int, ticket *entities.Ticket) {
	s.publish(events.TicketAddedEvent{
		SessionID:   s.id,
		Portfolio:   kind,
		Position:    position,
		Numbers:     ticket.Numbers(),
		Price:       ticket.Price(),
		Probability: ticket.WinProbability(),
	})
}

func (s *Session) publish(ev events.Event) {
	if err := s.publisher.Publish(ev); err != nil {
		log.WithError(err).WithField("event_type", ev.Type()).Warn("Failed to publish session event")
	}
}
