package entities

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Portfolio is the ordered collection of tickets a user plays
type Portfolio struct {
	mu      sync.RWMutex
	tickets []*Ticket
}

// PortfolioTotals aggregates a set of tickets. Probability is the plain sum
// of each ticket's sena probability, which overstates the chance for
// overlapping tickets.
type PortfolioTotals struct {
	Count       int             `json:"count"`
	Price       decimal.Decimal `json:"price"`
	Probability float64         `json:"probability"`
}

// NewPortfolio creates an empty portfolio
func NewPortfolio() *Portfolio {
	return &Portfolio{}
}

// Append adds a ticket and returns its 1-based position
func (p *Portfolio) Append(t *Ticket) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tickets = append(p.tickets, t)
	return len(p.tickets)
}

// Clear removes every ticket and returns how many were removed
func (p *Portfolio) Clear() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.tickets)
	p.tickets = nil
	return n
}

// Tickets returns a snapshot of the portfolio
func (p *Portfolio) Tickets() []*Ticket {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.tickets)
}

// Len returns the number of tickets
func (p *Portfolio) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.tickets)
}

// Totals sums price and probability over the portfolio
func (p *Portfolio) Totals() PortfolioTotals {
	return TotalsOf(p.Tickets())
}

// TotalsOf sums price and probability over tickets
func TotalsOf(tickets []*Ticket) PortfolioTotals {
	totals := PortfolioTotals{Count: len(tickets), Price: decimal.Zero}
	for _, t := range tickets {
		totals.Price = totals.Price.Add(t.Price())
		totals.Probability += t.WinProbability()
	}
	return totals
}
