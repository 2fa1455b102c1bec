package entities

import (
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"lottosim/domain/pricing"
	"lottosim/domain/random"

	"github.com/shopspring/decimal"
)

// Ticket is an immutable set of 6 to 20 numbers with its derived price and
// chance of hitting the sena.
type Ticket struct {
	numbers     []int
	mask        uint64
	price       decimal.Decimal
	probability float64
}

// NewTicket validates numbers and builds a ticket with its numbers sorted
func NewTicket(numbers []int) (*Ticket, error) {
	var mask uint64
	for _, n := range numbers {
		if n < 1 || n > pricing.Universe {
			return nil, fmt.Errorf("%w: %d is out of range", ErrInvalidTicketNumbers, n)
		}
		bit := uint64(1) << uint(n)
		if mask&bit != 0 {
			return nil, fmt.Errorf("%w: %d is repeated", ErrInvalidTicketNumbers, n)
		}
		mask |= bit
	}

	size := len(numbers)
	if size < pricing.MinTicketSize || size > pricing.MaxTicketSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTicketSize, size)
	}

	price, err := pricing.PriceFor(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicketSize, err)
	}
	probability, err := pricing.WinProbabilityFor(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicketSize, err)
	}

	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	return &Ticket{
		numbers:     sorted,
		mask:        mask,
		price:       price,
		probability: probability,
	}, nil
}

// RandomTicket picks size distinct numbers from the universe
func RandomTicket(src random.Source, size int) (*Ticket, error) {
	if size < pricing.MinTicketSize || size > pricing.MaxTicketSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTicketSize, size)
	}
	numbers, err := sample(src, size)
	if err != nil {
		return nil, err
	}
	return NewTicket(numbers)
}

// RandomTicketSize picks a size between 6 and 15 for a quick-pick ticket
func RandomTicketSize(src random.Source) (int, error) {
	offset, err := src.Intn(10)
	if err != nil {
		return 0, fmt.Errorf("failed to pick ticket size: %w", err)
	}
	return pricing.MinTicketSize + offset, nil
}

// ParseNumbers reads numbers separated by commas, semicolons or whitespace
func ParseNumbers(text string) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no numbers given", ErrInvalidTicketNumbers)
	}

	numbers := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidTicketNumbers, field)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// Numbers returns a copy of the ticket's numbers in ascending order
func (t *Ticket) Numbers() []int {
	return slices.Clone(t.numbers)
}

// Size returns how many numbers the ticket holds
func (t *Ticket) Size() int {
	return len(t.numbers)
}

// Price returns the ticket price
func (t *Ticket) Price() decimal.Decimal {
	return t.price
}

// WinProbability returns the sena probability in percent
func (t *Ticket) WinProbability() float64 {
	return t.probability
}

// Contains reports whether n is one of the ticket's numbers
func (t *Ticket) Contains(n int) bool {
	if n < 1 || n > pricing.Universe {
		return false
	}
	return t.mask&(uint64(1)<<uint(n)) != 0
}

// Matches counts the ticket numbers present in the draw
func (t *Ticket) Matches(d Draw) int {
	return bits.OnesCount64(t.mask & d.mask)
}

// String formats the ticket as zero-padded numbers, e.g. "01 - 07 - 33"
func (t *Ticket) String() string {
	return FormatNumbers(t.numbers)
}

// FormatNumbers joins numbers as zero-padded two digit values
func FormatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " - ")
}

// CountMatches returns the size of the intersection of a and b, ignoring
// order. Values outside the universe never match.
func CountMatches(a, b []int) int {
	return bits.OnesCount64(maskOf(a) & maskOf(b))
}

func maskOf(numbers []int) uint64 {
	var mask uint64
	for _, n := range numbers {
		if n >= 1 && n <= pricing.Universe {
			mask |= uint64(1) << uint(n)
		}
	}
	return mask
}

// sample picks k distinct numbers from 1..Universe with a partial Fisher-Yates
// shuffle, returning them in pick order.
func sample(src random.Source, k int) ([]int, error) {
	pool := make([]int, pricing.Universe)
	for i := range pool {
		pool[i] = i + 1
	}
	for i := 0; i < k; i++ {
		j, err := src.Intn(len(pool) - i)
		if err != nil {
			return nil, fmt.Errorf("failed to generate random number: %w", err)
		}
		j += i
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k], nil
}
