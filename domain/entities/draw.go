package entities

import (
	"fmt"
	"slices"

	"lottosim/domain/pricing"
	"lottosim/domain/random"
)

// Draw is six distinct numbers in the order they were produced
type Draw struct {
	numbers [pricing.DrawSize]int
	mask    uint64
}

// NewDraw builds a draw from an explicit sequence of numbers
func NewDraw(numbers []int) (Draw, error) {
	var d Draw
	if len(numbers) != pricing.DrawSize {
		return d, fmt.Errorf("%w: a draw holds exactly %d numbers, got %d", ErrInvalidTicketNumbers, pricing.DrawSize, len(numbers))
	}
	for i, n := range numbers {
		if n < 1 || n > pricing.Universe {
			return Draw{}, fmt.Errorf("%w: %d is out of range", ErrInvalidTicketNumbers, n)
		}
		bit := uint64(1) << uint(n)
		if d.mask&bit != 0 {
			return Draw{}, fmt.Errorf("%w: %d is repeated", ErrInvalidTicketNumbers, n)
		}
		d.mask |= bit
		d.numbers[i] = n
	}
	return d, nil
}

// GenerateDraw draws six distinct numbers uniformly from 1..60
func GenerateDraw(src random.Source) (Draw, error) {
	numbers, err := sample(src, pricing.DrawSize)
	if err != nil {
		return Draw{}, err
	}
	return NewDraw(numbers)
}

// Numbers returns the numbers in generation order
func (d Draw) Numbers() []int {
	return slices.Clone(d.numbers[:])
}

// Sorted returns the numbers in ascending order
func (d Draw) Sorted() []int {
	sorted := d.Numbers()
	slices.Sort(sorted)
	return sorted
}

// IsZero reports whether the draw was never filled
func (d Draw) IsZero() bool {
	return d.mask == 0
}

func (d Draw) String() string {
	return FormatNumbers(d.Sorted())
}
