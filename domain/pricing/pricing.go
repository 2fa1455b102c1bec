package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// Universe is the highest number that can be drawn.
	Universe = 60
	// DrawSize is how many numbers every draw contains.
	DrawSize = 6
	// MinTicketSize and MaxTicketSize bound the numbers a ticket may hold.
	MinTicketSize = 6
	MaxTicketSize = 20
)

// ErrSizeOutOfRange is returned for ticket sizes outside the price table.
var ErrSizeOutOfRange = errors.New("ticket size out of range")

// prices in reais, indexed by ticket size
var prices = map[int]string{
	6:  "6.00",
	7:  "42.00",
	8:  "168.00",
	9:  "504.00",
	10: "1260.00",
	11: "2772.00",
	12: "5544.00",
	13: "10296.00",
	14: "18018.00",
	15: "30030.00",
	16: "48048.00",
	17: "74256.00",
	18: "111384.00",
	19: "162792.00",
	20: "232560.00",
}

// Row is one line of the price table
type Row struct {
	Size        int
	Price       decimal.Decimal
	Probability float64
	Combination int64
}

// PriceFor returns the price of a ticket holding size numbers
func PriceFor(size int) (decimal.Decimal, error) {
	raw, ok := prices[size]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrSizeOutOfRange, size)
	}
	return decimal.RequireFromString(raw), nil
}

// WinProbabilityFor returns the chance, in percent, that a ticket of the
// given size matches all six drawn numbers.
func WinProbabilityFor(size int) (float64, error) {
	if size < MinTicketSize || size > MaxTicketSize {
		return 0, fmt.Errorf("%w: %d", ErrSizeOutOfRange, size)
	}
	return float64(Binomial(size, DrawSize)) / float64(TotalCombinations()) * 100, nil
}

// TotalCombinations is the number of distinct draws, C(60,6).
func TotalCombinations() int64 {
	return Binomial(Universe, DrawSize)
}

// Binomial computes C(n,k) exactly. Every intermediate product is divisible
// by i, so the running value stays an integer.
func Binomial(n, k int) int64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 1; i <= k; i++ {
		result = result * int64(n-k+i) / int64(i)
	}
	return result
}

// Table returns the price table ordered by ticket size
func Table() []Row {
	rows := make([]Row, 0, MaxTicketSize-MinTicketSize+1)
	for size := MinTicketSize; size <= MaxTicketSize; size++ {
		price, _ := PriceFor(size)
		probability, _ := WinProbabilityFor(size)
		rows = append(rows, Row{
			Size:        size,
			Price:       price,
			Probability: probability,
			Combination: Binomial(size, DrawSize),
		})
	}
	return rows
}
