package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is a prize level named after the number of matched numbers
type Tier int

const (
	TierNone   Tier = 0
	TierQuadra Tier = 4
	TierQuina  Tier = 5
	TierSena   Tier = 6
)

// PrizeTiers lists the prize tiers from lowest to highest
var PrizeTiers = []Tier{TierQuadra, TierQuina, TierSena}

// TierFor maps a match count to its prize tier
func TierFor(matches int) Tier {
	switch matches {
	case 4:
		return TierQuadra
	case 5:
		return TierQuina
	case 6:
		return TierSena
	default:
		return TierNone
	}
}

func (t Tier) String() string {
	switch t {
	case TierQuadra:
		return "quadra"
	case TierQuina:
		return "quina"
	case TierSena:
		return "sena"
	default:
		return "none"
	}
}

// IsPrize reports whether t is one of the three prize tiers
func (t Tier) IsPrize() bool {
	return t == TierQuadra || t == TierQuina || t == TierSena
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTier accepts either the match count or the tier name
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if t := TierFor(n); t.IsPrize() {
			return t, nil
		}
		return TierNone, fmt.Errorf("%w: %q", ErrInvalidStopTier, s)
	}
	for _, t := range PrizeTiers {
		if t.String() == s {
			return t, nil
		}
	}
	return TierNone, fmt.Errorf("%w: %q", ErrInvalidStopTier, s)
}

// TierSet is a set of prize tiers
type TierSet uint8

// NewTierSet builds a set, rejecting anything that is not a prize tier
func NewTierSet(tiers ...Tier) (TierSet, error) {
	var s TierSet
	for _, t := range tiers {
		if !t.IsPrize() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidStopTier, int(t))
		}
		s |= 1 << uint(t)
	}
	return s, nil
}

// DefaultStopTiers stops a simulation on the first sena
func DefaultStopTiers() TierSet {
	return 1 << uint(TierSena)
}

// ParseTierSet reads a comma separated list such as "4,quina,6". "none"
// and the empty string both give the empty set.
func ParseTierSet(s string) (TierSet, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return 0, nil
	}
	var set TierSet
	for _, part := range strings.Split(s, ",") {
		t, err := ParseTier(part)
		if err != nil {
			return 0, err
		}
		set |= 1 << uint(t)
	}
	return set, nil
}

// Has reports whether t is in the set
func (s TierSet) Has(t Tier) bool {
	return t.IsPrize() && s&(1<<uint(t)) != 0
}

// IsEmpty reports whether the set holds no tier
func (s TierSet) IsEmpty() bool {
	return s == 0
}

// Tiers returns the members from lowest to highest
func (s TierSet) Tiers() []Tier {
	var out []Tier
	for _, t := range PrizeTiers {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TierSet) String() string {
	tiers := s.Tiers()
	if len(tiers) == 0 {
		return "none"
	}
	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

func (s TierSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TierCounts counts occurrences of each prize tier
type TierCounts struct {
	Quadra int64 `json:"quadra"`
	Quina  int64 `json:"quina"`
	Sena   int64 `json:"sena"`
}

// Get returns the count for t
func (c TierCounts) Get(t Tier) int64 {
	switch t {
	case TierQuadra:
		return c.Quadra
	case TierQuina:
		return c.Quina
	case TierSena:
		return c.Sena
	default:
		return 0
	}
}

// Inc adds one occurrence of t; non-prize tiers are ignored
func (c *TierCounts) Inc(t Tier) {
	switch t {
	case TierQuadra:
		c.Quadra++
	case TierQuina:
		c.Quina++
	case TierSena:
		c.Sena++
	}
}

// Highest returns the best tier with at least one occurrence
func (c TierCounts) Highest() Tier {
	for i := len(PrizeTiers) - 1; i >= 0; i-- {
		if c.Get(PrizeTiers[i]) > 0 {
			return PrizeTiers[i]
		}
	}
	return TierNone
}
