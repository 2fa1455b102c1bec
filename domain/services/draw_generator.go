package services

import (
	"lottosim/domain/entities"
	"lottosim/domain/interfaces"
	"lottosim/domain/random"
)

type randomDrawGenerator struct {
	source random.Source
}

// NewDrawGenerator creates a generator drawing from source
func NewDrawGenerator(source random.Source) interfaces.DrawGenerator {
	return &randomDrawGenerator{source: source}
}

func (g *randomDrawGenerator) Generate() (entities.Draw, error) {
	return entities.GenerateDraw(g.source)
}
