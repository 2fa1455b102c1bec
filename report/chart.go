package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"

	"lottosim/domain/entities"
)

// ChartStyle defines the visual style of the chart
type ChartStyle struct {
	Width     int
	Height    int
	Padding   int
	BarGap    float64
	BarColors [7][3]float64
}

// ChartGenerator renders simulation summaries as PNG images
type ChartGenerator struct {
	style ChartStyle
}

// NewChartGenerator creates a generator with the default style
func NewChartGenerator() *ChartGenerator {
	grey := [3]float64{0.55, 0.6, 0.7}
	return &ChartGenerator{
		style: ChartStyle{
			Width:   520,
			Height:  360,
			Padding: 20,
			BarGap:  10,
			BarColors: [7][3]float64{
				grey, grey, grey, grey,
				{0.35, 0.75, 1.0}, // quadra
				{1.0, 0.8, 0.2},   // quina
				{0.35, 1.0, 0.45}, // sena
			},
		},
	}
}

// GenerateSimulationChart draws the per-ticket match distribution of a run on
// a log scale, with the headline numbers above it.
func (g *ChartGenerator) GenerateSimulationChart(s entities.SimulationSummary) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("trials", s.TrialsCompleted).
			Debug("Simulation chart generation completed")
	}()

	width, height := g.style.Width, g.style.Height
	pad := float64(g.style.Padding)
	dc := gg.NewContext(width, height)
	dc.SetFillRule(gg.FillRuleWinding)

	for i := 0; i < height; i++ {
		t := float64(i) / float64(height)
		dc.SetRGB(0.02+t*0.03, 0.03+t*0.05, 0.06+t*0.1)
		dc.DrawLine(0, float64(i), float64(width), float64(i))
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	titleFace, err := loadFont(gobold.TTF, 15)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	face, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	dc.SetFontFace(titleFace)
	dc.SetRGB(1, 1, 1)
	drawSharpText(dc, fmt.Sprintf("Simulation: %s draws", FormatCount(s.TrialsCompleted)), pad, pad+10)

	dc.SetFontFace(face)
	dc.SetRGB(0.8, 0.85, 0.95)
	y := pad + 32
	for _, line := range []string{
		fmt.Sprintf("Spent %s  |  %s", FormatMoney(s.TotalCost), StopReason(s)),
		fmt.Sprintf("Quadras %s  Quinas %s  Senas %s",
			FormatCount(s.TierCounts.Quadra), FormatCount(s.TierCounts.Quina), FormatCount(s.TierCounts.Sena)),
	} {
		drawSharpText(dc, line, pad, y)
		y += 16
	}

	chartTop := y + 14
	chartBottom := float64(height) - pad - 18
	chartHeight := chartBottom - chartTop
	slot := (float64(width) - 2*pad) / float64(len(s.MatchHistogram))
	barWidth := slot - g.style.BarGap

	maxLog := 0.0
	for _, n := range s.MatchHistogram {
		maxLog = math.Max(maxLog, math.Log10(float64(n)+1))
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(pad, chartBottom, float64(width)-pad, chartBottom)
	dc.Stroke()

	for matches, n := range s.MatchHistogram {
		x := pad + float64(matches)*slot + g.style.BarGap/2
		barHeight := 0.0
		if maxLog > 0 {
			barHeight = chartHeight * math.Log10(float64(n)+1) / maxLog
		}

		color := g.style.BarColors[matches]
		dc.SetRGBA(color[0], color[1], color[2], 0.85)
		dc.DrawRectangle(x, chartBottom-barHeight, barWidth, barHeight)
		dc.Fill()

		dc.SetRGB(0.9, 0.9, 0.95)
		dc.DrawStringAnchored(fmt.Sprintf("%d", matches), x+barWidth/2, chartBottom+12, 0.5, 0.5)
		if n > 0 {
			dc.DrawStringAnchored(compact(n), x+barWidth/2, chartBottom-barHeight-8, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// compact formats large counts as 1.2k, 3.4M
func compact(n int64) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1000000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()
	dc.DrawString(text, x, y)
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}), nil
}
