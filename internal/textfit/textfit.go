// Package textfit shortens status labels to fit a pixel budget.
//
// The budget scales with the primary display: a wide display earns a fixed
// bonus and the whole budget is multiplied by the display scale factor.
package textfit

import (
	"strings"
)

// Ellipsis is appended to every shortened label.
const Ellipsis = "…"

// Defaults for [Fitter].
const (
	DefaultBaseMaxWidth  = 40.0
	DefaultWideBonus     = 65.0
	DefaultWideThreshold = 1600
)

// Measurer reports the rendered width of text in pixels.
type Measurer interface {
	Measure(text string) float64
}

// MeasureFunc adapts a function to [Measurer].
type MeasureFunc func(text string) float64

// Measure calls f(text).
func (f MeasureFunc) Measure(text string) float64 {
	return f(text)
}

// Display describes the primary display the label is shown on.
type Display struct {
	// LogicalWidth is the display width in logical pixels.
	LogicalWidth int
	// ScaleFactor is the device pixel ratio. Zero means 1.
	ScaleFactor float64
}

// Fitter fits labels into a display-dependent budget.
type Fitter struct {
	Measurer Measurer

	// BaseMaxWidth is the budget in logical pixels before bonuses.
	BaseMaxWidth float64
	// WideBonus is added to BaseMaxWidth on displays wider than WideThreshold.
	WideBonus float64
	// WideThreshold is the logical width above which WideBonus applies.
	WideThreshold int
}

// New returns a Fitter with the default budget measured by m.
func New(m Measurer) Fitter {
	return Fitter{
		Measurer:      m,
		BaseMaxWidth:  DefaultBaseMaxWidth,
		WideBonus:     DefaultWideBonus,
		WideThreshold: DefaultWideThreshold,
	}
}

// Budget returns the effective maximum width in device pixels for d.
func (f Fitter) Budget(d Display) float64 {
	width := f.BaseMaxWidth
	if d.LogicalWidth > f.WideThreshold {
		width += f.WideBonus
	}

	scale := d.ScaleFactor
	if scale <= 0 {
		scale = 1
	}

	return width * scale
}

// Fit returns text unchanged when it fits the budget for d. Otherwise it
// drops trailing runes until text plus [Ellipsis] fits and returns that,
// trimmed, with the ellipsis appended. When nothing fits the result is the
// bare ellipsis.
func (f Fitter) Fit(text string, d Display) string {
	return f.FitWidth(text, f.Budget(d))
}

// FitWidth is [Fitter.Fit] with an explicit budget in device pixels.
func (f Fitter) FitWidth(text string, budget float64) string {
	if f.Measurer.Measure(text) <= budget {
		return text
	}

	runes := []rune(text)
	for len(runes) > 0 && f.Measurer.Measure(string(runes)+Ellipsis) > budget {
		runes = runes[:len(runes)-1]
	}

	return strings.TrimSpace(string(runes)) + Ellipsis
}
