package textfit

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ReferenceSize is the pixel size of the reference face.
const ReferenceSize = 14

// FaceMeasurer measures text with a font face.
//
// A [font.Face] is not safe for concurrent use, so calls are serialised.
type FaceMeasurer struct {
	mu   sync.Mutex
	face font.Face
}

// NewFaceMeasurer wraps face.
func NewFaceMeasurer(face font.Face) *FaceMeasurer {
	return &FaceMeasurer{face: face}
}

// NewReferenceMeasurer measures with Go Regular at [ReferenceSize] pixels,
// the stand-in for the platform's sans-serif text face.
func NewReferenceMeasurer() (*FaceMeasurer, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse reference font: %w", err)
	}

	// 72 DPI makes Size a pixel size.
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    ReferenceSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create reference face: %w", err)
	}

	return NewFaceMeasurer(face), nil
}

// Measure returns the advance width of text in pixels.
func (m *FaceMeasurer) Measure(text string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	adv := font.MeasureString(m.face, text)

	return float64(adv) / 64
}

// Close releases the face.
func (m *FaceMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.face.Close()
}
