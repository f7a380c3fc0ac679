// Package pitch maps rendered pitch positions to percentage space.
package pitch

import (
	"fmt"
	"math"

	"github.com/okian/pitchside/internal/domain/model"
)

// Percentage space bounds.
const (
	Min = 0.0
	Max = 100.0
)

// Extent is the rendered size of the pitch surface in pixels.
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultExtent is the reference pitch drawing used by the recording UI.
var DefaultExtent = Extent{Width: 800, Height: 571}

// Validate rejects extents that cannot be normalized against.
func (e Extent) Validate() error {
	if e.Width <= 0 || e.Height <= 0 || math.IsNaN(e.Width) || math.IsNaN(e.Height) {
		return model.WrapKind("pitch.extent", model.ErrValidation,
			fmt.Errorf("extent %gx%g must be positive", e.Width, e.Height))
	}
	return nil
}

// Point is a position in percentage space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp bounds v to [Min, Max]. NaN clamps to Min.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return Min
	}
	return math.Max(Min, math.Min(Max, v))
}

// InBounds reports whether (x, y) already lies in percentage space.
func InBounds(x, y float64) bool {
	return x >= Min && x <= Max && y >= Min && y <= Max
}

// Normalize converts a pointer position on a surface of extent ext to
// percentage space, clamped to the pitch.
func Normalize(px, py float64, ext Extent) (Point, error) {
	if err := ext.Validate(); err != nil {
		return Point{}, err
	}
	return Point{
		X: Clamp(px / ext.Width * Max),
		Y: Clamp(py / ext.Height * Max),
	}, nil
}

// ToPixels converts a percentage point back to surface coordinates.
func ToPixels(p Point, ext Extent) (float64, float64) {
	return p.X / Max * ext.Width, p.Y / Max * ext.Height
}
