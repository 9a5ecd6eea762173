// Package brush turns rendered brushstrokes into heightmap and material
// weight adjustments.
package brush

import (
	"fmt"
	"strings"

	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Shape is the footprint of a brush stamp.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape parses a shape name.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(name) {
	case "circle":
		return ShapeCircle, nil
	case "square":
		return ShapeSquare, nil
	default:
		return 0, fmt.Errorf("brush: unknown shape %q", name)
	}
}

// HeightMode selects how a stroke changes terrain height.
type HeightMode int

const (
	Raise HeightMode = iota
	Lower
	Smooth
	Flatten
)

func (m HeightMode) String() string {
	switch m {
	case Raise:
		return "raise"
	case Lower:
		return "lower"
	case Smooth:
		return "smooth"
	case Flatten:
		return "flatten"
	default:
		return fmt.Sprintf("HeightMode(%d)", int(m))
	}
}

// ParseHeightMode parses a height mode name.
func ParseHeightMode(name string) (HeightMode, error) {
	for _, m := range []HeightMode{Raise, Lower, Smooth, Flatten} {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("brush: unknown height mode %q", name)
}

// WeightMode selects how a stroke changes a material weight layer.
type WeightMode int

const (
	Paint WeightMode = iota
	Erase
)

func (m WeightMode) String() string {
	switch m {
	case Paint:
		return "paint"
	case Erase:
		return "erase"
	default:
		return fmt.Sprintf("WeightMode(%d)", int(m))
	}
}

// ParseWeightMode parses a weight mode name.
func ParseWeightMode(name string) (WeightMode, error) {
	for _, m := range []WeightMode{Paint, Erase} {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("brush: unknown weight mode %q", name)
}

// Params describes the brush stamped at every point of a stroke.
type Params struct {
	Shape   Shape
	Radius  float32 // World units
	Opacity float32 // Intensity of one stamp, [0,1]
	Falloff float32 // Fraction of the radius that fades out, [0,1]
}

// DefaultParams returns a soft round brush.
func DefaultParams() Params {
	return Params{Shape: ShapeCircle, Radius: 4, Opacity: 0.5, Falloff: 0.5}
}

// Point is one resolved brush stamp on the terrain surface.
type Point struct {
	Position math.Vec3
	Normal   math.Vec3
	Strength float32
}
