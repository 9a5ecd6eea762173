// Package noise generates starting heightmaps from perlin noise.
package noise

import (
	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/terrain-painter/pkg/grid"
)

// Options controls the generated terrain.
type Options struct {
	Seed      int64
	Frequency float64 // Detail noise cycles per heightmap vertex
	Amplitude float64 // Detail swing around the base level, in normalized height
	Base      float64 // Normalized height of flat ground
}

// DefaultOptions returns gentle rolling hills around mid height.
func DefaultOptions(seed int64) Options {
	return Options{
		Seed:      seed,
		Frequency: 0.02,
		Amplitude: 0.35,
		Base:      0.5,
	}
}

// Generator generates a heightmap using perlin noise.
type Generator struct {
	opts Options

	detail *perlin.Perlin // for smaller/higher frequency details
	zone   *perlin.Perlin // for larger/lower frequency relief
}

// New creates a new Generator from options.
func New(opts Options) *Generator {
	return &Generator{
		opts:   opts,
		detail: perlin.NewPerlin(1.5, 2.0, 4, opts.Seed),
		zone:   perlin.NewPerlin(2.5, 3.0, 4, opts.Seed+1),
	}
}

// Generate returns a lengthX by lengthY heightmap with values in [0,1].
func (g *Generator) Generate(lengthX, lengthY int) *grid.Grid[float32] {
	hm := grid.New[float32](lengthX, lengthY)
	f := g.opts.Frequency
	zoneF := f * 0.15

	for y := range lengthY {
		for x := range lengthX {
			fx, fy := float64(x), float64(y)

			h := g.detail.Noise2D(fx*f, fy*f) * g.opts.Amplitude

			// Zone is very low frequency
			zone := g.zone.Noise2D(fx*zoneF, fy*zoneF)*2.0 + 0.6
			h *= clamp(zone, 0, 1)

			hm.Set(x, y, float32(clamp(g.opts.Base+h, 0, 1)))
		}
	}
	return hm
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
