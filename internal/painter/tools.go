package painter

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terrain-painter/internal/brush"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
)

var errToolInactive = errors.New("painter: tool is not active")

// Tool is a paint tool selected on a session.
type Tool interface {
	Name() string
	Brush() brush.Params
	Activate(t *Target)
	Deactivate()
	// PaintStarted receives the first resolved point of a stroke.
	PaintStarted(first brush.Point)
	// PaintCompleted commits a finished stroke and returns what it applied.
	PaintCompleted(points []brush.Point, maps *brush.StrokeMaps) ([]terrain.AdjustmentRegion, error)
}

// HeightTool raises, lowers, smooths or flattens terrain.
type HeightTool struct {
	Mode     brush.HeightMode
	Params   brush.Params
	Strength float32 // World height added by a full-intensity Raise

	target        *Target
	flattenTarget float32
}

// NewHeightTool creates a height tool.
func NewHeightTool(mode brush.HeightMode, params brush.Params, strength float32) *HeightTool {
	return &HeightTool{Mode: mode, Params: params, Strength: strength}
}

func (h *HeightTool) Name() string        { return "height/" + h.Mode.String() }
func (h *HeightTool) Brush() brush.Params { return h.Params }
func (h *HeightTool) Activate(t *Target)  { h.target = t }
func (h *HeightTool) Deactivate()         { h.target = nil }

// PaintStarted captures the flatten height under the first point.
func (h *HeightTool) PaintStarted(first brush.Point) {
	if h.target != nil {
		h.flattenTarget = h.target.Engine.FlattenTarget(first)
	}
}

// PaintCompleted computes and commits the stroke's height adjustments.
func (h *HeightTool) PaintCompleted(_ []brush.Point, maps *brush.StrokeMaps) ([]terrain.AdjustmentRegion, error) {
	if h.target == nil {
		return nil, fmt.Errorf("%w: %s", errToolInactive, h.Name())
	}
	return h.target.Engine.CommitHeight(h.Mode, maps, brush.HeightParams{
		Strength:      h.Strength,
		Range:         h.target.Terrain.HeightRange(),
		FlattenTarget: h.flattenTarget,
	})
}

// WeightTool paints or erases one material layer.
type WeightTool struct {
	Mode     brush.WeightMode
	Material uint8
	Params   brush.Params

	target *Target
}

// NewWeightTool creates a material weight tool.
func NewWeightTool(mode brush.WeightMode, material uint8, params brush.Params) *WeightTool {
	return &WeightTool{Mode: mode, Material: material, Params: params}
}

func (w *WeightTool) Name() string               { return fmt.Sprintf("weight/%s/%d", w.Mode, w.Material) }
func (w *WeightTool) Brush() brush.Params        { return w.Params }
func (w *WeightTool) Activate(t *Target)         { w.target = t }
func (w *WeightTool) Deactivate()                { w.target = nil }
func (w *WeightTool) PaintStarted(_ brush.Point) {}

// PaintCompleted computes and commits the stroke's weight adjustments.
func (w *WeightTool) PaintCompleted(_ []brush.Point, maps *brush.StrokeMaps) ([]terrain.AdjustmentRegion, error) {
	if w.target == nil {
		return nil, fmt.Errorf("%w: %s", errToolInactive, w.Name())
	}
	return w.target.Engine.CommitWeight(w.Mode, w.Material, maps)
}
