package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/brush"
	"github.com/Faultbox/terrain-painter/internal/config"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/internal/painter"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// maxPaintTicks bounds the update loop waiting for the stroke to commit.
const maxPaintTicks = 16

type paintReport struct {
	Tool    string   `json:"tool"`
	Points  int      `json:"points"`
	Regions []string `json:"regions"`
	Meshes  int      `json:"meshes_invalidated"`
}

func cmdPaint(cfg *config.Config) error {
	points, err := parsePoints(config.Args())
	if err != nil {
		return err
	}
	tool, err := newTool(cfg.Brush)
	if err != nil {
		return err
	}
	m, err := loadMap(cfg)
	if err != nil {
		return err
	}

	var completed []painter.PaintCompleted
	owner := uuid.New()
	svc, err := painter.NewService(painter.Options{
		Picker:   painter.OverheadPicker{},
		Renderer: brush.Rasterizer{},
		Resolver: func(id uuid.UUID) (*terrain.Map, bool) {
			return m, id == owner
		},
		OnPaintStarted: func(e painter.PaintStarted) {
			logger.Debug("paint started", zap.Float32("x", e.First.Position.X), zap.Float32("z", e.First.Position.Z))
		},
		OnPaintCompleted: func(e painter.PaintCompleted) {
			completed = append(completed, e)
		},
	})
	if err != nil {
		return err
	}

	id, err := svc.BeginSession(owner)
	if err != nil {
		return err
	}
	defer svc.EndSession(id)
	if err := svc.SetActiveSessionID(id); err != nil {
		return err
	}
	if err := svc.SetActiveTool(id, tool); err != nil {
		return err
	}

	stroke, err := svc.BeginBrushstroke(id, points[0])
	if err != nil {
		return err
	}
	for _, p := range points[1:] {
		if err := stroke.AddPoint(p); err != nil {
			return err
		}
	}
	if err := stroke.End(); err != nil {
		return err
	}

	ctx := context.Background()
	for tick := 0; len(completed) == 0; tick++ {
		if tick == maxPaintTicks {
			return errors.New("brushstroke did not complete")
		}
		if err := svc.Update(ctx); err != nil {
			return err
		}
	}

	done := completed[0]
	report := paintReport{Tool: tool.Name(), Points: len(done.Points)}
	for _, r := range done.Regions {
		report.Regions = append(report.Regions, r.Rect().String())
		report.Meshes += len(m.MeshKeysInRect(r.Rect().Expand(1)))
	}
	logger.Info("brushstroke committed",
		zap.String("tool", report.Tool),
		zap.Int("points", report.Points),
		zap.Int("regions", len(report.Regions)))

	if len(done.Regions) > 0 {
		if err := saveMap(cfg, m); err != nil {
			return err
		}
	}
	return writeReport(report)
}

// newTool builds the brush tool selected by the brush mode. Height modes pick
// the height tool, paint and erase pick the weight tool.
func newTool(bc config.BrushConfig) (painter.Tool, error) {
	shape, err := brush.ParseShape(bc.Shape)
	if err != nil {
		return nil, err
	}
	params := brush.Params{
		Shape:   shape,
		Radius:  bc.Radius,
		Opacity: bc.Opacity,
		Falloff: bc.Falloff,
	}

	if mode, err := brush.ParseHeightMode(bc.Mode); err == nil {
		return painter.NewHeightTool(mode, params, bc.HeightStrength), nil
	}
	mode, err := brush.ParseWeightMode(bc.Mode)
	if err != nil {
		return nil, fmt.Errorf("unknown brush mode %q", bc.Mode)
	}
	return painter.NewWeightTool(mode, bc.Material, params), nil
}

// parsePoints reads "x,z" world coordinates.
func parsePoints(args []string) ([]math.Vec2, error) {
	if len(args) == 0 {
		return nil, errors.New("usage: terrainctl paint [flags] <x,z> [x,z ...]")
	}
	points := make([]math.Vec2, 0, len(args))
	for _, arg := range args {
		xs, zs, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,z", arg)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", arg, err)
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(zs), 32)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", arg, err)
		}
		points = append(points, math.Vec2{X: float32(x), Y: float32(z)})
	}
	return points, nil
}
