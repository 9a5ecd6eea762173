// Package painter runs terrain painting sessions: it turns brushstrokes
// gathered from screen input into committed terrain edits.
package painter

import (
	"errors"

	"github.com/google/uuid"

	"github.com/Faultbox/terrain-painter/internal/brush"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// SessionID identifies a painting session. Zero means no session.
type SessionID uint8

const (
	// NoSession is the zero SessionID.
	NoSession SessionID = 0
	// MaxSessions is the number of sessions that may exist at once.
	MaxSessions = 254
)

// Painter errors.
var (
	ErrUnknownSession        = errors.New("painter: unknown session")
	ErrSessionCapacity       = errors.New("painter: too many sessions")
	ErrTargetNotFound        = errors.New("painter: no editable terrain for owner")
	ErrSessionInactive       = errors.New("painter: session is not the active session")
	ErrNoTool                = errors.New("painter: session has no tool")
	ErrBrushstrokeInProgress = errors.New("painter: brushstroke in progress")
	ErrStaleBrushstroke      = errors.New("painter: brushstroke already ended")
)

// Target is the editable terrain a session paints on.
type Target struct {
	Owner   uuid.UUID
	Terrain *terrain.Map
	Engine  *brush.Engine
}

// CursorPreview is the hover visual of the selected tool.
type CursorPreview struct {
	Visible  bool
	Position math.Vec3
	Normal   math.Vec3
	Shape    brush.Shape
	Radius   float32
}

// Session is one allocated painting session.
type Session struct {
	id     SessionID
	target *Target
	tool   Tool
	cursor CursorPreview
	stroke *stroke
}

// ID returns the session id.
func (s *Session) ID() SessionID { return s.id }

// Target returns the terrain being painted.
func (s *Session) Target() *Target { return s.target }

// Tool returns the selected tool, or nil.
func (s *Session) Tool() Tool { return s.tool }

// stroke is the state of one brushstroke between begin and commit.
type stroke struct {
	serial   uint64
	pending  []math.Vec2 // Screen points not yet picked
	points   []brush.Point
	maps     *brush.StrokeMaps
	started  bool
	final    bool
	inFlight int
	failed   error
}

// idAllocator hands out session ids 1..MaxSessions, reusing released ids.
type idAllocator struct {
	next SessionID
	free []SessionID
}

func (a *idAllocator) alloc() (SessionID, bool) {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		return id, true
	}
	if a.next == 0 {
		a.next = 1
	}
	if int(a.next) > MaxSessions {
		return NoSession, false
	}
	id := a.next
	a.next++
	return id, true
}

func (a *idAllocator) release(id SessionID) {
	a.free = append(a.free, id)
}
