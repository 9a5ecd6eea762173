package painter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-painter/internal/brush"
	"github.com/Faultbox/terrain-painter/internal/engine/terrain"
	"github.com/Faultbox/terrain-painter/internal/logger"
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Picker resolves a screen position to a point on a terrain surface.
type Picker interface {
	Pick(t *terrain.Map, screen math.Vec2) (brush.Point, bool)
}

// Resolver finds the terrain an owner may edit.
type Resolver func(owner uuid.UUID) (*terrain.Map, bool)

// PaintStarted is reported on the first tick a stroke resolves a point.
type PaintStarted struct {
	Session SessionID
	First   brush.Point
}

// PaintCompleted is reported once per committed stroke.
type PaintCompleted struct {
	Session SessionID
	Points  []brush.Point
	Regions []terrain.AdjustmentRegion
}

// Options configures a Service.
type Options struct {
	Picker   Picker
	Renderer brush.Renderer
	Resolver Resolver

	OnPaintStarted   func(PaintStarted)
	OnPaintCompleted func(PaintCompleted)
}

type completion struct {
	session SessionID
	serial  uint64
	err     error
}

// Service owns the painting sessions. All methods except render completion
// callbacks must be called from the update goroutine.
type Service struct {
	opts Options
	log  *zap.Logger

	ids      idAllocator
	sessions map[SessionID]*Session
	active   SessionID
	serial   uint64

	mu          sync.Mutex
	completions []completion
}

// NewService creates a painting service. Picker, Renderer and Resolver are
// required.
func NewService(opts Options) (*Service, error) {
	if opts.Picker == nil || opts.Renderer == nil || opts.Resolver == nil {
		return nil, errors.New("painter: picker, renderer and resolver are required")
	}
	return &Service{
		opts:     opts,
		log:      logger.Named("painter"),
		sessions: make(map[SessionID]*Session),
	}, nil
}

func (s *Service) session(id SessionID) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSession, id)
	}
	return sess, nil
}

// Session returns a registered session.
func (s *Service) Session(id SessionID) (*Session, error) {
	return s.session(id)
}

// Sessions returns the number of allocated sessions.
func (s *Service) Sessions() int {
	return len(s.sessions)
}

// BeginSession allocates a session painting owner's terrain.
func (s *Service) BeginSession(owner uuid.UUID) (SessionID, error) {
	m, ok := s.opts.Resolver(owner)
	if !ok {
		return NoSession, fmt.Errorf("%w: %s", ErrTargetNotFound, owner)
	}
	id, ok := s.ids.alloc()
	if !ok {
		return NoSession, fmt.Errorf("%w: limit %d", ErrSessionCapacity, MaxSessions)
	}
	s.sessions[id] = &Session{
		id:     id,
		target: &Target{Owner: owner, Terrain: m, Engine: brush.NewEngine(m)},
	}
	s.log.Debug("session begun", zap.Uint8("session", uint8(id)), zap.Stringer("owner", owner))
	return id, nil
}

// EndSession deactivates the session's tool, drops any stroke in flight and
// releases the id.
func (s *Service) EndSession(id SessionID) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}
	if sess.tool != nil {
		sess.tool.Deactivate()
		sess.tool = nil
	}
	if sess.stroke != nil {
		s.log.Debug("stroke dropped with session", zap.Uint8("session", uint8(id)), zap.Int("points", len(sess.stroke.points)))
		sess.stroke = nil
	}
	if s.active == id {
		s.active = NoSession
	}
	delete(s.sessions, id)
	s.ids.release(id)
	s.log.Debug("session ended", zap.Uint8("session", uint8(id)))
	return nil
}

// SetActiveSessionID routes brush input to id. NoSession clears routing.
// The previously active session stays allocated.
func (s *Service) SetActiveSessionID(id SessionID) error {
	if id != NoSession {
		if _, err := s.session(id); err != nil {
			return err
		}
	}
	s.active = id
	return nil
}

// ActiveSessionID returns the session receiving input, if any.
func (s *Service) ActiveSessionID() (SessionID, bool) {
	return s.active, s.active != NoSession
}

// SetActiveTool selects tool on a session, deactivating the previous one.
// A nil tool only deactivates.
func (s *Service) SetActiveTool(id SessionID, tool Tool) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}
	if sess.stroke != nil {
		return fmt.Errorf("%w: session %d", ErrBrushstrokeInProgress, id)
	}
	if sess.tool != nil {
		sess.tool.Deactivate()
	}
	sess.tool = tool
	sess.cursor = CursorPreview{}
	if tool == nil {
		return nil
	}
	tool.Activate(sess.target)
	params := tool.Brush()
	sess.cursor = CursorPreview{Shape: params.Shape, Radius: params.Radius, Normal: math.UnitY}
	return nil
}

// Cursor returns the session's cursor preview.
func (s *Service) Cursor(id SessionID) (CursorPreview, error) {
	sess, err := s.session(id)
	if err != nil {
		return CursorPreview{}, err
	}
	return sess.cursor, nil
}

// UpdateCursor moves the cursor preview under a screen position. The preview
// hides when nothing is under the cursor or no tool is selected.
func (s *Service) UpdateCursor(id SessionID, screen math.Vec2) (CursorPreview, error) {
	sess, err := s.session(id)
	if err != nil {
		return CursorPreview{}, err
	}
	if sess.tool == nil {
		return sess.cursor, nil
	}
	p, ok := s.opts.Picker.Pick(sess.target.Terrain, screen)
	sess.cursor.Visible = ok
	if ok {
		sess.cursor.Position = p.Position
		sess.cursor.Normal = p.Normal
	}
	return sess.cursor, nil
}

// BeginBrushstroke starts a stroke at a screen position on the active
// session. The returned handle feeds further points and ends the stroke.
func (s *Service) BeginBrushstroke(id SessionID, screen math.Vec2) (*Brushstroke, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if s.active != id {
		return nil, fmt.Errorf("%w: %d", ErrSessionInactive, id)
	}
	if sess.tool == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoTool, id)
	}
	if sess.stroke != nil {
		return nil, fmt.Errorf("%w: session %d", ErrBrushstrokeInProgress, id)
	}
	s.serial++
	sess.stroke = &stroke{
		serial:  s.serial,
		pending: []math.Vec2{screen},
		maps:    brush.NewStrokeMaps(),
	}
	return &Brushstroke{svc: s, session: id, serial: s.serial}, nil
}

// liveStroke returns the stroke a handle refers to.
func (s *Service) liveStroke(id SessionID, serial uint64) (*stroke, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if sess.stroke == nil || sess.stroke.serial != serial {
		return nil, fmt.Errorf("%w: session %d", ErrStaleBrushstroke, id)
	}
	return sess.stroke, nil
}

// complete returns the render callback for a stroke. It may be called on
// any goroutine; the result is applied by the next Update.
func (s *Service) complete(id SessionID, serial uint64) func(error) {
	return func(err error) {
		s.mu.Lock()
		s.completions = append(s.completions, completion{session: id, serial: serial, err: err})
		s.mu.Unlock()
	}
}

func (s *Service) drainCompletions() {
	s.mu.Lock()
	pending := s.completions
	s.completions = nil
	s.mu.Unlock()

	for _, c := range pending {
		sess, ok := s.sessions[c.session]
		if !ok || sess.stroke == nil || sess.stroke.serial != c.serial {
			s.log.Debug("late render completion ignored", zap.Uint8("session", uint8(c.session)), zap.Uint64("stroke", c.serial))
			continue
		}
		st := sess.stroke
		st.inFlight--
		if c.err != nil && st.failed == nil {
			st.failed = c.err
		}
	}
}

// Update runs one tick: it applies finished renders, picks pending points,
// issues render requests and commits finished strokes. Commit failures
// abort their stroke and are returned joined.
func (s *Service) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.drainCompletions()

	ids := make([]SessionID, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if sess.stroke != nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	var errs []error
	for _, id := range ids {
		if err := s.updateStroke(s.sessions[id]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) updateStroke(sess *Session) error {
	st := sess.stroke

	var fresh []brush.Point
	for _, screen := range st.pending {
		if p, ok := s.opts.Picker.Pick(sess.target.Terrain, screen); ok {
			fresh = append(fresh, p)
		}
	}
	if dropped := len(st.pending) - len(fresh); dropped > 0 {
		s.log.Debug("brush points missed terrain", zap.Uint8("session", uint8(sess.id)), zap.Int("missed", dropped))
	}
	st.pending = st.pending[:0]

	if len(fresh) > 0 {
		st.points = append(st.points, fresh...)
		st.inFlight++
		s.opts.Renderer.Render(brush.RenderRequest{
			Layout:  sess.target.Terrain,
			Params:  sess.tool.Brush(),
			Points:  fresh,
			Targets: st.maps,
			Final:   st.final,
		}, s.complete(sess.id, st.serial))

		if !st.started {
			st.started = true
			sess.tool.PaintStarted(fresh[0])
			if s.opts.OnPaintStarted != nil {
				s.opts.OnPaintStarted(PaintStarted{Session: sess.id, First: fresh[0]})
			}
		}
		return nil
	}

	if !st.final || st.inFlight > 0 {
		return nil
	}

	sess.stroke = nil
	if st.failed != nil {
		s.log.Error("stroke render failed", zap.Uint8("session", uint8(sess.id)), zap.Error(st.failed))
		return fmt.Errorf("painter: session %d: render: %w", sess.id, st.failed)
	}
	if len(st.points) == 0 {
		s.log.Debug("stroke ended without touching terrain", zap.Uint8("session", uint8(sess.id)))
		return nil
	}

	regions, err := sess.tool.PaintCompleted(st.points, st.maps)
	if err != nil {
		s.log.Error("stroke commit failed", zap.Uint8("session", uint8(sess.id)), zap.Error(err))
		return fmt.Errorf("painter: session %d: %w", sess.id, err)
	}
	s.log.Debug("stroke committed",
		zap.Uint8("session", uint8(sess.id)),
		zap.String("tool", sess.tool.Name()),
		zap.Int("points", len(st.points)),
		zap.Int("regions", len(regions)))
	if s.opts.OnPaintCompleted != nil {
		s.opts.OnPaintCompleted(PaintCompleted{Session: sess.id, Points: st.points, Regions: regions})
	}
	return nil
}
