package painter

import (
	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Brushstroke is the handle of an in-progress stroke.
type Brushstroke struct {
	svc     *Service
	session SessionID
	serial  uint64
	ended   bool
}

// Session returns the session the stroke belongs to.
func (b *Brushstroke) Session() SessionID { return b.session }

// AddPoint queues another screen position for the next Update.
func (b *Brushstroke) AddPoint(screen math.Vec2) error {
	st, err := b.svc.liveStroke(b.session, b.serial)
	if err != nil {
		return err
	}
	if st.final {
		return ErrStaleBrushstroke
	}
	st.pending = append(st.pending, screen)
	return nil
}

// End marks the stroke final. The commit happens on a later Update, once
// the last points are picked and rendered.
func (b *Brushstroke) End() error {
	st, err := b.svc.liveStroke(b.session, b.serial)
	if err != nil {
		return err
	}
	if st.final {
		return ErrStaleBrushstroke
	}
	st.final = true
	b.ended = true
	return nil
}

// Close ends the stroke if it has not been ended yet.
func (b *Brushstroke) Close() error {
	if b.ended {
		return nil
	}
	return b.End()
}
