// Package kinetic runs the growing simulation on a compact routing
// structure.
//
// Edge thickness is interpolated linearly over simulation time t in [0, 1]:
// at t=0 every edge is infinitesimally thin, at t=1 it has its full input
// thickness. As edges thicken the structure must change shape at discrete
// moments: an elbow bundle's arc can start pushing through a straight bundle
// (a split) or an elbow bundle can be squeezed flat between its neighbors (a
// merge). The simulation predicts each upcoming change with a certificate,
// keeps the certificates in a time-ordered queue, and applies them one at a
// time, re-deriving certificates invalidated by each mutation.
//
// Event times have no closed form, so certificates are found numerically by
// sampling the predicate forward in fixed steps and bisecting the first
// interval where it flips. Crossings shorter than one sampling step can be
// missed; DT trades fidelity for speed.
package kinetic

import (
	"context"

	"github.com/sashagielis/MDGE/pkg/crs"
	"github.com/sashagielis/MDGE/pkg/observability"
)

const (
	// DefaultDT is the sampling step used to bracket event times.
	DefaultDT = 1e-2

	// DefaultIterations is the number of bisection refinements per bracket.
	DefaultIterations = 64
)

// Grower runs the kinetic simulation. The zero value uses the default
// sampling parameters.
type Grower struct {
	// DT is the forward sampling step for bracketing event times.
	DT float64

	// Iterations is the number of bisection steps per bracketed event.
	Iterations int
}

// NewGrower returns a Grower with the default sampling parameters.
func NewGrower() *Grower {
	return &Grower{DT: DefaultDT, Iterations: DefaultIterations}
}

// Grow advances the structure from t=0 to t=1, applying every merge and
// split event along the way. It returns the number of events applied. The
// structure is left in its bundled end state; call Unzip to recover per-edge
// geometry.
func (g *Grower) Grow(ctx context.Context, s *crs.Structure) (int, error) {
	dt := g.DT
	if dt <= 0 {
		dt = DefaultDT
	}
	iters := g.Iterations
	if iters <= 0 {
		iters = DefaultIterations
	}

	q := newQueue()
	pending := make(map[*crs.Elbow]*Event)

	t := 0.0
	for _, eb := range s.Elbows() {
		g.schedule(ctx, s, q, pending, eb, t, dt, iters)
	}

	applied := 0
	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return applied, err
		}

		ev := q.pop()
		if pending[ev.EB] != ev {
			// Superseded by a later re-derivation.
			continue
		}
		delete(pending, ev.EB)
		if !ev.EB.Alive() {
			continue
		}
		if ev.Time > t {
			t = ev.Time
		}

		switch ev.Kind {
		case MergeEvent:
			if ev.EB.Left() == ev.EB.Right() || !ev.EB.Merges(ev.Time) {
				observability.Grow().OnEventDiscarded(ctx, ev.Kind.String(), ev.Time)
				g.schedule(ctx, s, q, pending, ev.EB, ev.Time, dt, iters)
				continue
			}
			s.Merge(ev.EB.Left(), ev.EB, ev.EB.Right())
		case SplitEvent:
			if !ev.SB.Alive() || !ev.EB.Splits(ev.SB, ev.Time) {
				observability.Grow().OnEventDiscarded(ctx, ev.Kind.String(), ev.Time)
				g.schedule(ctx, s, q, pending, ev.EB, ev.Time, dt, iters)
				continue
			}
			s.Split(ev.SB, ev.EB, ev.Time)
		}

		applied++
		straights, elbows := s.TotalSize()
		observability.Grow().OnEventApplied(ctx, ev.Kind.String(), ev.Time, straights+elbows)

		// Splits and merges rewire bundles well beyond the event site, so
		// every outstanding certificate is discarded and re-derived from the
		// current time. Events still in the heap are dropped lazily through
		// the pending map.
		pending = make(map[*crs.Elbow]*Event)
		for _, eb := range s.Elbows() {
			g.schedule(ctx, s, q, pending, eb, t, dt, iters)
		}
	}

	return applied, nil
}

// schedule derives the next event for eb after time from and pushes it. An
// elbow bundle with no upcoming event before t=1 simply gets no certificate.
func (g *Grower) schedule(ctx context.Context, s *crs.Structure, q *queue, pending map[*crs.Elbow]*Event, eb *crs.Elbow, from, dt float64, iters int) {
	ev := g.nextEvent(s, eb, from, dt, iters)
	if ev == nil {
		return
	}
	pending[eb] = ev
	q.push(ev)
	observability.Grow().OnEventScheduled(ctx, ev.Kind.String(), ev.Time)
}

// nextEvent finds the earliest merge or split involving eb in (from, 1].
// Candidates are probed in a fixed order so equal-time candidates resolve
// the same way on every run.
func (g *Grower) nextEvent(s *crs.Structure, eb *crs.Elbow, from, dt float64, iters int) *Event {
	var best *Event
	if !eb.IsTerminal() {
		if t, ok := findCrossing(from, dt, iters, eb.Merges); ok {
			best = &Event{Time: t, Kind: MergeEvent, EB: eb}
		}
	}
	for _, sb := range s.Straights() {
		sb := sb
		t, ok := findCrossing(from, dt, iters, func(tt float64) bool { return eb.Splits(sb, tt) })
		if ok && (best == nil || t < best.Time) {
			best = &Event{Time: t, Kind: SplitEvent, EB: eb, SB: sb}
		}
	}
	return best
}

// findCrossing locates the first time in (from, 1] where pred flips to true.
// The interval is open at from: the state at the current time reflects
// mutations already applied there, so a predicate still true at from is a
// boundary artifact, not a new event. The returned time is the true side of
// the final bisection interval, so pred(t) holds at the reported time.
func findCrossing(from, dt float64, iters int, pred func(float64) bool) (float64, bool) {
	lo := from
	for {
		hi := lo + dt
		if hi > 1 {
			hi = 1
		}
		if pred(hi) {
			for i := 0; i < iters; i++ {
				mid := (lo + hi) / 2
				if pred(mid) {
					hi = mid
				} else {
					lo = mid
				}
			}
			return hi, true
		}
		if hi >= 1 {
			return 0, false
		}
		lo = hi
	}
}
