package kinetic

import (
	"container/heap"

	"github.com/sashagielis/MDGE/pkg/crs"
)

// EventKind identifies the mutation an event certifies.
type EventKind int

const (
	// MergeEvent fires when an elbow bundle degenerates and its two straight
	// bundles must fuse.
	MergeEvent EventKind = iota

	// SplitEvent fires when an elbow bundle's outer arc starts properly
	// intersecting a non-adjacent straight bundle, which must be cut in two.
	SplitEvent
)

func (k EventKind) String() string {
	if k == MergeEvent {
		return "merge"
	}
	return "split"
}

// Event is a certificate that a structural change happens at Time. SB is the
// straight bundle being cut for split events and nil for merge events.
type Event struct {
	Time float64
	Kind EventKind
	EB   *crs.Elbow
	SB   *crs.Straight

	seq uint64
}

// queue is a min-heap of events ordered by time. Events at the same time
// apply merges before splits so a degenerate elbow is gone before anything
// splits against its former neighbors; remaining ties break by insertion
// order to keep runs deterministic.
type queue struct {
	events []*Event
	seq    uint64
}

func newQueue() *queue { return &queue{} }

func (q *queue) Len() int { return len(q.events) }

func (q *queue) Less(i, j int) bool {
	a, b := q.events[i], q.events[j]
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Kind != b.Kind {
		return a.Kind == MergeEvent
	}
	return a.seq < b.seq
}

func (q *queue) Swap(i, j int) { q.events[i], q.events[j] = q.events[j], q.events[i] }

func (q *queue) Push(x any) { q.events = append(q.events, x.(*Event)) }

func (q *queue) Pop() any {
	old := q.events
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	q.events = old[:n-1]
	return ev
}

func (q *queue) push(ev *Event) {
	ev.seq = q.seq
	q.seq++
	heap.Push(q, ev)
}

func (q *queue) pop() *Event { return heap.Pop(q).(*Event) }
