package sim

import "container/heap"

// A TimedQueue is a sparse mapping from integer logical time to one
// BucketQueue per occupied tick. Draining it yields events in the total
// order (time ascending, priority-bucket rank ascending, insertion order
// ascending), which is what makes simulation runs reproducible.
type TimedQueue struct {
	strict      bool
	patterns    []string
	patternsSet bool

	currentTime VTimeInTick
	nextTime    VTimeInTick
	length      int

	buckets map[VTimeInTick]*BucketQueue

	// occupied is a min-heap over the keys of buckets. It replaces the
	// tick-by-tick scan for the next occupied time without changing the
	// emission order.
	occupied tickHeap
}

// NewTimedQueue creates a TimedQueue whose per-tick buckets use the given
// priority patterns, without the strict validation checks.
func NewTimedQueue(patterns []string) (*TimedQueue, error) {
	return newTimedQueue(patterns, false)
}

// NewStrictTimedQueue creates a TimedQueue that rejects nameless events,
// scheduling at or before the current time, and pattern reconfiguration.
func NewStrictTimedQueue(patterns []string) (*TimedQueue, error) {
	return newTimedQueue(patterns, true)
}

func newTimedQueue(patterns []string, strict bool) (*TimedQueue, error) {
	// Compiling a throwaway bucket queue surfaces bad patterns at
	// construction time rather than on the first Add.
	if _, err := newBucketQueue(patterns, strict); err != nil {
		return nil, err
	}

	q := &TimedQueue{
		strict:      strict,
		patterns:    patterns,
		patternsSet: len(patterns) > 0,
		nextTime:    TimeUnset,
		buckets:     map[VTimeInTick]*BucketQueue{},
	}
	heap.Init(&q.occupied)

	return q, nil
}

// SetPriorities installs the priority pattern list used by buckets created
// from now on. Replacing an already-set list is not supported: the strict
// queue reports a ValidationError, the lenient queue ignores the call.
func (q *TimedQueue) SetPriorities(patterns []string) error {
	if q.patternsSet {
		if q.strict {
			return NewValidationError(
				"Updating priority list not currently supported")
		}
		return nil
	}

	if _, err := newBucketQueue(patterns, q.strict); err != nil {
		return err
	}

	q.patterns = patterns
	q.patternsSet = len(patterns) > 0
	return nil
}

// Add schedules the event at the event's own time if it has one, otherwise
// at currentTime+1. The resolved time is written back onto the event.
func (q *TimedQueue) Add(evt *Event) error {
	t := q.currentTime + 1
	if evt.TimeIsSet() {
		t = evt.Time()
	}
	return q.addAt(evt, t)
}

// AddAt schedules the event at the explicitly given tick, overriding any
// time already carried by the event.
func (q *TimedQueue) AddAt(evt *Event, t VTimeInTick) error {
	return q.addAt(evt, t)
}

func (q *TimedQueue) addAt(evt *Event, t VTimeInTick) error {
	if q.strict {
		if evt.Name() == "" {
			return NewValidationError("Events must have a name")
		}

		if t <= q.currentTime {
			return NewValidationError(
				"cannot schedule event %q at time %d, current time is %d",
				evt.Name(), t, q.currentTime)
		}
	}

	evt.SetTime(t)

	bq, found := q.buckets[t]
	if !found {
		var err error
		bq, err = newBucketQueue(q.patterns, q.strict)
		if err != nil {
			return err
		}

		q.buckets[t] = bq
		heap.Push(&q.occupied, t)
	}

	if err := bq.Add(evt); err != nil {
		if bq.IsEmpty() {
			q.dropBucket(t)
		}
		return err
	}

	q.length++
	if q.nextTime == TimeUnset || t < q.nextTime {
		q.nextTime = t
	}

	return nil
}

// Next removes and returns the next due event. It returns nil when the
// queue is empty, without moving the time cursor.
func (q *TimedQueue) Next() *Event {
	if q.length == 0 {
		return nil
	}

	t := q.occupied[0]
	if t > q.currentTime {
		q.currentTime = t
	}

	bq := q.buckets[t]
	if bq == nil || bq.IsEmpty() {
		panic(NewInvariantViolation(
			"occupied tick %d has no queued events", t))
	}

	evt := bq.Next()
	q.length--

	if bq.IsEmpty() {
		q.dropBucket(t)
		if q.length == 0 {
			q.nextTime = TimeUnset
		} else {
			q.nextTime = q.occupied[0]
		}
	} else {
		q.nextTime = t
	}

	return evt
}

func (q *TimedQueue) dropBucket(t VTimeInTick) {
	delete(q.buckets, t)
	for i, occupied := range q.occupied {
		if occupied == t {
			heap.Remove(&q.occupied, i)
			break
		}
	}
}

// Len returns the total number of queued events across all ticks.
func (q *TimedQueue) Len() int {
	return q.length
}

// IsEmpty tells if no events are queued.
func (q *TimedQueue) IsEmpty() bool {
	return q.length == 0
}

// CurrentTime returns the tick the queue has advanced to. It starts at 0
// and never decreases.
func (q *TimedQueue) CurrentTime() VTimeInTick {
	return q.currentTime
}

// NextTime returns the smallest tick holding at least one queued event, or
// TimeUnset when the queue is empty.
func (q *TimedQueue) NextTime() VTimeInTick {
	return q.nextTime
}

type tickHeap []VTimeInTick

// Len returns the number of occupied ticks.
func (h tickHeap) Len() int {
	return len(h)
}

// Less determines the order between two occupied ticks.
func (h tickHeap) Less(i, j int) bool {
	return h[i] < h[j]
}

// Swap changes the position of two ticks in the heap.
func (h tickHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds a tick into the heap.
func (h *tickHeap) Push(x interface{}) {
	*h = append(*h, x.(VTimeInTick))
}

// Pop removes and returns the largest-index tick of the heap.
func (h *tickHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[0 : n-1]
	return t
}
