package sim

import "regexp"

// WildcardPattern is the catch-all priority pattern. A bucket for it is
// always present as the last effective bucket, so every event lands
// somewhere.
const WildcardPattern = "*"

type bucket struct {
	pattern string
	// matcher is nil for the wildcard bucket, which accepts every name.
	matcher *regexp.Regexp
	events  []*Event
}

func (b *bucket) accepts(name string) bool {
	return b.matcher == nil || b.matcher.MatchString(name)
}

// A BucketQueue orders the events of a single time slot by a declared
// priority pattern list. The first declared pattern whose regular expression
// matches the event name wins; events within one bucket drain in insertion
// order.
type BucketQueue struct {
	strict  bool
	locked  bool
	length  int
	buckets []*bucket
}

// NewBucketQueue creates a BucketQueue with the given priority patterns,
// highest priority first, skipping the strict validation checks on Add and
// SetPriorities.
func NewBucketQueue(patterns []string) (*BucketQueue, error) {
	return newBucketQueue(patterns, false)
}

// NewStrictBucketQueue creates a BucketQueue that validates its input: added
// events must carry a name, and the pattern list cannot be replaced once
// set.
func NewStrictBucketQueue(patterns []string) (*BucketQueue, error) {
	return newBucketQueue(patterns, true)
}

func newBucketQueue(patterns []string, strict bool) (*BucketQueue, error) {
	q := &BucketQueue{strict: strict}
	if err := q.installPatterns(patterns); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *BucketQueue) installPatterns(patterns []string) error {
	buckets := make([]*bucket, 0, len(patterns)+1)
	hasWildcard := false

	for _, p := range patterns {
		if p == WildcardPattern {
			hasWildcard = true
			buckets = append(buckets, &bucket{pattern: p})
			continue
		}

		matcher, err := regexp.Compile(`\A(?:` + p + `)\z`)
		if err != nil {
			return NewValidationError("invalid priority pattern %q: %v",
				p, err)
		}

		buckets = append(buckets, &bucket{pattern: p, matcher: matcher})
	}

	if !hasWildcard {
		buckets = append(buckets, &bucket{pattern: WildcardPattern})
	}

	q.buckets = buckets
	q.locked = len(patterns) > 0
	return nil
}

// SetPriorities installs the priority pattern list on a queue that was
// constructed without one. Replacing an already-set list is not supported:
// the strict queue reports a ValidationError, the lenient queue ignores the
// call.
func (q *BucketQueue) SetPriorities(patterns []string) error {
	if q.locked {
		if q.strict {
			return NewValidationError(
				"Updating priority list not currently supported")
		}
		return nil
	}

	queued := q.drain()

	if err := q.installPatterns(patterns); err != nil {
		for _, evt := range queued {
			_ = q.Add(evt)
		}
		return err
	}

	// Events accepted before the patterns were set re-bucket under the new
	// list, keeping their insertion order.
	for _, evt := range queued {
		if err := q.Add(evt); err != nil {
			return err
		}
	}

	return nil
}

func (q *BucketQueue) drain() []*Event {
	queued := make([]*Event, 0, q.length)
	for evt := q.Next(); evt != nil; evt = q.Next() {
		queued = append(queued, evt)
	}
	return queued
}

// Add appends the event to the first bucket whose pattern matches the event
// name. The wildcard bucket accepts everything, so a valid event always
// lands somewhere.
func (q *BucketQueue) Add(evt *Event) error {
	if q.strict && evt.Name() == "" {
		return NewValidationError("Events must have a name")
	}

	for _, b := range q.buckets {
		if !b.accepts(evt.Name()) {
			continue
		}

		b.events = append(b.events, evt)
		q.length++
		return nil
	}

	return NewInvariantViolation(
		"no bucket accepted event %q although a wildcard bucket must exist",
		evt.Name())
}

// Next removes and returns the head of the first non-empty bucket in
// priority order. It returns nil when the queue is empty.
func (q *BucketQueue) Next() *Event {
	for _, b := range q.buckets {
		if len(b.events) == 0 {
			continue
		}

		evt := b.events[0]
		b.events[0] = nil
		b.events = b.events[1:]
		q.length--
		return evt
	}

	return nil
}

// Len returns the number of events in the queue.
func (q *BucketQueue) Len() int {
	return q.length
}

// IsEmpty tells if the queue holds no events.
func (q *BucketQueue) IsEmpty() bool {
	return q.length == 0
}

// Patterns returns the effective pattern list, wildcard included.
func (q *BucketQueue) Patterns() []string {
	patterns := make([]string, len(q.buckets))
	for i, b := range q.buckets {
		patterns[i] = b.pattern
	}
	return patterns
}
