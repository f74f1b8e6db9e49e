package sim

// VTimeInTick defines the time in the simulated space in the unit of one
// logical tick.
type VTimeInTick int64

// TimeUnset marks an event that has not been assigned a scheduling time yet.
// Tick 0 is a valid time and is distinct from unset.
const TimeUnset VTimeInTick = -1

// Properties is an open bag of named values carried by events and entities.
type Properties map[string]any

// Clone returns an independent shallow copy of the bag.
func (p Properties) Clone() Properties {
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Merge writes every entry of other into the bag, overriding existing keys.
func (p Properties) Merge(other Properties) {
	for k, v := range other {
		p[k] = v
	}
}

// An Event is something going to happen in the future. The name and the ID
// never change after creation. The time is assigned by the queue that admits
// the event and is authoritative once the event has been enqueued.
type Event struct {
	name  string
	id    string
	time  VTimeInTick
	Props Properties
}

// NewEvent creates an event with the given name and no scheduling time. The
// ID comes from the process-wide ID generator.
func NewEvent(name string) *Event {
	return &Event{
		name:  name,
		id:    GetIDGenerator().Generate(),
		time:  TimeUnset,
		Props: Properties{},
	}
}

// WithProp sets one property on the event and returns the event, so a
// payload can be attached at the creation site.
func (e *Event) WithProp(key string, value any) *Event {
	e.Props[key] = value
	return e
}

// Name returns the immutable event name.
func (e *Event) Name() string {
	return e.name
}

// ID returns the immutable unique identifier of the event.
func (e *Event) ID() string {
	return e.id
}

// Time returns the time the event is scheduled to happen, or TimeUnset.
func (e *Event) Time() VTimeInTick {
	return e.time
}

// SetTime assigns the scheduling time. Queues call this to write the
// resolved time back onto the event.
func (e *Event) SetTime(t VTimeInTick) {
	e.time = t
}

// TimeIsSet tells if the event has been assigned a scheduling time.
func (e *Event) TimeIsSet() bool {
	return e.time != TimeUnset
}
