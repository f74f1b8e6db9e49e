package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// An EventHandlerFunc reacts to an event delivered to the entity. The
// handler receives the owning entity explicitly and must only read and
// write that entity's state.
type EventHandlerFunc func(self *Entity, evt *Event) error

// An EntityLifecycleHandlerFunc reacts to another entity being created or
// destroyed.
type EntityLifecycleHandlerFunc func(self *Entity, other *Entity) error

// An EntityUpdateHandlerFunc reacts to another entity being updated, with
// the names of the changed fields.
type EntityUpdateHandlerFunc func(self *Entity, other *Entity, changed []string) error

// An EntityDescription is a reusable template for entities: default state
// plus handler registrations shared by all entities instantiated from it.
// Mutating a description after instantiation does not affect the entities
// already created from it.
type EntityDescription struct {
	name     string
	id       string
	defaults Properties

	eventHandlers     map[string][]EventHandlerFunc
	createdHandlers   map[string][]EntityLifecycleHandlerFunc
	destroyedHandlers map[string][]EntityLifecycleHandlerFunc
	updatedHandlers   map[string][]EntityUpdateHandlerFunc
}

// NewEntityDescription creates a template with the given entity name.
func NewEntityDescription(name string) *EntityDescription {
	return &EntityDescription{
		name:              name,
		id:                GetIDGenerator().Generate(),
		defaults:          Properties{},
		eventHandlers:     map[string][]EventHandlerFunc{},
		createdHandlers:   map[string][]EntityLifecycleHandlerFunc{},
		destroyedHandlers: map[string][]EntityLifecycleHandlerFunc{},
		updatedHandlers:   map[string][]EntityUpdateHandlerFunc{},
	}
}

// Name returns the entity name shared by all instances of the template.
func (d *EntityDescription) Name() string {
	return d.name
}

// ID returns the description's own identifier. Instances get fresh IDs.
func (d *EntityDescription) ID() string {
	return d.id
}

// SetDefault sets one entry of the default property bag.
func (d *EntityDescription) SetDefault(key string, value any) {
	d.defaults[key] = value
}

// RegisterEventHandler appends a handler for events with the given name.
// Multiple handlers per name run in registration order.
func (d *EntityDescription) RegisterEventHandler(
	eventName string,
	h EventHandlerFunc,
) error {
	if eventName == "" {
		return NewValidationError("handler key must not be empty")
	}

	d.eventHandlers[eventName] = append(d.eventHandlers[eventName], h)
	return nil
}

// RegisterCreatedHandler appends a handler that runs when an entity with
// the given name is created.
func (d *EntityDescription) RegisterCreatedHandler(
	entityName string,
	h EntityLifecycleHandlerFunc,
) error {
	if entityName == "" {
		return NewValidationError("handler key must not be empty")
	}

	d.createdHandlers[entityName] = append(d.createdHandlers[entityName], h)
	return nil
}

// RegisterDestroyedHandler appends a handler that runs when an entity with
// the given name is destroyed.
func (d *EntityDescription) RegisterDestroyedHandler(
	entityName string,
	h EntityLifecycleHandlerFunc,
) error {
	if entityName == "" {
		return NewValidationError("handler key must not be empty")
	}

	d.destroyedHandlers[entityName] =
		append(d.destroyedHandlers[entityName], h)
	return nil
}

// RegisterUpdatedHandler appends a handler that runs when an entity with
// the given name is updated.
func (d *EntityDescription) RegisterUpdatedHandler(
	entityName string,
	h EntityUpdateHandlerFunc,
) error {
	if entityName == "" {
		return NewValidationError("handler key must not be empty")
	}

	d.updatedHandlers[entityName] = append(d.updatedHandlers[entityName], h)
	return nil
}

// Instantiate builds an entity from the template. The property bag starts
// from the template defaults and is then overridden field-by-field by the
// given overrides. The handler registries are copied, so handlers always
// run against the new entity's own state.
func (d *EntityDescription) Instantiate(overrides Properties) *Entity {
	props := d.defaults.Clone()
	props.Merge(overrides)

	return &Entity{
		name:              d.name,
		id:                GetIDGenerator().Generate(),
		Props:             props,
		eventHandlers:     copyRegistry(d.eventHandlers),
		createdHandlers:   copyRegistry(d.createdHandlers),
		destroyedHandlers: copyRegistry(d.destroyedHandlers),
		updatedHandlers:   copyRegistry(d.updatedHandlers),
	}
}

func copyRegistry[H any](src map[string][]H) map[string][]H {
	dst := make(map[string][]H, len(src))
	for key, handlers := range src {
		dst[key] = append([]H(nil), handlers...)
	}
	return dst
}

// An Entity is one instance created from an EntityDescription. Whether an
// entity is active is a property of the simulation's entity set, not of the
// entity itself.
type Entity struct {
	name  string
	id    string
	Props Properties

	eventHandlers     map[string][]EventHandlerFunc
	createdHandlers   map[string][]EntityLifecycleHandlerFunc
	destroyedHandlers map[string][]EntityLifecycleHandlerFunc
	updatedHandlers   map[string][]EntityUpdateHandlerFunc
}

// Name returns the entity name, shared with its template.
func (e *Entity) Name() string {
	return e.name
}

// ID returns the instance's own unique identifier.
func (e *Entity) ID() string {
	return e.id
}

// HasEventHandler tells if any handler is registered for the event name.
func (e *Entity) HasEventHandler(eventName string) bool {
	return len(e.eventHandlers[eventName]) > 0
}

// HandleEvent invokes the handlers registered for the event's name in
// registration order. An absent key is a no-op. The first handler error
// stops the remaining handlers and propagates to the caller; use a
// Supervisor for isolated dispatch.
func (e *Entity) HandleEvent(evt *Event) error {
	for _, h := range e.eventHandlers[evt.Name()] {
		if err := h(e, evt); err != nil {
			return err
		}
	}
	return nil
}

// NotifyCreated invokes the handlers registered for the other entity's
// name, in registration order.
func (e *Entity) NotifyCreated(other *Entity) error {
	for _, h := range e.createdHandlers[other.Name()] {
		if err := h(e, other); err != nil {
			return err
		}
	}
	return nil
}

// NotifyDestroyed invokes the handlers registered for the other entity's
// name, in registration order.
func (e *Entity) NotifyDestroyed(other *Entity) error {
	for _, h := range e.destroyedHandlers[other.Name()] {
		if err := h(e, other); err != nil {
			return err
		}
	}
	return nil
}

// NotifyUpdated invokes the handlers registered for the other entity's
// name, in registration order, passing the changed field names.
func (e *Entity) NotifyUpdated(other *Entity, changed []string) error {
	for _, h := range e.updatedHandlers[other.Name()] {
		if err := h(e, other, changed); err != nil {
			return err
		}
	}
	return nil
}
