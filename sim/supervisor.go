package sim

import "fmt"

// LogTopicDispatch is the topic under which the Supervisor reports handler
// failures.
const LogTopicDispatch = "dispatch"

// A Supervisor dispatches to entities while isolating handler failures: an
// error or panic in one handler is reported to the topic logger and does
// not prevent the remaining handlers from running. The queues and
// registries of the scheduling core are never affected by a failing
// handler.
type Supervisor struct {
	logger *TopicLogger
}

// NewSupervisor creates a Supervisor reporting through the given logger.
// A nil logger silently drops the reports.
func NewSupervisor(logger *TopicLogger) *Supervisor {
	return &Supervisor{logger: logger}
}

// DispatchEvent delivers the event to the target entity, running every
// registered handler even if earlier ones fail. It returns the collected
// handler errors.
func (s *Supervisor) DispatchEvent(
	target *Entity,
	evt *Event,
) []*HandlerError {
	var failures []*HandlerError
	for _, h := range target.eventHandlers[evt.Name()] {
		handler := h
		if hErr := s.run(target, evt.Name(), func() error {
			return handler(target, evt)
		}); hErr != nil {
			failures = append(failures, hErr)
		}
	}
	return failures
}

// DispatchCreated notifies the target entity that another entity came into
// existence.
func (s *Supervisor) DispatchCreated(
	target *Entity,
	other *Entity,
) []*HandlerError {
	return s.dispatchLifecycle(target, other, target.createdHandlers)
}

// DispatchDestroyed notifies the target entity that another entity was
// removed from the simulation.
func (s *Supervisor) DispatchDestroyed(
	target *Entity,
	other *Entity,
) []*HandlerError {
	return s.dispatchLifecycle(target, other, target.destroyedHandlers)
}

// DispatchUpdated notifies the target entity that another entity's fields
// changed.
func (s *Supervisor) DispatchUpdated(
	target *Entity,
	other *Entity,
	changed []string,
) []*HandlerError {
	var failures []*HandlerError
	for _, h := range target.updatedHandlers[other.Name()] {
		handler := h
		if hErr := s.run(target, other.Name(), func() error {
			return handler(target, other, changed)
		}); hErr != nil {
			failures = append(failures, hErr)
		}
	}
	return failures
}

func (s *Supervisor) dispatchLifecycle(
	target *Entity,
	other *Entity,
	registry map[string][]EntityLifecycleHandlerFunc,
) []*HandlerError {
	var failures []*HandlerError
	for _, h := range registry[other.Name()] {
		handler := h
		if hErr := s.run(target, other.Name(), func() error {
			return handler(target, other)
		}); hErr != nil {
			failures = append(failures, hErr)
		}
	}
	return failures
}

func (s *Supervisor) run(
	target *Entity,
	key string,
	invoke func() error,
) *HandlerError {
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()

		err = invoke()
	}()

	if err == nil {
		return nil
	}

	hErr := &HandlerError{
		EntityName: target.Name(),
		EntityID:   target.ID(),
		Key:        key,
		Err:        err,
	}
	s.logger.Log(LogTopicDispatch, hErr.Error())

	return hErr
}
