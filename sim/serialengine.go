package sim

import "sync"

// LogTopicEngine is the topic under which the SerialEngine reports.
const LogTopicEngine = "engine"

// A SerialEngine is an Engine that always run events one after another.
type SerialEngine struct {
	HookableBase

	queueLock sync.Mutex
	queue     *TimedQueue

	router EventRouter
	logger *TopicLogger

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine draining a strict TimedQueue with
// the given priority patterns.
func NewSerialEngine(patterns []string) (*SerialEngine, error) {
	queue, err := NewStrictTimedQueue(patterns)
	if err != nil {
		return nil, err
	}

	return NewSerialEngineWithQueue(queue), nil
}

// NewSerialEngineWithQueue creates a SerialEngine draining the given queue.
// The queue must not be shared with any other engine.
func NewSerialEngineWithQueue(queue *TimedQueue) *SerialEngine {
	return &SerialEngine{queue: queue}
}

// RegisterRouter sets the router that dequeued events are delivered to.
// Events popped while no router is registered are dropped.
func (e *SerialEngine) RegisterRouter(r EventRouter) {
	e.router = r
}

// RegisterLogger sets the topic logger the engine reports through.
func (e *SerialEngine) RegisterLogger(l *TopicLogger) {
	e.logger = l
}

// Schedule register an event to be happen in the future
func (e *SerialEngine) Schedule(evt *Event) error {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return e.queue.Add(evt)
}

// ScheduleAt registers an event to happen at the given tick.
func (e *SerialEngine) ScheduleAt(evt *Event, t VTimeInTick) error {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return e.queue.AddAt(evt, t)
}

// Run processes all the events scheduled in the SerialEngine
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		evt := e.nextEvent()
		if evt == nil {
			return nil
		}

		e.pauseLock.Lock()

		hookCtx := HookCtx{
			Domain: e,
			Pos:    HookPosBeforeEvent,
			Item:   evt,
		}
		e.InvokeHook(hookCtx)

		if e.router != nil {
			e.router.RouteEvent(evt)
		} else {
			e.logger.Log(LogTopicEngine,
				"no router registered, dropping event "+evt.Name())
		}

		hookCtx.Pos = HookPosAfterEvent
		e.InvokeHook(hookCtx)

		e.pauseLock.Unlock()
	}
}

func (e *SerialEngine) nextEvent() *Event {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return e.queue.Next()
}

// Pause prevents the SerialEngine to trigger more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the current time at which the engine is at.
// Specifically, the tick of the event being handled.
func (e *SerialEngine) CurrentTime() VTimeInTick {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return e.queue.CurrentTime()
}

// QueueLen returns the number of events waiting in the engine's queue.
func (e *SerialEngine) QueueLen() int {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return e.queue.Len()
}

// NextEventTime returns the tick of the next due event, or TimeUnset when
// no event is queued.
func (e *SerialEngine) NextEventTime() VTimeInTick {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return e.queue.NextTime()
}

// RegisterSimulationEndHandler registers a handler to be called after the
// simulation ends.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}
