package sim

import "fmt"

// LogTopicEvent is the topic under which the EventLogger writes.
const LogTopicEvent = "event"

// EventLogger is a hook that prints the event information
type EventLogger struct {
	logger *TopicLogger
}

// NewEventLogger returns a hook that writes one line per dispatched event
// through the given TopicLogger.
func NewEventLogger(logger *TopicLogger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*Event)
	if !ok {
		return
	}

	h.logger.Log(LogTopicEvent,
		fmt.Sprintf("%d, %s (id %s)", evt.Time(), evt.Name(), evt.ID()))
}
