package sim

import (
	"log"
	"sync"
)

// A TopicLogger forwards messages to an underlying logger only when their
// topic is currently enabled. A nil TopicLogger drops everything, so callers
// can log fire-and-forget without checking.
type TopicLogger struct {
	mu     sync.Mutex
	logger *log.Logger
	topics map[string]bool
}

// NewTopicLogger creates a TopicLogger writing through the given logger,
// with no topics enabled.
func NewTopicLogger(logger *log.Logger) *TopicLogger {
	return &TopicLogger{
		logger: logger,
		topics: map[string]bool{},
	}
}

// EnableTopic turns a topic on.
func (l *TopicLogger) EnableTopic(topic string) {
	l.mu.Lock()
	l.topics[topic] = true
	l.mu.Unlock()
}

// DisableTopic turns a topic off.
func (l *TopicLogger) DisableTopic(topic string) {
	l.mu.Lock()
	delete(l.topics, topic)
	l.mu.Unlock()
}

// TopicEnabled tells if messages for the topic are being forwarded.
func (l *TopicLogger) TopicEnabled(topic string) bool {
	if l == nil {
		return false
	}

	l.mu.Lock()
	enabled := l.topics[topic]
	l.mu.Unlock()
	return enabled
}

// Log forwards the message if the topic is enabled. It never fails.
func (l *TopicLogger) Log(topic, message string) {
	if l == nil || !l.TopicEnabled(topic) {
		return
	}

	l.mu.Lock()
	logger := l.logger
	l.mu.Unlock()

	if logger == nil {
		return
	}

	logger.Printf("[%s] %s", topic, message)
}
