package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ConsoleLogger implements core.Logger by collecting messages for a single
// render so they can be returned to the client with the result. Render
// workers log concurrently, so access is guarded by a mutex.
type ConsoleLogger struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	server   log.Logger
}

// NewConsoleLogger creates a console logger that also forwards each message
// to the server log at debug level. server may be nil.
func NewConsoleLogger(server log.Logger) *ConsoleLogger {
	return &ConsoleLogger{server: server}
}

// Printf implements core.Logger interface
func (c *ConsoleLogger) Printf(format string, args ...interface{}) {
	c.record(fmt.Sprintf(format, args...))
}

// Debugf implements core.Logger interface. Detail lines are kept in the
// console like any other message.
func (c *ConsoleLogger) Debugf(format string, args ...interface{}) {
	c.record(fmt.Sprintf(format, args...))
}

func (c *ConsoleLogger) record(message string) {
	message = strings.TrimRight(message, "\n")

	if c.server != nil {
		c.server.Debug(message)
	}

	c.mu.Lock()
	c.messages = append(c.messages, ConsoleMessage{Message: message, Timestamp: time.Now()})
	c.mu.Unlock()
}

// Messages returns a copy of the collected messages in logging order
func (c *ConsoleLogger) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ConsoleMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
