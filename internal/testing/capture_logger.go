package testing

import (
	"fmt"
	"strings"
	"sync"
)

// CaptureLogger records every message for assertions.
// Thread-safe for concurrent use.
type CaptureLogger struct {
	mu    sync.Mutex
	lines []string
}

func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (c *CaptureLogger) Verbose(format string, args ...interface{}) { c.add("VERBOSE", format, args) }
func (c *CaptureLogger) Info(format string, args ...interface{})    { c.add("INFO", format, args) }
func (c *CaptureLogger) Error(format string, args ...interface{})   { c.add("ERROR", format, args) }

func (c *CaptureLogger) add(level, format string, args []interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, level+" "+fmt.Sprintf(format, args...))
}

// Lines returns a copy of the recorded messages, each prefixed by its level.
func (c *CaptureLogger) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Contains reports whether any recorded message contains substr.
func (c *CaptureLogger) Contains(substr string) bool {
	for _, line := range c.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Count returns the number of messages at level ("VERBOSE", "INFO" or "ERROR").
func (c *CaptureLogger) Count(level string) int {
	n := 0
	for _, line := range c.Lines() {
		if strings.HasPrefix(line, level+" ") {
			n++
		}
	}
	return n
}
