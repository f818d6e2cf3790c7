package errors

import (
	"context"
	"log/slog"
	"sync"
)

// Collector accumulates the non-fatal errors of a build. Each error is logged
// when it is added. A nil Collector only logs.
type Collector struct {
	mu     sync.Mutex
	items  []*ClassifiedError
	logger *slog.Logger
}

// NewCollector creates a collector logging through logger (slog.Default when nil).
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Add records err and logs it at the level matching its severity.
func (c *Collector) Add(err *ClassifiedError) {
	if err == nil {
		return
	}
	logger := slog.Default()
	if c != nil && c.logger != nil {
		logger = c.logger
	}
	attrs := make([]slog.Attr, 0, len(err.context)+1)
	for _, key := range sortedKeys(err.context) {
		attrs = append(attrs, slog.Any(key, err.context[key]))
	}
	if err.cause != nil {
		attrs = append(attrs, slog.String("error", err.cause.Error()))
	}
	logger.LogAttrs(context.Background(), slogLevelFromSeverity(err.severity), err.message, attrs...)

	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, err)
}

// Items returns a copy of the recorded errors in insertion order.
func (c *Collector) Items() []*ClassifiedError {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ClassifiedError, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of recorded errors.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
