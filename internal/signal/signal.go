// Package signal carries selection and trigger events from whichever surface
// produced them to the controller.
package signal

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

type Kind string

const (
	KindSelection Kind = "selection"
	KindTrigger   Kind = "trigger"
	KindDocument  Kind = "document"
)

var ErrUnknownKind = errors.New("unknown signal kind")

// Event is one externally dispatched signal. Text is the selection or the
// document text; trigger events ignore it.
type Event struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// ParseKind accepts the wire names case-insensitively.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindSelection, KindTrigger, KindDocument:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// Channel is a buffered event queue. Emit never blocks; when the buffer is
// full the event is dropped and Emit reports false.
type Channel struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 16
	}
	return &Channel{ch: make(chan Event, size)}
}

func (c *Channel) Emit(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.ch <- ev:
		return true
	default:
		return false
	}
}

func (c *Channel) Events() <-chan Event {
	return c.ch
}

// Close stops further emits and closes the events channel. Safe to call more
// than once.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}
