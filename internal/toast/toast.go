// Package toast carries transient user notifications from whoever raises
// them to every mounted surface that renders them.
package toast

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Variant string

const (
	Default     Variant = "default"
	Success     Variant = "success"
	Warning     Variant = "warning"
	Destructive Variant = "destructive"
)

func (v Variant) Valid() bool {
	switch v {
	case Default, Success, Warning, Destructive:
		return true
	}
	return false
}

type Toast struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     Variant   `json:"variant"`
	CreatedAt   time.Time `json:"created_at"`
}

func New(variant Variant, title, description string) Toast {
	return Toast{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   time.Now().UTC(),
	}
}

// Surface renders toasts somewhere a user will see them.
type Surface interface {
	Render(ctx context.Context, t Toast) error
}

type SurfaceFunc func(ctx context.Context, t Toast) error

func (f SurfaceFunc) Render(ctx context.Context, t Toast) error {
	return f(ctx, t)
}

var ErrClosed = errors.New("toast channel is closed")

const renderTimeout = 10 * time.Second

type subscription struct {
	name    string
	surface Surface
	queue   chan Toast
}

// Channel fans published toasts out to its subscribed surfaces. Each
// surface owns a buffered queue and a worker, so a slow surface never
// blocks Publish or the other surfaces.
type Channel struct {
	mu     sync.RWMutex
	subs   []*subscription
	closed bool
	buffer int
	wg     sync.WaitGroup
	logger *zap.SugaredLogger
}

func NewChannel(logger *zap.SugaredLogger, buffer int) *Channel {
	if buffer <= 0 {
		buffer = 1
	}
	return &Channel{buffer: buffer, logger: logger}
}

func (c *Channel) Subscribe(name string, surface Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	sub := &subscription{name: name, surface: surface, queue: make(chan Toast, c.buffer)}
	c.subs = append(c.subs, sub)

	c.wg.Add(1)
	go c.run(sub)

	return nil
}

// Surfaces returns the names of the subscribed surfaces in mount order.
func (c *Channel) Surfaces() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.subs))
	for i, sub := range c.subs {
		names[i] = sub.name
	}
	return names
}

// Publish hands t to every surface without waiting for it to render. When
// a surface's queue is full the toast is dropped for that surface only.
func (c *Channel) Publish(t Toast) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		c.logger.Warnw("toast published after shutdown", "id", t.ID, "title", t.Title)
		return
	}

	for _, sub := range c.subs {
		select {
		case sub.queue <- t:
		default:
			c.logger.Warnw("toast dropped", "surface", sub.name, "id", t.ID, "title", t.Title)
		}
	}
}

// Shutdown stops accepting toasts and waits for queued ones to render.
func (c *Channel) Shutdown() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, sub := range c.subs {
		close(sub.queue)
	}
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

func (c *Channel) run(sub *subscription) {
	defer c.wg.Done()

	for t := range sub.queue {
		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		if err := sub.surface.Render(ctx, t); err != nil {
			c.logger.Errorw("toast render failed", "surface", sub.name, "id", t.ID, "error", err)
		}
		cancel()
	}
}
