// Package comments implements the append-only comment board stored in
// each device's key-value namespace.
package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/mechanics-site/internal/domain"
	"github.com/ashureev/mechanics-site/internal/store"
)

// Publisher is notified of every comment added to a device's board.
type Publisher interface {
	Publish(deviceID, fromSession string, c domain.Comment)
}

// Board reads and appends comments.
type Board struct {
	store store.Store
	pub   Publisher
	now   func() time.Time

	// appendLocks serialises read-modify-write per device.
	appendLocks sync.Map
}

// Option configures a Board.
type Option func(*Board)

// WithPublisher sets the publisher notified after each append.
func WithPublisher(p Publisher) Option {
	return func(b *Board) { b.pub = p }
}

// WithClock overrides the time source used to stamp comments.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// NewBoard creates a board backed by s.
func NewBoard(s store.Store, opts ...Option) *Board {
	b := &Board{store: s, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// List returns the device's comments oldest first. Absent or malformed
// stored state is an empty board.
func (b *Board) List(ctx context.Context, deviceID string) ([]domain.Comment, error) {
	raw, found, err := b.store.Get(ctx, deviceID, store.KeyComments)
	if err != nil {
		return nil, fmt.Errorf("read comments: %w", err)
	}
	if !found || raw == "" {
		return []domain.Comment{}, nil
	}

	var list []domain.Comment
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		slog.Warn("Discarding unreadable comments", "device_id", deviceID, "error", err)
		return []domain.Comment{}, nil
	}
	if list == nil {
		list = []domain.Comment{}
	}
	return list, nil
}

// Recent returns the device's comments most recent first.
func (b *Board) Recent(ctx context.Context, deviceID string) ([]domain.Comment, error) {
	list, err := b.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(list)
	return list, nil
}

// Add appends a comment and rewrites the stored sequence. Name and
// message are trimmed; an empty name becomes Anonymous. It returns the
// updated sequence oldest first.
func (b *Board) Add(ctx context.Context, deviceID, session, name, message string) ([]domain.Comment, error) {
	lock, _ := b.appendLocks.LoadOrStore(deviceID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	list, err := b.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	c := domain.NewComment(strings.TrimSpace(name), strings.TrimSpace(message), b.now())
	list = append(list, c)

	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode comments: %w", err)
	}
	if err := b.store.Set(ctx, deviceID, store.KeyComments, string(data)); err != nil {
		return nil, fmt.Errorf("write comments: %w", err)
	}

	slog.Info("Comment added", "device_id", deviceID, "count", len(list))
	if b.pub != nil {
		b.pub.Publish(deviceID, session, c)
	}
	return list, nil
}
