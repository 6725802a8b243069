// Package toast manages short-lived, auto-dismissing notification messages.
// Each message carries its own dismissal timer; timers never interfere with
// each other and dismissal is idempotent.
package toast

import (
	"sync"
	"time"
)

// Kind styles a message. The queue does not interpret it beyond carrying it.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// DefaultTTL applies when Show is called with a non-positive duration.
const DefaultTTL = 3 * time.Second

// Message is a single toast currently on screen.
type Message struct {
	ID   int64
	Kind Kind
	Text string
}

// Queue holds the currently visible messages in arrival order.
type Queue struct {
	mu     sync.Mutex
	items  []Message
	timers map[int64]*time.Timer
	subs   map[int]func([]Message)
	nextID int64
	nextSub int
}

func NewQueue() *Queue {
	return &Queue{
		timers: map[int64]*time.Timer{},
		subs:   map[int]func([]Message){},
	}
}

// Show appends a message and schedules its automatic dismissal after ttl
// (DefaultTTL when ttl <= 0). The returned id can be passed to Dismiss to
// remove the message early.
func (q *Queue) Show(kind Kind, text string, ttl time.Duration) int64 {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	q.mu.Lock()
	// Timestamp-derived ids, bumped on collision so two shows in the same
	// clock tick still get distinct ids.
	id := time.Now().UnixNano()
	if id <= q.nextID {
		id = q.nextID + 1
	}
	q.nextID = id

	q.items = append(q.items, Message{ID: id, Kind: kind, Text: text})
	q.timers[id] = time.AfterFunc(ttl, func() { q.Dismiss(id) })
	q.mu.Unlock()
	q.notify()

	return id
}

// Dismiss removes the message with the given id and cancels its timer.
// Unknown ids (already expired, already dismissed) are a no-op.
func (q *Queue) Dismiss(id int64) {
	q.mu.Lock()
	timer, ok := q.timers[id]
	if !ok {
		q.mu.Unlock()
		return
	}
	delete(q.timers, id)
	timer.Stop()

	for i, m := range q.items {
		if m.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	q.mu.Unlock()
	q.notify()
}

// Messages returns a copy of the currently visible messages, oldest first.
func (q *Queue) Messages() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Message, len(q.items))
	copy(out, q.items)
	return out
}

// Subscribe registers fn to receive the message list after every change.
// The returned function unsubscribes.
func (q *Queue) Subscribe(fn func([]Message)) func() {
	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}
}

func (q *Queue) notify() {
	q.mu.Lock()
	snapshot := make([]Message, len(q.items))
	copy(snapshot, q.items)
	fns := make([]func([]Message), 0, len(q.subs))
	for _, fn := range q.subs {
		fns = append(fns, fn)
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
