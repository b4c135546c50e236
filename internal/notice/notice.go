// Package notice holds the transient message shown by a view. Every message
// owns a timer; showing a new message or closing the board cancels it, so an
// expiry never reaches a view that has moved on.
package notice

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Message struct {
	Level Level
	Text  string
}

type Board struct {
	mu      sync.Mutex
	current *Message
	timer   *time.Timer
	seq     uint64
	closed  bool
}

func NewBoard() *Board {
	return &Board{}
}

// Show replaces the current message. After ttl it is cleared and onExpire,
// if non-nil, runs outside the board's lock. A ttl <= 0 keeps the message
// until it is replaced or cleared.
func (b *Board) Show(level Level, text string, ttl time.Duration, onExpire func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.stopLocked()
	b.seq++
	b.current = &Message{Level: level, Text: text}

	if ttl <= 0 {
		return
	}
	seq := b.seq
	b.timer = time.AfterFunc(ttl, func() { b.expire(seq, onExpire) })
}

func (b *Board) Info(text string, ttl time.Duration) {
	b.Show(LevelInfo, text, ttl, nil)
}

func (b *Board) Error(text string, ttl time.Duration) {
	b.Show(LevelError, text, ttl, nil)
}

func (b *Board) expire(seq uint64, onExpire func()) {
	b.mu.Lock()
	if b.closed || seq != b.seq {
		b.mu.Unlock()
		return
	}
	b.current = nil
	b.timer = nil
	b.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}

// Current returns the visible message, if any.
func (b *Board) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Message{}, false
	}
	return *b.current, true
}

// Clear drops the current message without running its expiry callback.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.seq++
	b.current = nil
}

// Close cancels any pending timer. The board ignores Show afterwards.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.seq++
	b.current = nil
	b.closed = true
}

func (b *Board) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
