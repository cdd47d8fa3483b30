// Package handles provides the token table that lets a foreign runtime refer
// to Go objects.
//
// A foreign runtime cannot hold a Go pointer. Instead the bridge registers the
// object and hands out a numeric Token which the foreign side stores (for
// example inside a React ref object) and later passes back. Released tokens
// are never reused, so a stale token always fails to resolve instead of
// aliasing a newer object.
package handles

import (
	"sync"
)

// Token identifies a registered Go object. The zero Token is never issued.
type Token uint64

// Table maps tokens to Go objects.
//
// Table is safe for concurrent use. The bridge mutates it from the render
// goroutine while inspectors may read it from others.
type Table struct {
	mu      sync.RWMutex
	entries map[Token]any
	next    Token
	issued  uint64
	freed   uint64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[Token]any),
		next:    1,
	}
}

// Register stores v and returns its token.
func (t *Table) Register(v any) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok := t.next
	t.next++
	t.issued++
	t.entries[tok] = v
	return tok
}

// Lookup returns the object registered under tok.
func (t *Table) Lookup(tok Token) (any, bool) {
	if tok == 0 {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[tok]
	return v, ok
}

// Release removes tok and returns the object it referred to.
// The second result is false when tok was unknown or already released,
// which lets callers run destructors exactly once.
func (t *Table) Release(tok Token) (any, bool) {
	if tok == 0 {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[tok]
	if !ok {
		return nil, false
	}
	delete(t.entries, tok)
	t.freed++
	return v, true
}

// Issued reports whether tok was ever handed out by this table.
func (t *Table) Issued(tok Token) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return tok != 0 && tok < t.next
}

// Len returns the number of live tokens.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Stats returns the number of tokens issued and released so far.
func (t *Table) Stats() (issued, freed uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.issued, t.freed
}

// Each calls fn for every live token. fn must not call back into the table.
func (t *Table) Each(fn func(Token, any)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for tok, v := range t.entries {
		fn(tok, v)
	}
}
