// Package viewstate holds small helpers for view state that several
// goroutines of one page load write into.
package viewstate

import "sync"

// Latest keeps the value of the newest load only.
//
// Each load calls Begin to get a sequence number before it starts, and
// Commit when its response arrives. A response whose sequence is older than
// the newest one issued is dropped, so a slow early fetch can never
// overwrite a later re-fetch.
type Latest[T any] struct {
	mu        sync.Mutex
	issued    uint64
	committed uint64
	value     T
	set       bool
}

// Begin issues the next sequence number.
func (l *Latest[T]) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Commit stores v if seq is the newest sequence issued so far and reports
// whether it was kept.
func (l *Latest[T]) Commit(seq uint64, v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.issued || seq <= l.committed {
		return false
	}
	l.committed = seq
	l.value = v
	l.set = true
	return true
}

// Get returns the committed value and whether anything was committed.
func (l *Latest[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.set
}
