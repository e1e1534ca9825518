// File: server/registry.go
// Package server: thread-safe registry of live client connections.
// License: Apache-2.0

package server

import "sync"

// Registry manages the set of active connections. A connection is a
// member iff its handshake succeeded and its session loop has not yet
// exited. One lock serializes Add, Remove, and ForEach; broadcast holds
// it for the whole iteration so a concurrent disconnect cannot mutate
// the set mid-iteration, at the cost of serializing broadcasts against
// connect/disconnect churn.
type Registry struct {
	mu    sync.Mutex
	conns []*Conn
}

// NewRegistry initializes an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a connection. Membership is in insertion order, but
// callers must not rely on iteration order for correctness.
func (r *Registry) Add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns = append(r.conns, c)
}

// Remove unregisters a connection. Removing a connection that was never
// added is a contract violation and panics: sessions own their registry
// entry exclusively and must not double-remove.
func (r *Registry) Remove(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, member := range r.conns {
		if member == c {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			return
		}
	}
	panic("registry: remove of non-member connection")
}

// ForEach invokes fn for every member while holding the registry lock.
func (r *Registry) ForEach(fn func(*Conn)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conns {
		fn(c)
	}
}

// Len returns the number of active connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
