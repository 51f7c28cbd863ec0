/*
SPDX-License-Identifier: Apache-2.0

Copyright 2025 The nexuscore Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package nexuscore

import (
	"context"
	"reflect"
	"sync"
)

// Listener observes that a commit touched whatever it is registered on.
// It does not see the new or old value; it is a pure "something changed"
// signal, invoked synchronously from within the manager's write lock.
type Listener func(ctx context.Context)

// ListenerSet is an append-only, dedup-by-identity collection of
// Listener callbacks, shared by Hook and Owner implementations (see
// OwnerBase). Its own mutex lets it be safely touched by callers from
// any goroutine, independent of whether a submission is in flight, so
// callers never have to remember their own locking around it.
type ListenerSet struct {
	mu        sync.Mutex
	listeners []Listener
}

// Add appends fn unless an identical function value is already present.
func (l *ListenerSet) Add(fn Listener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := reflect.ValueOf(fn).Pointer()
	for _, existing := range l.listeners {
		if reflect.ValueOf(existing).Pointer() == key {
			return
		}
	}
	l.listeners = append(l.listeners, fn)
}

// Remove drops fn if present.
func (l *ListenerSet) Remove(fn Listener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := reflect.ValueOf(fn).Pointer()
	for i, existing := range l.listeners {
		if reflect.ValueOf(existing).Pointer() == key {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

// Clear drops every registered listener.
func (l *ListenerSet) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = nil
}

// snapshot returns the listeners registered at the time of the call, in
// registration order. Adding or removing a listener after snapshot is
// taken has no effect on the caller's notification pass, per spec.
func (l *ListenerSet) snapshot() []Listener {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Listener, len(l.listeners))
	copy(out, l.listeners)
	return out
}

// notify invokes every registered listener, in registration order.
func (l *ListenerSet) notify(ctx context.Context) {
	for _, fn := range l.snapshot() {
		fn(ctx)
	}
}
