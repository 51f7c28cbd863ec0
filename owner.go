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

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Key names a hook within an owner's set of participating hooks. Multi-
// hook submissions built from an owner's perspective are keyed by
// (owner, key).
type Key string

// Owner is implemented by higher-level objects that group related hooks
// — a selection, a computed value with several inputs, anything that
// needs cross-hook invariants enforced atomically. The core is
// polymorphic over any type implementing this interface; it never
// assumes anything about an owner beyond its ID, the four operations
// Hooks, Complete, Validate and ReactToChange, and its listener set.
type Owner interface {
	// ID returns the owner's stable, opaque identity, used in error
	// messages and to deduplicate an owner that exposes more than one
	// affected hook in a single submission.
	ID() string

	// Hooks returns the owner's participating hooks, in a stable,
	// caller-defined order.
	Hooks() *OrderedHooks

	// Complete may extend a submission touching a subset of this
	// owner's hooks with derived values for its other hooks — e.g. a
	// function observable computing an output from an input. A trivial
	// owner returns (nil, nil). Runs once per owner per submission;
	// iterative completion across owners (one owner's derived value
	// feeding another owner's Complete) is not supported.
	Complete(ctx context.Context, submitted map[Key]Value) (map[Key]Value, error)

	// Validate checks a tentative full snapshot of the owner's hooks
	// (candidate values where affected, current values otherwise) for
	// cross-hook invariants. A non-nil error aborts the submission.
	Validate(ctx context.Context, snapshot map[Key]Value) error

	// ReactToChange fires once per submission that affects any of the
	// owner's hooks, after commit and before hook-level reactions. It
	// runs under the manager's write lock: it must be fast and must not
	// submit back into the manager.
	ReactToChange(ctx context.Context, affectedKeys []Key)

	// Listeners returns the owner's synchronous, commit-notification
	// listener set.
	Listeners() *ListenerSet
}

// OrderedHooks is an insertion-ordered Key -> *Hook mapping, backed by
// gods' linkedhashmap (a dependency already present transitively across
// the corpus's Kubernetes client stack, given a direct job here): owners
// must expose their hooks in a stable order, and a plain Go map cannot.
type OrderedHooks struct {
	m *linkedhashmap.Map
}

// NewOrderedHooks returns an empty OrderedHooks.
func NewOrderedHooks() *OrderedHooks {
	return &OrderedHooks{m: linkedhashmap.New()}
}

// Set associates key with hook, preserving first-insertion order for
// iteration even if the key is later overwritten.
func (o *OrderedHooks) Set(key Key, hook *Hook) {
	o.m.Put(key, hook)
}

// Get returns the hook registered under key, if any.
func (o *OrderedHooks) Get(key Key) (*Hook, bool) {
	v, ok := o.m.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Hook), true
}

// Len reports the number of registered hooks.
func (o *OrderedHooks) Len() int { return o.m.Size() }

// Keys returns the registered keys in insertion order.
func (o *OrderedHooks) Keys() []Key {
	raw := o.m.Keys()
	out := make([]Key, len(raw))
	for i, k := range raw {
		out[i] = k.(Key)
	}
	return out
}

// Each invokes fn for every (key, hook) pair in insertion order.
func (o *OrderedHooks) Each(fn func(Key, *Hook)) {
	it := o.m.Iterator()
	for it.Next() {
		fn(it.Key().(Key), it.Value().(*Hook))
	}
}

// KeyFor returns the key under which hook is registered in o, if any.
func (o *OrderedHooks) KeyFor(hook *Hook) (Key, bool) {
	var found Key
	var ok bool
	o.Each(func(k Key, h *Hook) {
		if !ok && h == hook {
			found, ok = k, true
		}
	})
	return found, ok
}

// OwnerBase is an embeddable helper that gives an Owner implementation a
// stable id and a working listener set for free, instead of hand-rolling
// that bookkeeping in every owner. It does not implement Hooks, Complete,
// Validate or ReactToChange: embedders must still supply those four.
type OwnerBase struct {
	id        string
	listeners ListenerSet
}

// NewOwnerBase returns an OwnerBase with a freshly minted id.
func NewOwnerBase() OwnerBase {
	return OwnerBase{id: newID()}
}

// ID implements part of the Owner interface.
func (b *OwnerBase) ID() string { return b.id }

// Listeners implements part of the Owner interface.
func (b *OwnerBase) Listeners() *ListenerSet { return &b.listeners }
