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
	"sync/atomic"
)

// Validator runs against a candidate value before it commits. A non-nil
// error rejects the candidate; the error's message surfaces to the
// caller wrapped in ErrIsolatedValidation.
type Validator func(candidate Value) error

// Reaction fires after a hook's nexus commits a new value, with the
// value that was displaced and the one that replaced it.
type Reaction func(ctx context.Context, previous, current Value)

// LinkMode selects which of two pre-fusion current values becomes the
// shared value once two hooks fuse.
type LinkMode int

const (
	// UseSelf keeps the calling hook's current value as the fused
	// value.
	UseSelf LinkMode = iota
	// UseOther keeps the target hook's current value as the fused
	// value.
	UseOther
)

func (m LinkMode) String() string {
	if m == UseOther {
		return "use_other"
	}
	return "use_self"
}

// HookOption configures a Hook at construction time. Hooks come in
// variants (plain, validated, reactive, owned) and arbitrary
// combinations of those; rather than a class hierarchy per variant, one
// concrete Hook struct carries optional callbacks set through options.
type HookOption func(*Hook)

// WithValidator attaches an isolated validator, run against every
// candidate value proposed for this hook's nexus before any owner-level
// validation.
func WithValidator(v Validator) HookOption {
	return func(h *Hook) { h.validator = v }
}

// WithReaction attaches a reaction, invoked synchronously after a commit
// that changes this hook's nexus value.
func WithReaction(r Reaction) HookOption {
	return func(h *Hook) { h.reaction = r }
}

// WithOwner associates the hook with an owner under the given key. The
// hook holds an ordinary (strong) reference to owner and the core never
// clears it, so the owner keeps taking part in completion, validation
// and reaction for as long as the hook exists. Only hooks built without
// WithOwner contribute no owner completion, validation or reaction.
func WithOwner(owner Owner, key Key) HookOption {
	return func(h *Hook) {
		h.owner = owner
		h.key = key
	}
}

// WithName attaches a human-readable debug name, surfaced in error
// messages in place of the opaque id when set.
func WithName(name string) HookOption {
	return func(h *Hook) { h.name = name }
}

// Hook is the unit callers manipulate: they read and write through
// hooks, fuse hooks together, and isolate them. A hook's identity is
// stable across its lifetime; the nexus it points at can change.
type Hook struct {
	id      string
	name    string
	manager *Manager

	// Immutable after construction: only the nexus pointer, the release
	// flag and the listener list mutate post-construction, so these four
	// need no lock of their own.
	validator Validator
	reaction  Reaction
	owner     Owner
	key       Key

	nexusPtr atomic.Pointer[Nexus]
	released atomic.Bool

	listeners ListenerSet
}

// NewHook creates a hook on the default, process-wide manager.
func NewHook(initial Value, opts ...HookOption) *Hook {
	return DefaultManager().NewHook(initial, opts...)
}

// NewHook creates a hook whose initial nexus belongs to m, holding
// initial as its starting value.
func (m *Manager) NewHook(initial Value, opts ...HookOption) *Hook {
	h := &Hook{id: newID(), manager: m}
	for _, opt := range opts {
		opt(h)
	}
	if initial != nil {
		initial = initial.Clone()
	}
	h.nexusPtr.Store(newNexus(initial, h))
	m.metrics.observeHookCreated()
	return h
}

// ID returns the hook's stable, opaque identity.
func (h *Hook) ID() string { return h.id }

// Name returns the hook's debug name, falling back to its id when none
// was set via WithName.
func (h *Hook) Name() string {
	if h.name != "" {
		return h.name
	}
	return h.id
}

// Owner returns the hook's owner and whether one was set. A hook whose
// owner has otherwise been abandoned by the caller still reports the
// reference here; the core itself never tears this down.
func (h *Hook) Owner() (Owner, bool) { return h.owner, h.owner != nil }

// Key returns the key under which the hook's owner exposes it.
func (h *Hook) Key() (Key, bool) { return h.key, h.owner != nil }

// Manager returns the NexusManager this hook belongs to.
func (h *Hook) Manager() *Manager { return h.manager }

// nexus returns the hook's current nexus pointer. Lock-free: it is an
// atomic load, safe to call concurrently with fusion/isolation swapping
// the pointer under the manager's write lock.
func (h *Hook) nexus() *Nexus { return h.nexusPtr.Load() }

// NexusID returns the opaque id of the nexus this hook currently points
// at. Two hooks share a nexus iff their NexusID values are equal.
func (h *Hook) NexusID() string { return h.nexus().ID() }

// Read returns the committed value of the hook's current nexus.
func (h *Hook) Read() Value { return h.nexus().Current() }

// Snapshot returns an independent clone of the hook's current value.
func (h *Hook) Snapshot() Value { return h.nexus().Snapshot() }

// Previous returns the value displaced by the most recent commit to this
// hook's current nexus.
func (h *Hook) Previous() (Value, bool) { return h.nexus().Previous() }

// IsLinkedTo reports whether h and other currently share a nexus.
func (h *Hook) IsLinkedTo(other *Hook) bool {
	if other == nil {
		return false
	}
	return h.NexusID() == other.NexusID()
}

// IsLive reports whether the hook has not been released.
func (h *Hook) IsLive() bool { return !h.released.Load() }

// Submit performs a single-hook write: a submission whose working set is
// the singleton {h: value}.
func (h *Hook) Submit(ctx context.Context, value Value, opts ...SubmitOption) error {
	return h.manager.Submit(ctx, map[*Hook]Value{h: value}, opts...)
}

// SubmitMany performs an atomic multi-hook write through this hook's
// manager. values need not include h itself.
func (h *Hook) SubmitMany(ctx context.Context, values map[*Hook]Value, opts ...SubmitOption) error {
	return h.manager.Submit(ctx, values, opts...)
}

// Link fuses h's nexus with other's nexus. If they already share a
// nexus this is a no-op that returns nil. mode chooses which pre-fusion
// current value survives as the shared value.
func (h *Hook) Link(ctx context.Context, other *Hook, mode LinkMode) error {
	if other == nil {
		return ErrDeadHook
	}
	if h.manager != other.manager {
		return ErrCrossManager
	}
	return h.manager.link(ctx, h, other, mode)
}

// LinkMany atomically fuses h with every hook in targets, all under mode.
// Either every fusion succeeds or none do.
func (h *Hook) LinkMany(ctx context.Context, targets []*Hook, mode LinkMode) error {
	for _, t := range targets {
		if t == nil {
			return ErrDeadHook
		}
		if h.manager != t.manager {
			return ErrCrossManager
		}
	}
	return h.manager.linkMany(ctx, h, targets, mode)
}

// Isolate detaches h into a fresh nexus holding a clone of its current
// value. The remaining members of its old nexus stay fused to each
// other. Isolating a hook that is already alone in its nexus is a
// defined no-op (see DESIGN.md for the rationale behind this policy
// choice).
func (h *Hook) Isolate(ctx context.Context) error {
	return h.manager.isolate(ctx, h)
}

// Release detaches h from the core entirely. A released hook can no
// longer be written, linked or isolated; Submit, SubmitMany, Link,
// LinkMany and Isolate return ErrDeadHook. Read, Snapshot and Previous
// still report the nexus the hook pointed at when released. Destroying the hook's owner does not do this implicitly —
// callers must call Release themselves.
func (h *Hook) Release(ctx context.Context) {
	h.manager.release(ctx, h)
}

// AddListener registers fn to be invoked after every commit that
// affects h, unless an identical function value is already registered.
func (h *Hook) AddListener(fn Listener) { h.listeners.Add(fn) }

// RemoveListener drops fn from h's listener list.
func (h *Hook) RemoveListener(fn Listener) { h.listeners.Remove(fn) }

// ClearListeners drops every listener registered on h.
func (h *Hook) ClearListeners() { h.listeners.Clear() }
