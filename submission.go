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

	"go.uber.org/multierr"
)

// affectedNexus tracks one nexus swept up by a submission: the candidate
// value it will commit to, and the hooks from the (possibly completion-
// enlarged) working set that target it.
type affectedNexus struct {
	nexus     *Nexus
	candidate Value
	hooks     []*Hook
}

// Submit is the manager's single write entry point. values maps hooks to
// their candidate values; every entry is applied atomically: either the
// whole map commits or none of it does.
func (m *Manager) Submit(ctx context.Context, values map[*Hook]Value, opts ...SubmitOption) error {
	if m.inSubmission(ctx) {
		return ErrNestedSubmission
	}
	cfg := newSubmitConfig(opts)

	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.clock.Now()
	err := m.submitLocked(ctx, values, cfg)
	m.metrics.observeSubmission(outcomeLabel(err), m.clock.Now().Sub(start).Seconds())
	return err
}

func outcomeLabel(err error) string {
	if err != nil {
		return "rejected"
	}
	return "committed"
}

// submitLocked runs phases 1-6 while m.mu is held.
func (m *Manager) submitLocked(ctx context.Context, values map[*Hook]Value, cfg submitConfig) error {
	// Phase 1 — equality short-circuit.
	working := make(map[*Hook]Value, len(values))
	for h, v := range values {
		if !h.IsLive() {
			return ErrDeadHook
		}
		if !cfg.force && v != nil && v.Equal(h.nexus().Current()) {
			continue
		}
		working[h] = v
	}
	if len(working) == 0 {
		return nil
	}

	// Phase 2 — owner completion.
	if !cfg.skipOwnerCompletion {
		if err := m.runCompletion(ctx, working); err != nil {
			return err
		}
	}

	// Phase 3 — affected-set collection.
	affected, err := collectAffected(working)
	if err != nil {
		return err
	}

	// Phase 4 — validation.
	owners := affectedOwners(affected)
	if err := validateAffected(ctx, affected, owners); err != nil {
		return err
	}

	// Phase 5 — commit. The nexus stores a clone, so no alias held by
	// the submitter can reach the committed value.
	for _, a := range affected {
		committed := a.candidate
		if committed != nil {
			committed = committed.Clone()
		}
		a.nexus.replaceValue(committed)
	}

	// Phase 6 — notification.
	m.notify(ctx, affected, owners)
	return nil
}

// runCompletion implements phase 2: for every distinct owner touched by
// the working set, call Complete once and merge any extra (key, value)
// pairs it returns into working, resolved against the owner's own
// Hooks() map.
func (m *Manager) runCompletion(ctx context.Context, working map[*Hook]Value) error {
	cctx := m.markSubmission(ctx)
	seen := make(map[string]bool)
	var owners []Owner
	for h := range working {
		owner, ok := h.Owner()
		if !ok || seen[owner.ID()] {
			continue
		}
		seen[owner.ID()] = true
		owners = append(owners, owner)
	}

	for _, owner := range owners {
		submitted := make(map[Key]Value)
		for h, v := range working {
			if o, ok := h.Owner(); ok && o.ID() == owner.ID() {
				if k, ok := h.Key(); ok {
					submitted[k] = v
				}
			}
		}
		extra, err := owner.Complete(cctx, submitted)
		if err != nil {
			return completionError(owner.ID(), err)
		}
		for key, value := range extra {
			hook, ok := owner.Hooks().Get(key)
			if !ok || !hook.IsLive() {
				continue
			}
			if _, already := working[hook]; !already {
				working[hook] = value
			}
		}
	}
	return nil
}

// collectAffected implements phase 3: group working by target nexus,
// rejecting conflicting candidates for hooks that already share a nexus.
func collectAffected(working map[*Hook]Value) (map[*Nexus]*affectedNexus, error) {
	affected := make(map[*Nexus]*affectedNexus)
	for h, v := range working {
		n := h.nexus()
		a, ok := affected[n]
		if !ok {
			affected[n] = &affectedNexus{nexus: n, candidate: v, hooks: []*Hook{h}}
			continue
		}
		if !a.candidate.Equal(v) {
			return nil, conflictError(n.ID())
		}
		a.hooks = append(a.hooks, h)
	}
	return affected, nil
}

// affectedOwners returns, in first-appearance order, the distinct owners
// of every hook in the affected set.
func affectedOwners(affected map[*Nexus]*affectedNexus) []Owner {
	seen := make(map[string]bool)
	var owners []Owner
	for _, a := range affected {
		for _, h := range a.hooks {
			owner, ok := h.Owner()
			if !ok || seen[owner.ID()] {
				continue
			}
			seen[owner.ID()] = true
			owners = append(owners, owner)
		}
	}
	return owners
}

// candidateForHook looks up the candidate value standing in for h's
// current value in this submission, if h's nexus is affected.
func candidateForHook(affected map[*Nexus]*affectedNexus, h *Hook) (Value, bool) {
	a, ok := affected[h.nexus()]
	if !ok {
		return nil, false
	}
	return a.candidate, true
}

// ownerSnapshot builds owner's full key->value view for validation or
// reaction: candidate values where candidateFor reports one, current
// values otherwise.
func ownerSnapshot(owner Owner, candidateFor func(*Hook) (Value, bool)) map[Key]Value {
	snapshot := make(map[Key]Value, owner.Hooks().Len())
	owner.Hooks().Each(func(key Key, h *Hook) {
		if v, ok := candidateFor(h); ok {
			snapshot[key] = v
			return
		}
		snapshot[key] = h.Read()
	})
	return snapshot
}

// validateAffected implements phase 4: isolated validators first, then
// owner cross-hook validators.
func validateAffected(ctx context.Context, affected map[*Nexus]*affectedNexus, owners []Owner) error {
	for _, a := range affected {
		for _, h := range a.nexus.validators() {
			if err := h.validator(a.candidate); err != nil {
				return isolatedValidationError(h.id, h.name, err.Error())
			}
		}
	}
	candidateFor := func(h *Hook) (Value, bool) { return candidateForHook(affected, h) }
	for _, owner := range owners {
		snapshot := ownerSnapshot(owner, candidateFor)
		if err := owner.Validate(ctx, snapshot); err != nil {
			return ownerValidationError(owner.ID(), err.Error())
		}
	}
	return nil
}

// notify implements phase 6 in its mandated order: owner invalidation,
// hook reactions, publisher enqueue, listeners. Errors are aggregated
// with multierr and logged, never returned to the caller: phase-6
// failures cannot veto a commit that already happened.
func (m *Manager) notify(ctx context.Context, affected map[*Nexus]*affectedNexus, owners []Owner) {
	cctx := m.markSubmission(ctx)
	var errs error

	candidateFor := func(h *Hook) (Value, bool) { return candidateForHook(affected, h) }

	for _, owner := range owners {
		var keys []Key
		owner.Hooks().Each(func(key Key, h *Hook) {
			if _, ok := candidateFor(h); ok {
				keys = append(keys, key)
			}
		})
		if len(keys) > 0 {
			errs = multierr.Append(errs, safeCall(func() error {
				owner.ReactToChange(cctx, keys)
				return nil
			}))
		}
	}

	for _, a := range affected {
		previous, _ := a.nexus.Previous()
		current := a.nexus.Current()
		for _, h := range a.nexus.reactors() {
			h := h
			errs = multierr.Append(errs, safeCall(func() error {
				h.reaction(cctx, previous, current)
				return nil
			}))
		}
	}

	for _, a := range affected {
		previous, _ := a.nexus.Previous()
		members := a.nexus.memberSnapshot()
		ids := make([]string, len(members))
		for i, h := range members {
			ids[i] = h.ID()
		}
		m.publisher.Enqueue(cctx, PublicationEvent{
			NexusID:         a.nexus.ID(),
			AffectedHookIDs: ids,
			Previous:        previous,
			Current:         a.nexus.Current(),
			At:              m.clock.Now(),
		})
	}

	for _, owner := range owners {
		errs = multierr.Append(errs, safeCall(func() error {
			owner.Listeners().notify(cctx)
			return nil
		}))
	}
	for _, a := range affected {
		for _, h := range a.nexus.memberSnapshot() {
			h := h
			errs = multierr.Append(errs, safeCall(func() error {
				h.listeners.notify(cctx)
				return nil
			}))
		}
	}

	if errs != nil {
		m.log.Error(errs, "nexuscore: phase 6 notification callback failed")
	}
}

// safeCall recovers a panicking phase-6 callback into an error so one
// misbehaving listener cannot take down the manager's write lock holder.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return fn()
}
