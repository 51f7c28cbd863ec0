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
)

// link implements Hook.Link: fuse a's nexus with b's nexus under mode.
func (m *Manager) link(ctx context.Context, a, b *Hook, mode LinkMode) error {
	if m.inSubmission(ctx) {
		return ErrNestedSubmission
	}
	if !a.IsLive() || !b.IsLive() {
		return ErrDeadHook
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if a.nexus() == b.nexus() {
		return nil
	}

	keeper, doomed := a.nexus(), b.nexus()
	var candidate Value
	if mode == UseSelf {
		candidate = keeper.Current()
	} else {
		candidate = doomed.Current()
	}

	err := m.fuseLocked(ctx, keeper, []*Nexus{doomed}, candidate)
	m.metrics.observeFusion(outcomeLabel(err))
	if err != nil {
		return fusionRejectedError(err)
	}
	return nil
}

// linkMany implements Hook.LinkMany: fuse self with every hook in
// targets under one lock acquisition, so the multi-way fusion is atomic.
// mode's "use_other" candidate folds left to right across targets
// encountered in order — each subsequent target's pre-fusion value
// displaces the previous candidate, mirroring what repeated pairwise
// Link calls with the same mode would produce.
func (m *Manager) linkMany(ctx context.Context, self *Hook, targets []*Hook, mode LinkMode) error {
	if m.inSubmission(ctx) {
		return ErrNestedSubmission
	}
	if !self.IsLive() {
		return ErrDeadHook
	}
	for _, t := range targets {
		if !t.IsLive() {
			return ErrDeadHook
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keeper := self.nexus()
	candidate := keeper.Current()

	var doomed []*Nexus
	seen := map[*Nexus]bool{keeper: true}
	for _, t := range targets {
		n := t.nexus()
		if seen[n] {
			continue
		}
		seen[n] = true
		doomed = append(doomed, n)
		if mode == UseOther {
			candidate = n.Current()
		}
	}
	if len(doomed) == 0 {
		return nil
	}

	err := m.fuseLocked(ctx, keeper, doomed, candidate)
	m.metrics.observeFusion(outcomeLabel(err))
	if err != nil {
		return fusionRejectedError(err)
	}
	return nil
}

// fuseLocked performs the virtual-submission validation and, on success,
// the commit and phase-6 notification for merging every nexus in doomed
// into keeper at the given candidate value. m.mu must already be held.
func (m *Manager) fuseLocked(ctx context.Context, keeper *Nexus, doomed []*Nexus, candidate Value) error {
	combined := append([]*Hook{}, keeper.memberSnapshot()...)
	for _, d := range doomed {
		combined = append(combined, d.memberSnapshot()...)
	}

	if err := m.validateFusion(ctx, combined, candidate); err != nil {
		return err
	}

	keeperChanged := !candidate.Equal(keeper.Current())
	changed := keeperChanged
	for _, d := range doomed {
		if !candidate.Equal(d.Current()) {
			changed = true
		}
		for _, h := range d.memberSnapshot() {
			keeper.addMember(h)
			h.nexusPtr.Store(keeper)
		}
	}
	if keeperChanged {
		keeper.replaceValue(candidate)
	}
	// No member sees a different value, so, as with an equal-valued
	// submission, the fusion fires no notifications.
	if !changed {
		return nil
	}

	affected := map[*Nexus]*affectedNexus{keeper: {nexus: keeper, candidate: candidate, hooks: combined}}
	owners := affectedOwners(affected)
	m.notify(ctx, affected, owners)
	return nil
}

// validateFusion runs a virtual submission against the candidate value
// before any membership actually moves: every isolated validator in the
// combined membership against candidate, then every owner whose hooks
// straddle that membership against a full snapshot pinned to candidate
// for its affected hooks.
func (m *Manager) validateFusion(ctx context.Context, combined []*Hook, candidate Value) error {
	for _, h := range combined {
		if h.validator == nil {
			continue
		}
		if err := h.validator(candidate); err != nil {
			return isolatedValidationError(h.id, h.name, err.Error())
		}
	}

	memberSet := make(map[*Hook]bool, len(combined))
	for _, h := range combined {
		memberSet[h] = true
	}
	candidateFor := func(h *Hook) (Value, bool) {
		if memberSet[h] {
			return candidate, true
		}
		return nil, false
	}

	seen := make(map[string]bool)
	for _, h := range combined {
		owner, ok := h.Owner()
		if !ok || seen[owner.ID()] {
			continue
		}
		seen[owner.ID()] = true
		snapshot := ownerSnapshot(owner, candidateFor)
		if err := owner.Validate(ctx, snapshot); err != nil {
			return ownerValidationError(owner.ID(), err.Error())
		}
	}
	return nil
}

// isolate implements Hook.Isolate: detach h into a fresh nexus holding a
// clone of its current value.
func (m *Manager) isolate(ctx context.Context, h *Hook) error {
	if m.inSubmission(ctx) {
		return ErrNestedSubmission
	}
	if !h.IsLive() {
		return ErrDeadHook
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := h.nexus()
	if n.memberCount() == 1 {
		m.metrics.observeIsolation("noop")
		return nil
	}

	fresh := newNexus(n.Snapshot(), h)
	n.removeMember(h)
	h.nexusPtr.Store(fresh)
	m.metrics.observeIsolation("split")
	return nil
}

// release implements Hook.Release: permanently detach h from the core.
func (m *Manager) release(ctx context.Context, h *Hook) {
	if !h.IsLive() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h.released.Store(true)
	h.nexus().removeMember(h)
}
