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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNexusHoldsInitialValue(t *testing.T) {
	m := NewManager()
	h := m.NewHook(intValue(1))
	n := h.nexus()

	require.Equal(t, intValue(1), n.Current())
	previous, hasPrev := n.Previous()
	require.Nil(t, previous)
	require.False(t, hasPrev)
}

func TestNexusSnapshotIsIndependentClone(t *testing.T) {
	m := NewManager()
	h := m.NewHook(newStringSet("a", "b"))
	n := h.nexus()

	snap := n.Snapshot().(stringSetValue)
	snap["c"] = struct{}{}

	require.False(t, n.Current().(stringSetValue).contains("c"))
}

func TestNexusReplaceValueMovesCurrentToPrevious(t *testing.T) {
	m := NewManager()
	h := m.NewHook(intValue(1))
	n := h.nexus()

	n.replaceValue(intValue(2))

	require.Equal(t, intValue(2), n.Current())
	previous, hasPrev := n.Previous()
	require.True(t, hasPrev)
	require.Equal(t, intValue(1), previous)
}

func TestNexusMembershipAddRemove(t *testing.T) {
	m := NewManager()
	h1 := m.NewHook(intValue(1))
	n := h1.nexus()
	h2 := &Hook{id: "synthetic", manager: m}

	require.Equal(t, 1, n.memberCount())
	n.addMember(h2)
	require.Equal(t, 2, n.memberCount())
	n.addMember(h2) // idempotent
	require.Equal(t, 2, n.memberCount())

	remaining := n.removeMember(h2)
	require.Equal(t, 1, remaining)
}

func TestNexusValidatorsAndReactorsDerivedFromMembership(t *testing.T) {
	m := NewManager()
	called := false
	h1 := m.NewHook(intValue(1), WithValidator(func(Value) error { return nil }))
	h2 := m.NewHook(intValue(1), WithReaction(func(_ context.Context, _, _ Value) { called = true }))
	n := h1.nexus()
	n.addMember(h2)

	require.Len(t, n.validators(), 1)
	require.Len(t, n.reactors(), 1)
	require.False(t, called)
}
