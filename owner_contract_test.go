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

func TestOwnerValidationRejectsBadSnapshot(t *testing.T) {
	m := NewManager()
	sel := newSelectionOwner(m, "red", "red", "green", "blue")

	err := sel.selectedHook().Submit(context.Background(), stringValue("purple"))
	require.ErrorIs(t, err, ErrOwnerValidation)
	require.Equal(t, stringValue("red"), sel.selectedHook().Read())
}

func TestOwnerSubmitManyAtomicMultiSubmit(t *testing.T) {
	m := NewManager()
	sel := newSelectionOwner(m, "smartwatch", "smartwatch", "laptop")

	err := sel.selectedHook().SubmitMany(context.Background(), map[*Hook]Value{
		sel.selectedHook():  stringValue("smartwatch"),
		sel.availableHook(): newStringSet("smartwatch", "laptop"),
	})
	require.NoError(t, err)

	err = sel.selectedHook().SubmitMany(context.Background(), map[*Hook]Value{
		sel.selectedHook():  stringValue("laptop"),
		sel.availableHook(): newStringSet("smartwatch", "phone"),
	})
	require.ErrorIs(t, err, ErrOwnerValidation)
	require.Equal(t, stringValue("smartwatch"), sel.selectedHook().Read())
}

func TestOwnerReactToChangeFiresOncePerSubmission(t *testing.T) {
	m := NewManager()
	sel := newSelectionOwner(m, "red", "red", "green")

	require.NoError(t, sel.selectedHook().Submit(context.Background(), stringValue("green")))
	require.Equal(t, 1, sel.reactedCount)
}

func TestOwnerCompletionDerivesOtherHooks(t *testing.T) {
	m := NewManager()
	sum := newSum100Owner(m, 30, 70)

	require.NoError(t, sum.xHook().Submit(context.Background(), intValue(40)))
	require.Equal(t, intValue(40), sum.xHook().Read())
	require.Equal(t, intValue(60), sum.yHook().Read())
}

func TestOwnerCompletionFailureAbortsSubmission(t *testing.T) {
	m := NewManager()
	sum := newSum100Owner(m, 30, 70)
	failing := &failingCompletionOwner{OwnerBase: NewOwnerBase()}
	failing.hooks = NewOrderedHooks()
	h := m.NewHook(intValue(1), WithOwner(failing, "v"))
	failing.hooks.Set("v", h)

	err := h.Submit(context.Background(), intValue(2))
	require.ErrorIs(t, err, ErrCompletionFailed)
	require.Equal(t, intValue(1), h.Read())
	// Unrelated owner state must be untouched by the aborted submission.
	require.Equal(t, intValue(30), sum.xHook().Read())
}

type failingCompletionOwner struct {
	OwnerBase
	hooks *OrderedHooks
}

func (f *failingCompletionOwner) Hooks() *OrderedHooks { return f.hooks }

func (f *failingCompletionOwner) Complete(context.Context, map[Key]Value) (map[Key]Value, error) {
	return nil, errCompletionFixture
}

func (f *failingCompletionOwner) Validate(context.Context, map[Key]Value) error { return nil }

func (f *failingCompletionOwner) ReactToChange(context.Context, []Key) {}

var errCompletionFixture = &fixtureError{"completion always fails in this fixture"}

type fixtureError struct{ msg string }

func (e *fixtureError) Error() string { return e.msg }
