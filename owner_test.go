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
	"fmt"
)

const (
	keySelected  Key = "selected"
	keyAvailable Key = "available"
)

// selectionOwner mirrors an "observable selection": one hook holds the
// chosen item, another holds the set it must be drawn from.
type selectionOwner struct {
	OwnerBase
	hooks        *OrderedHooks
	reactedCount int
}

func newSelectionOwner(m *Manager, selected string, available ...string) *selectionOwner {
	s := &selectionOwner{OwnerBase: NewOwnerBase()}
	s.hooks = NewOrderedHooks()
	s.hooks.Set(keySelected, m.NewHook(stringValue(selected), WithOwner(s, keySelected)))
	s.hooks.Set(keyAvailable, m.NewHook(newStringSet(available...), WithOwner(s, keyAvailable)))
	return s
}

func (s *selectionOwner) Hooks() *OrderedHooks { return s.hooks }

func (s *selectionOwner) Complete(context.Context, map[Key]Value) (map[Key]Value, error) {
	return nil, nil
}

func (s *selectionOwner) Validate(_ context.Context, snapshot map[Key]Value) error {
	selected := string(snapshot[keySelected].(stringValue))
	available := snapshot[keyAvailable].(stringSetValue)
	if !available.contains(selected) {
		return fmt.Errorf("%q is not a member of the available set", selected)
	}
	return nil
}

func (s *selectionOwner) ReactToChange(context.Context, []Key) { s.reactedCount++ }

func (s *selectionOwner) selectedHook() *Hook  { h, _ := s.hooks.Get(keySelected); return h }
func (s *selectionOwner) availableHook() *Hook { h, _ := s.hooks.Get(keyAvailable); return h }

const (
	keyX Key = "x"
	keyY Key = "y"
)

// sum100Owner is a function-like observable: writing either input
// derives the other so that x + y always equals 100.
type sum100Owner struct {
	OwnerBase
	hooks *OrderedHooks
}

func newSum100Owner(m *Manager, x, y int) *sum100Owner {
	s := &sum100Owner{OwnerBase: NewOwnerBase()}
	s.hooks = NewOrderedHooks()
	s.hooks.Set(keyX, m.NewHook(intValue(x), WithOwner(s, keyX)))
	s.hooks.Set(keyY, m.NewHook(intValue(y), WithOwner(s, keyY)))
	return s
}

func (s *sum100Owner) Hooks() *OrderedHooks { return s.hooks }

func (s *sum100Owner) Complete(_ context.Context, submitted map[Key]Value) (map[Key]Value, error) {
	xv, xOK := submitted[keyX]
	yv, yOK := submitted[keyY]
	switch {
	case xOK && !yOK:
		return map[Key]Value{keyY: intValue(100 - int(xv.(intValue)))}, nil
	case yOK && !xOK:
		return map[Key]Value{keyX: intValue(100 - int(yv.(intValue)))}, nil
	default:
		return nil, nil
	}
}

func (s *sum100Owner) Validate(_ context.Context, snapshot map[Key]Value) error {
	x := int(snapshot[keyX].(intValue))
	y := int(snapshot[keyY].(intValue))
	if x+y != 100 {
		return fmt.Errorf("x + y = %d, want 100", x+y)
	}
	return nil
}

func (s *sum100Owner) ReactToChange(context.Context, []Key) {}

func (s *sum100Owner) xHook() *Hook { h, _ := s.hooks.Get(keyX); return h }
func (s *sum100Owner) yHook() *Hook { h, _ := s.hooks.Get(keyY); return h }
