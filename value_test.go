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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntValueEqual(t *testing.T) {
	assert.True(t, intValue(5).Equal(intValue(5)))
	assert.False(t, intValue(5).Equal(intValue(6)))
	assert.False(t, intValue(5).Equal(stringValue("5")))
}

func TestStringSetValueEqualIgnoresOrder(t *testing.T) {
	a := newStringSet("red", "green", "blue")
	b := newStringSet("blue", "red", "green")
	assert.True(t, a.Equal(b))
}

func TestStringSetValueCloneIsIndependent(t *testing.T) {
	original := newStringSet("a", "b")
	clone := original.Clone().(stringSetValue)
	clone["c"] = struct{}{}
	assert.False(t, original.contains("c"))
	assert.True(t, clone.contains("c"))
}

func TestHashBytesIsStable(t *testing.T) {
	a := HashBytes([]byte("hello"))
	b := HashBytes([]byte("hello"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, HashBytes([]byte("world")))
}
