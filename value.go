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

import "github.com/cespare/xxhash/v2"

// Value is the payload a Nexus stores. Implementations must be
// structurally equality-comparable and must be able to produce a
// semantically independent copy of themselves.
//
// Mutable payloads (maps, slices, pointers to structs) must return a
// deep copy from Clone: the core stores a clone of every initial and
// committed value, so a caller's own reference to a value it handed in
// cannot reach the stored one.
type Value interface {
	// Equal reports whether other represents the same value. It must
	// be reflexive, symmetric and consistent: repeated calls with the
	// same arguments must return the same result.
	Equal(other Value) bool

	// Clone returns a deep, independent copy of the value.
	Clone() Value
}

// Hashable is implemented by Values that also need a stable hash, e.g.
// to be stored in a set-typed observable. Implementing it is optional;
// nothing in the core pipeline requires it.
type Hashable interface {
	Value
	Hash() uint64
}

// HashBytes returns a stable 64-bit hash of b, for Values that serialize
// themselves to bytes and want a Hashable implementation without pulling
// in a hashing library of their own.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}
