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

// Package nexuscore implements a reactive value-synchronization core.
//
// Independent runtime objects hold Hooks pointing into shared storage
// cells called Nexuses. Any number of hooks can be fused into a single
// Nexus with Hook.Link, after which a write through any one of them is
// visible to all the others. Binding is symmetric, transitive, and
// non-directional: fusing A with B and later B with C leaves A, B and C
// sharing one Nexus, and isolating one hook out of that group leaves the
// rest fused.
//
// Writes flow through a NexusManager, which serializes mutation behind a
// single write lock and runs every submission through six phases:
// equality short-circuit, owner completion, affected-set collection,
// validation, commit, and notification. Reads never need the lock.
//
// The library does not ship a library of observable data types (single
// value, list, set, selection, computed); it defines the Value, Hook and
// Owner contracts those types build on.
package nexuscore
