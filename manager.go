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
	"sync"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

// submissionMarkerKey is the context key the manager stamps onto the
// context it passes to phase-6 callbacks, identifying the in-flight
// submission. A nested Submit call sees this marker on its incoming
// context and rejects with ErrNestedSubmission instead of deadlocking
// on — or reentering — the manager's write lock.
type submissionMarkerKey struct{}

// Manager, also referred to across the package docs as the
// NexusManager, owns the single global write lock guarding every
// structural mutation: commits, fusions, isolations and releases. Reads
// (Hook.Read, Hook.Snapshot, Hook.Previous) never take this lock.
type Manager struct {
	mu sync.Mutex

	clock     Clock
	log       logr.Logger
	metrics   *metricsSink
	publisher Publisher
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*Manager)

// WithClock overrides the Manager's time source. Defaults to RealClock.
func WithClock(c Clock) ManagerOption {
	return func(m *Manager) { m.clock = c }
}

// WithLogger overrides the Manager's logger. Defaults to logr.Discard().
func WithLogger(l logr.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// WithPublisher overrides the Manager's Publisher. Defaults to
// NoopPublisher.
func WithPublisher(p Publisher) ManagerOption {
	return func(m *Manager) { m.publisher = p }
}

// WithRegisterer registers the Manager's Prometheus collectors against
// reg instead of leaving them unregistered. Registration uses
// MustRegister, so registering a second Manager against the same reg
// panics.
func WithRegisterer(reg prometheus.Registerer) ManagerOption {
	return func(m *Manager) { m.metrics = newMetricsSink(reg) }
}

// NewManager constructs a Manager with sensible defaults, overridden by
// opts.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		clock:     RealClock{},
		log:       logr.Discard(),
		publisher: NoopPublisher{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = newMetricsSink(nil)
	}
	if qp, ok := m.publisher.(*QueuePublisher); ok {
		qp.metrics = m.metrics
	}
	return m
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// DefaultManager returns the lazily-constructed, process-wide Manager
// that package-level helpers like NewHook use when a caller has no
// reason to run more than one nexus graph.
func DefaultManager() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// inSubmission reports whether ctx already carries this Manager's
// in-flight submission marker, i.e. whether the caller is invoking
// Submit from inside one of this same Manager's phase-6 callbacks.
func (m *Manager) inSubmission(ctx context.Context) bool {
	marker, ok := ctx.Value(submissionMarkerKey{}).(*Manager)
	return ok && marker == m
}

// markSubmission returns a context carrying this Manager's submission
// marker, for phase-6 callbacks.
func (m *Manager) markSubmission(ctx context.Context) context.Context {
	return context.WithValue(ctx, submissionMarkerKey{}, m)
}

// SubmitOption configures a single Submit or SubmitMany call.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	skipOwnerCompletion bool
	force               bool
}

// SkipCompletion bypasses phase 2 (owner completion) for this call,
// useful when a caller has already computed every affected hook's value
// and completion would be redundant.
func SkipCompletion() SubmitOption {
	return func(c *submitConfig) { c.skipOwnerCompletion = true }
}

// Force bypasses the phase 1 equality short-circuit, forcing a candidate
// through the full pipeline (and its notifications) even when it equals
// the hook's current value.
func Force() SubmitOption {
	return func(c *submitConfig) { c.force = true }
}

func newSubmitConfig(opts []SubmitOption) submitConfig {
	var c submitConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
