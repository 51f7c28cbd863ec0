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
	"time"

	"golang.org/x/sync/errgroup"
)

// PublicationEvent describes one commit's worth of change, handed to a
// Publisher after phase 6's invalidation and reaction steps run and
// before its listeners are invoked.
// Publishers sit downstream of the core and are expected to be cheap to
// enqueue into and slow to drain, separating commit notification from
// whatever slower sink ultimately consumes it.
type PublicationEvent struct {
	// NexusID identifies the nexus that committed.
	NexusID string
	// AffectedHookIDs lists every hook that pointed at NexusID at commit
	// time.
	AffectedHookIDs []string
	// Previous and Current are the values either side of the commit.
	// Previous is nil only while no commit has yet replaced the nexus's
	// value; a nexus's first commit reports its initial value.
	Previous Value
	Current  Value
	// At is the manager's Clock reading taken at commit time.
	At time.Time
}

// Publisher receives a PublicationEvent for every commit. Enqueue must
// not block the caller for long: it runs synchronously inside the
// manager's phase 6, under its write lock.
type Publisher interface {
	Enqueue(ctx context.Context, event PublicationEvent)
}

// NoopPublisher discards every event. It is the Manager's default
// Publisher when none is supplied via WithPublisher, so a caller who
// never asked for publication pays no cost for it.
type NoopPublisher struct{}

// Enqueue implements Publisher by doing nothing.
func (NoopPublisher) Enqueue(context.Context, PublicationEvent) {}

var _ Publisher = NoopPublisher{}

// Deliver is called by QueuePublisher's background dispatcher for each
// drained PublicationEvent, outside the manager's write lock.
type Deliver func(ctx context.Context, event PublicationEvent)

// QueuePublisher is a concrete, optional Publisher: Enqueue appends into
// a mutex-guarded slice, and a background goroutine drains it on a poll
// interval, calling a caller-supplied Deliver for each event.
type QueuePublisher struct {
	mu     sync.Mutex
	events []PublicationEvent

	deliver      Deliver
	pollInterval time.Duration
	metrics      *metricsSink

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewQueuePublisher returns a QueuePublisher that calls deliver for each
// event drained every pollInterval. Run must be called to start
// draining; a QueuePublisher that is never run simply buffers events in
// memory.
func NewQueuePublisher(deliver Deliver, pollInterval time.Duration) *QueuePublisher {
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}
	return &QueuePublisher{
		deliver:      deliver,
		pollInterval: pollInterval,
	}
}

// Enqueue implements Publisher.
func (q *QueuePublisher) Enqueue(_ context.Context, event PublicationEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, event)
	if q.metrics != nil {
		q.metrics.setPublisherQueueSize(len(q.events))
	}
}

// dequeueAll removes and returns every currently buffered event.
func (q *QueuePublisher) dequeueAll() []PublicationEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	events := q.events
	q.events = nil
	if q.metrics != nil {
		q.metrics.setPublisherQueueSize(0)
	}
	return events
}

// Run starts the background dispatch goroutine. It returns immediately;
// call Stop to drain and shut the dispatcher down. Run is a no-op if
// already running.
func (q *QueuePublisher) Run(ctx context.Context) {
	if q.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	g, gctx := errgroup.WithContext(runCtx)
	q.group = g
	g.Go(func() error {
		q.dispatchLoop(gctx)
		return nil
	})
}

// dispatchLoop waits one poll interval, drains everything available,
// and repeats; once the context is canceled it drains one last time and
// returns.
func (q *QueuePublisher) dispatchLoop(ctx context.Context) {
	ticker := time.NewTicker(q.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			for _, ev := range q.dequeueAll() {
				q.deliver(context.Background(), ev)
			}
			return
		case <-ticker.C:
			for _, ev := range q.dequeueAll() {
				q.deliver(ctx, ev)
			}
		}
	}
}

// Stop cancels the dispatch goroutine and waits for it to finish
// draining.
func (q *QueuePublisher) Stop() {
	if q.cancel == nil {
		return
	}
	q.cancel()
	_ = q.group.Wait()
}

var _ Publisher = (*QueuePublisher)(nil)
