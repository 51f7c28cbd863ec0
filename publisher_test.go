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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNoopPublisherDiscards(t *testing.T) {
	var p NoopPublisher
	p.Enqueue(context.Background(), PublicationEvent{NexusID: "x"})
}

func TestQueuePublisherDeliversEnqueuedEvents(t *testing.T) {
	var mu sync.Mutex
	var delivered []PublicationEvent

	q := NewQueuePublisher(func(_ context.Context, ev PublicationEvent) {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, ev)
	}, 5*time.Millisecond)

	q.Enqueue(context.Background(), PublicationEvent{NexusID: "n1"})
	q.Run(context.Background())
	defer q.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestQueuePublisherStopDrainsRemaining(t *testing.T) {
	var mu sync.Mutex
	var delivered []PublicationEvent

	q := NewQueuePublisher(func(_ context.Context, ev PublicationEvent) {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, ev)
	}, time.Hour)

	q.Enqueue(context.Background(), PublicationEvent{NexusID: "n1"})
	q.Run(context.Background())
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
}

func TestManagerPublishesOnCommit(t *testing.T) {
	var mu sync.Mutex
	var events []PublicationEvent
	q := NewQueuePublisher(func(_ context.Context, ev PublicationEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}, 5*time.Millisecond)
	q.Run(context.Background())
	defer q.Stop()

	m := NewManager(WithPublisher(q))
	h := m.NewHook(intValue(1))
	require.NoError(t, h.Submit(context.Background(), intValue(2)))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, intValue(2), events[0].Current)
	require.Equal(t, intValue(1), events[0].Previous)
}
