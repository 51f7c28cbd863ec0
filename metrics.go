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
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink bundles the Prometheus collectors a Manager reports
// through. It registers directly against a prometheus.Registerer rather
// than through an operator-framework bridge, since this module has no
// controller runtime to borrow a registry from.
type metricsSink struct {
	hooksCreated       prometheus.Counter
	submissionsTotal   *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	fusionsTotal       *prometheus.CounterVec
	isolationsTotal    *prometheus.CounterVec
	publisherQueueSize prometheus.Gauge
}

// newMetricsSink constructs a metricsSink with every collector
// registered under namespace "nexuscore", and registers them against reg.
// A nil reg produces an unregistered sink: collectors still work as
// Go values, they are simply never scraped — used when a caller has not
// opted into a Prometheus registry via WithRegisterer.
func newMetricsSink(reg prometheus.Registerer) *metricsSink {
	s := &metricsSink{
		hooksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexuscore",
			Name:      "hooks_created_total",
			Help:      "Total hooks created by the manager registered against this registry.",
		}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexuscore",
			Name:      "submissions_total",
			Help:      "Total submissions processed, partitioned by outcome.",
		}, []string{"outcome"}),
		submissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nexuscore",
			Name:      "submission_duration_seconds",
			Help:      "Wall-clock time spent inside the write lock per submission.",
			Buckets:   prometheus.DefBuckets,
		}),
		fusionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexuscore",
			Name:      "fusions_total",
			Help:      "Total link operations, partitioned by outcome.",
		}, []string{"outcome"}),
		isolationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexuscore",
			Name:      "isolations_total",
			Help:      "Total isolate operations, partitioned by outcome.",
		}, []string{"outcome"}),
		publisherQueueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nexuscore",
			Name:      "publisher_queue_size",
			Help:      "Number of publication events currently buffered by the manager's QueuePublisher.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			s.hooksCreated,
			s.submissionsTotal,
			s.submissionDuration,
			s.fusionsTotal,
			s.isolationsTotal,
			s.publisherQueueSize,
		)
	}
	return s
}

func (s *metricsSink) observeHookCreated() {
	if s == nil {
		return
	}
	s.hooksCreated.Inc()
}

func (s *metricsSink) observeSubmission(outcome string, seconds float64) {
	if s == nil {
		return
	}
	s.submissionsTotal.WithLabelValues(outcome).Inc()
	s.submissionDuration.Observe(seconds)
}

func (s *metricsSink) observeFusion(outcome string) {
	if s == nil {
		return
	}
	s.fusionsTotal.WithLabelValues(outcome).Inc()
}

func (s *metricsSink) observeIsolation(outcome string) {
	if s == nil {
		return
	}
	s.isolationsTotal.WithLabelValues(outcome).Inc()
}

func (s *metricsSink) setPublisherQueueSize(n int) {
	if s == nil {
		return
	}
	s.publisherQueueSize.Set(float64(n))
}
