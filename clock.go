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

import "time"

// Clock supplies the current time. Injected so PublicationEvent
// timestamps and submission durations are deterministic in tests; core
// submission logic never calls time.Now directly.
type Clock interface {
	Now() time.Time
}

// RealClock reports the actual system time. Use it at process wiring
// points only.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant. Useful for deterministic
// tests.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

var (
	_ Clock = RealClock{}
	_ Clock = FixedClock{}
)
