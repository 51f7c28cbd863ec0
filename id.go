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

import "github.com/google/uuid"

// newID mints a globally-unique, opaque identifier for a Nexus, Hook or
// Owner. Callers must treat the result as opaque; only equality is
// meaningful.
func newID() string {
	return uuid.NewString()
}
