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
	"errors"
	"fmt"
)

// Sentinel errors identifying the failure kinds defined by the
// submission pipeline. Use errors.Is against these; wrapped errors
// returned by the pipeline carry additional context via %w.
var (
	// ErrValueConflict is returned when two hooks sharing a nexus were
	// submitted with different candidate values in one submission.
	ErrValueConflict = errors.New("nexuscore: conflicting candidate values for one nexus")

	// ErrIsolatedValidation is returned when a hook's isolated
	// validator rejects a candidate value.
	ErrIsolatedValidation = errors.New("nexuscore: isolated validation rejected candidate")

	// ErrOwnerValidation is returned when an owner's cross-hook
	// validator rejects a proposed snapshot.
	ErrOwnerValidation = errors.New("nexuscore: owner validation rejected snapshot")

	// ErrCompletionFailed is returned when an owner's completion step
	// fails.
	ErrCompletionFailed = errors.New("nexuscore: owner completion failed")

	// ErrFusionRejected is returned when a link is aborted because the
	// combined validation set rejected the fusion candidate.
	ErrFusionRejected = errors.New("nexuscore: fusion rejected")

	// ErrNestedSubmission is returned when a phase-6 callback attempts
	// to submit back into the manager that is currently notifying it.
	ErrNestedSubmission = errors.New("nexuscore: nested submission from within notification")

	// ErrDeadHook is returned when an operation targets a hook that has
	// been released.
	ErrDeadHook = errors.New("nexuscore: hook is no longer live")

	// ErrEmptyIsolation is reserved for implementations that choose to
	// treat isolating a singleton-membership hook as an error. This
	// implementation does not raise it (see Hook.Isolate), but it is
	// exported so callers porting code from an implementation that does
	// can match on it uniformly.
	ErrEmptyIsolation = errors.New("nexuscore: isolate called on a hook with no peers")

	// ErrCrossManager is returned when an operation is attempted
	// between hooks that belong to different NexusManagers.
	ErrCrossManager = errors.New("nexuscore: hooks belong to different managers")
)

// isolatedValidationError wraps ErrIsolatedValidation with the
// identifying hook and the validator's message.
func isolatedValidationError(hookID, hookName, message string) error {
	if hookName == "" {
		hookName = hookID
	}
	return fmt.Errorf("%w: hook %q: %s", ErrIsolatedValidation, hookName, message)
}

// ownerValidationError wraps ErrOwnerValidation with the identifying
// owner and the validator's message.
func ownerValidationError(ownerID, message string) error {
	return fmt.Errorf("%w: owner %q: %s", ErrOwnerValidation, ownerID, message)
}

// completionError wraps ErrCompletionFailed with the identifying owner.
func completionError(ownerID string, cause error) error {
	return fmt.Errorf("%w: owner %q: %w", ErrCompletionFailed, ownerID, cause)
}

// conflictError wraps ErrValueConflict with the offending nexus id.
func conflictError(nexusID string) error {
	return fmt.Errorf("%w: nexus %q", ErrValueConflict, nexusID)
}

// fusionRejectedError wraps ErrFusionRejected around the underlying
// validation failure that aborted the fusion.
func fusionRejectedError(cause error) error {
	return fmt.Errorf("%w: %w", ErrFusionRejected, cause)
}

// panicError converts a recovered panic value from a phase-6 callback
// into a plain error, so it can be logged and aggregated like any other
// swallowed notification failure.
func panicError(r interface{}) error {
	return fmt.Errorf("nexuscore: recovered panic in notification callback: %v", r)
}
