package orchestrator

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers.
var (
	// ErrAgentNotFound means the invoked agent id does not exist.
	ErrAgentNotFound = errors.New("agent not found")
	// ErrDepthExceeded means a reply would exceed the maximum thread
	// depth. Nothing was written.
	ErrDepthExceeded = errors.New("max reply depth exceeded")
	// ErrParentNotFound means the action's target post does not exist.
	ErrParentNotFound = errors.New("target post not found")
)

// CredentialError reports a missing, inactive, or undecryptable
// provider credential. Configuration errors of this kind are fatal to
// the invocation and never retried.
type CredentialError struct {
	Reason string
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *CredentialError) Unwrap() error { return e.Err }

// GenerationError reports a provider-side generation failure, after the
// one-shot model fallback (when the provider has one) was exhausted.
type GenerationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate content with %s (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ExecutionError wraps a failure while applying a parsed action to
// storage. Sentinels like ErrDepthExceeded remain reachable through
// errors.Is.
type ExecutionError struct {
	ActionType string
	Err        error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute %s action: %v", e.ActionType, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
