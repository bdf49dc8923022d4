package services

import (
	"errors"
	"fmt"
)

// ErrNoInstanceConfigured is returned when neither a space-scoped nor a
// workspace-master engine instance exists for a resolution target.
var ErrNoInstanceConfigured = errors.New("no engine instance configured")

// ErrSourceIDMissing is returned by Resync when the automation's stored
// document does not embed an engine-assigned workflow id.
var ErrSourceIDMissing = errors.New("no source workflow id in automation document")

// ErrMalformedDocument is returned when a workflow document fails the
// minimal shape checks performed before projection.
var ErrMalformedDocument = errors.New("malformed workflow document")

// ErrInvalidAction is returned for an activation action other than
// "activate" or "deactivate".
var ErrInvalidAction = errors.New(`invalid action, must be "activate" or "deactivate"`)

// ErrDefinitionExists is returned when bootstrapping an automation at a
// descriptor path that already holds a definition.
var ErrDefinitionExists = errors.New("definition path already exists in descriptor store")

// ErrNoStoreToken is returned when a descriptor write is required but
// neither the request nor the workspace's stored credential provides a
// token.
var ErrNoStoreToken = errors.New("no descriptor store token available")

// PartialError reports an operation whose engine-side effect succeeded but
// whose descriptor-store write did not. The live state changed; the audit
// descriptor may be stale. Callers must surface both facts instead of
// collapsing them into a single failure.
type PartialError struct {
	Err error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("engine updated, but audit descriptor not synchronized: %v", e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
