package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStoryNotFound is returned when a story ID is not registered in the catalog.
var ErrStoryNotFound = errors.New("story not found")

// ErrDuplicateStory is returned when a story ID is registered twice.
var ErrDuplicateStory = errors.New("story already registered")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSnapshot is returned when a snapshot does not fit the story it refers to.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ValidationError represents a single integrity problem in a story graph.
type ValidationError struct {
	StoryID string
	SceneID string // Empty for story-level problems
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.SceneID == "" {
		return fmt.Sprintf("story %q: %s", e.StoryID, e.Reason)
	}
	return fmt.Sprintf("story %q, scene %q: %s", e.StoryID, e.SceneID, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors carried by err.
// A single *ValidationError is returned as a one-element slice; anything else yields nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return []error{single}
	}
	return nil
}
