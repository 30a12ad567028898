package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when two images share a filename or would write the same output.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidTable is returned when a density table fails validation.
	ErrInvalidTable = errors.New("invalid density table")
	// ErrDigestMismatch is returned when content does not match the recorded digest.
	ErrDigestMismatch = errors.New("digest mismatch")
)

// ParseError is returned when a size or color value is present but malformed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("failed to parse %s %q", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedPlatformError is returned for a platform without a density table.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q", e.Platform)
}

// RenderError is returned by a renderer that could not produce a variant.
type RenderError struct {
	Source string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s: %v", e.Source, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IOError is returned when reading, copying, or writing a file fails.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// JobError attributes a failure to the image and density bucket that produced it.
// Bucket is nil for failures that happen before a bucket is selected, such as parse errors.
type JobError struct {
	Kind   string
	Source string
	Bucket *DensityBucket
	Err    error
}

func (e *JobError) Error() string {
	if e.Bucket != nil {
		return fmt.Sprintf("%s %s [%s]: %v", e.Kind, e.Source, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Source, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// AggregateJobError reports every job that failed in a run.
type AggregateJobError struct {
	Errors []*JobError
}

func (e *AggregateJobError) Error() string {
	if len(e.Errors) == 1 {
		return "1 job failed: " + e.Errors[0].Error()
	}
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, fmt.Sprintf("%d jobs failed:", len(e.Errors)))
	for _, je := range e.Errors {
		lines = append(lines, "  "+je.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes every job error to [errors.Is] and [errors.As].
func (e *AggregateJobError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, je := range e.Errors {
		errs[i] = je
	}
	return errs
}
