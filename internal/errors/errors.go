// Package errors defines the stable error code system for releasewarrior.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract; scripts match on these strings.
const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Configuration
	EInvalidConfig Code = "E_INVALID_CONFIG"
	EConfigExists  Code = "E_CONFIG_EXISTS"

	// Release lifecycle
	EUntrackedRelease   Code = "E_UNTRACKED_RELEASE"    // operate on a release never tracked
	EAlreadyTracked     Code = "E_ALREADY_TRACKED"      // track called on an existing release
	EInvalidPrereqIndex Code = "E_INVALID_PREREQ_INDEX" // --resolve id outside 1..len(human_tasks)
	EPartialMove        Code = "E_PARTIAL_MOVE"         // upcoming->inflight move left one file behind
	ENoChanges          Code = "E_NO_CHANGES"           // commit guard found nothing to persist
	ERenderFailed       Code = "E_RENDER_FAILED"        // wiki template referenced a missing field
	EStoreCorrupt       Code = "E_STORE_CORRUPT"        // document unreadable or violates invariants
	EPersistFailed      Code = "E_PERSIST_FAILED"       // writing the data or wiki file failed
	ETemplateNotFound   Code = "E_TEMPLATE_NOT_FOUND"   // no data/wiki template for product/branch
	EReleaseLocked      Code = "E_RELEASE_LOCKED"       // another process holds the release lock
	ENotInteractive     Code = "E_NOT_INTERACTIVE"      // prompt required but no TTY
	EAborted            Code = "E_ABORTED"              // operator cancelled the prompt
	EPipelineDirty      Code = "E_PIPELINE_DIRTY"       // pipeline checkout has staged changes
	EGitNotInstalled    Code = "E_GIT_NOT_INSTALLED"    // git binary not found on PATH
	EGitFailed          Code = "E_GIT_FAILED"           // git exited non-zero
	ENoPipelineRepo     Code = "E_NO_PIPELINE_REPO"     // release_pipeline_repo is not a git checkout
	ERollbackFailed     Code = "E_ROLLBACK_FAILED"      // undo after a failed write did not complete
)

// Error is the standard error type for releasewarrior errors.
type Error struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// NewWithDetails creates a new Error with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &Error{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new Error wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &Error{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new Error wrapping an underlying error with details.
// Details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &Error{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// WithDetails returns err with extra details merged in. Keys already present on
// err are kept. Non-Error values are wrapped as E_INTERNAL.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}
	e, ok := AsError(err)
	if !ok {
		return WrapWithDetails(EInternal, err.Error(), err, details)
	}
	merged := copyDetails(details)
	if merged == nil {
		merged = make(map[string]string, len(e.Details))
	}
	for k, v := range e.Details {
		merged[k] = v
	}
	return &Error{Code: e.Code, Msg: e.Msg, Cause: e.Cause, Details: merged}
}

// GetCode extracts the error code from an error, or empty string if not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// AsError returns (*Error, true) if err is or wraps an *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the process exit code for an error.
// 0 for nil, 2 for E_USAGE, 3 for E_NO_CHANGES, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case EUsage:
		return 2
	case ENoChanges:
		return 3
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var e *Error
	if errors.As(err, &e) {
		_, _ = fmt.Fprintf(w, "error_code: %s\n", e.Code)
		_, _ = fmt.Fprintln(w, e.Msg)
	} else {
		_, _ = fmt.Fprintln(w, err.Error())
	}
}
