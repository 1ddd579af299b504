// Package errors provides standardized error types for the certpush CLI tool.
//
// The errors package defines domain-specific error types that enable
// structured error handling, consistent messages, and stable exit codes
// throughout the application.
//
// # Error Types
//
// PushError is the primary error type, containing:
//   - Code: Categorizes the error (CERT_NOT_FOUND, PROBE, SERVICE, etc.)
//   - Message: Human-readable error description
//   - Artifact: The artifact involved, if any ("certificate" or "key")
//   - ServiceIndex: 1-based index of the failed service binding, if any
//   - Err: The underlying wrapped error (if any)
//
// # Exit Codes
//
// Scripting callers (certificate renewal hooks in particular) distinguish
// failures by process exit code. Every PushError maps to a stable code via
// ExitCode; ExitCodeFor extracts it from an arbitrary error chain. Service
// binding failures encode the position in the ordered service list as
// ExitServiceBase plus the 1-based index.
//
// # Usage
//
// Creating domain-specific errors:
//
//	// Missing required configuration field
//	return errors.MissingField("host")
//
//	// Upload failure for one artifact
//	return errors.UploadFailed(errors.ArtifactCertificate, err)
//
//	// Binding failure at position 2 in the service list
//	return errors.ServiceFailed(2, "api-ssl", err)
//
// Use errors.Is for sentinel comparison (matches on Code):
//
//	if errors.Is(err, errors.ErrCertNotFound) {
//	    // handle missing certificate
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different failure categories.
const (
	ErrCodeConfig          ErrorCode = "CONFIG"            // Missing or invalid configuration
	ErrCodeCertNotFound    ErrorCode = "CERT_NOT_FOUND"    // Local certificate file missing
	ErrCodeCertNotReadable ErrorCode = "CERT_NOT_READABLE" // Local certificate file unreadable
	ErrCodeKeyNotFound     ErrorCode = "KEY_NOT_FOUND"     // Local private key file missing
	ErrCodeKeyNotReadable  ErrorCode = "KEY_NOT_READABLE"  // Local private key file unreadable
	ErrCodeProbe           ErrorCode = "PROBE"             // Session probe failed
	ErrCodeSetup           ErrorCode = "SETUP"             // Session or transfer subsystem setup failed
	ErrCodeCertUpload      ErrorCode = "CERT_UPLOAD"       // Certificate transfer or import failed
	ErrCodeKeyUpload       ErrorCode = "KEY_UPLOAD"        // Key transfer or import failed
	ErrCodeService         ErrorCode = "SERVICE"           // Service binding failed
	ErrCodeUnknownService  ErrorCode = "UNKNOWN_SERVICE"   // Service list contains an unknown identifier
	ErrCodeCleanup         ErrorCode = "CLEANUP"           // Remote cleanup failed (never fatal)
)

// Artifact names used in error context.
const (
	ArtifactCertificate = "certificate"
	ArtifactKey         = "key"
)

// Process exit codes. Each failure category keeps a distinct code so that
// renewal hooks can react to the exact step that failed.
const (
	ExitOK              = 0
	ExitConfig          = 1
	ExitCertNotFound    = 10
	ExitCertNotReadable = 11
	ExitKeyNotFound     = 12
	ExitKeyNotReadable  = 13
	ExitProbe           = 20
	ExitSetup           = 21
	ExitCertUpload      = 30
	ExitKeyUpload       = 31
	ExitServiceBase     = 40 // plus the 1-based service index
	ExitUnknownService  = 50
	ExitCleanup         = 60
)

// PushError represents a structured error with context about the operation.
type PushError struct {
	Code         ErrorCode // Error category
	Message      string    // Human-readable message
	Artifact     string    // Artifact name (if applicable)
	ServiceIndex int       // 1-based service index (if applicable)
	Err          error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *PushError) Error() string {
	if e.Artifact != "" && e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Artifact, e.Message, e.Err)
	}
	if e.Artifact != "" {
		return fmt.Sprintf("%s %s", e.Artifact, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *PushError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *PushError) Is(target error) bool {
	t, ok := target.(*PushError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ExitCode returns the process exit code for this error.
func (e *PushError) ExitCode() int {
	switch e.Code {
	case ErrCodeConfig:
		return ExitConfig
	case ErrCodeCertNotFound:
		return ExitCertNotFound
	case ErrCodeCertNotReadable:
		return ExitCertNotReadable
	case ErrCodeKeyNotFound:
		return ExitKeyNotFound
	case ErrCodeKeyNotReadable:
		return ExitKeyNotReadable
	case ErrCodeProbe:
		return ExitProbe
	case ErrCodeSetup:
		return ExitSetup
	case ErrCodeCertUpload:
		return ExitCertUpload
	case ErrCodeKeyUpload:
		return ExitKeyUpload
	case ErrCodeService:
		return ExitServiceBase + e.ServiceIndex
	case ErrCodeUnknownService:
		return ExitUnknownService
	case ErrCodeCleanup:
		return ExitCleanup
	default:
		return ExitConfig
	}
}

// Sentinel errors for common scenarios. Use with errors.Is().
var (
	// ErrCertNotFound indicates the local certificate file does not exist.
	ErrCertNotFound = &PushError{Code: ErrCodeCertNotFound, Message: "certificate file not found"}

	// ErrCertNotReadable indicates the local certificate file cannot be read.
	ErrCertNotReadable = &PushError{Code: ErrCodeCertNotReadable, Message: "certificate file not readable"}

	// ErrKeyNotFound indicates the local private key file does not exist.
	ErrKeyNotFound = &PushError{Code: ErrCodeKeyNotFound, Message: "private key file not found"}

	// ErrKeyNotReadable indicates the local private key file cannot be read.
	ErrKeyNotReadable = &PushError{Code: ErrCodeKeyNotReadable, Message: "private key file not readable"}

	// ErrProbeFailed indicates the appliance did not answer the session probe.
	ErrProbeFailed = &PushError{Code: ErrCodeProbe, Message: "session probe failed"}

	// ErrUnknownService indicates the configured service list contains an
	// identifier the tool does not know how to bind. This is a bug in the
	// service list, not a recoverable per-service failure.
	ErrUnknownService = &PushError{Code: ErrCodeUnknownService, Message: "unknown service identifier"}
)

// MissingField creates a configuration error naming the missing field.
func MissingField(field string) error {
	return &PushError{
		Code:    ErrCodeConfig,
		Message: fmt.Sprintf("required parameter %q is not set", field),
	}
}

// Config creates a configuration error with a custom message.
func Config(msg string) error {
	return &PushError{
		Code:    ErrCodeConfig,
		Message: msg,
	}
}

// ProbeFailed creates a fatal probe error wrapping the transport failure.
func ProbeFailed(err error) error {
	return &PushError{
		Code:    ErrCodeProbe,
		Message: "session probe failed",
		Err:     err,
	}
}

// SetupFailed creates an error for session or SFTP subsystem setup failures.
func SetupFailed(msg string, err error) error {
	return &PushError{
		Code:    ErrCodeSetup,
		Message: msg,
		Err:     err,
	}
}

// UploadFailed creates a fatal transfer error for one artifact.
func UploadFailed(artifact string, err error) error {
	code := ErrCodeCertUpload
	if artifact == ArtifactKey {
		code = ErrCodeKeyUpload
	}
	return &PushError{
		Code:     code,
		Message:  "upload failed",
		Artifact: artifact,
		Err:      err,
	}
}

// ImportFailed creates a fatal import error for one artifact.
func ImportFailed(artifact string, err error) error {
	code := ErrCodeCertUpload
	if artifact == ArtifactKey {
		code = ErrCodeKeyUpload
	}
	return &PushError{
		Code:     code,
		Message:  "import failed",
		Artifact: artifact,
		Err:      err,
	}
}

// ServiceFailed creates a fatal binding error carrying the 1-based index of
// the service within the ordered service list.
func ServiceFailed(index int, service string, err error) error {
	return &PushError{
		Code:         ErrCodeService,
		Message:      fmt.Sprintf("failed to bind service %q", service),
		ServiceIndex: index,
		Err:          err,
	}
}

// UnknownService creates the fatal unknown-service error.
func UnknownService(service string) error {
	return &PushError{
		Code:    ErrCodeUnknownService,
		Message: fmt.Sprintf("unknown service identifier %q", service),
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &PushError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// ExitCodeFor returns the process exit code for an arbitrary error.
// Non-PushError values map to ExitConfig; nil maps to ExitOK.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var pe *PushError
	if errors.As(err, &pe) {
		return pe.ExitCode()
	}
	return ExitConfig
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
