// Package coreerr defines the error taxonomy shared by every musiccore
// component. Callers use errors.Is/errors.As against the sentinel kinds
// below rather than matching on message strings, the same pattern the
// teacher package uses for classifying Graph API failures.
package coreerr

import (
	"errors"
	"fmt"
)

// Kind identifies which bucket of the taxonomy an error falls into.
// Kinds are checked with errors.Is against the package-level sentinels,
// never by comparing strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAvailable
	KindOperationFailed
	KindIO
	KindDatabase
	KindNotFound
	KindInvalidInput
	KindAuthenticationFailed
	KindTokenRefreshFailed
	KindNotAuthenticated
	KindSecureStorageUnavailable
	KindSyncInProgress
	KindJobNotFound
	KindCancelled
	KindTimeout
	KindUnsupportedCodec
	KindDecodingError
	KindStreamingFailed
	KindCacheError
	KindRateLimited
	KindHTTPError
	KindJSONParse
	KindRemoteAPI
)

func (k Kind) String() string {
	switch k {
	case KindNotAvailable:
		return "NotAvailable"
	case KindOperationFailed:
		return "OperationFailed"
	case KindIO:
		return "Io"
	case KindDatabase:
		return "DatabaseError"
	case KindNotFound:
		return "NotFound"
	case KindInvalidInput:
		return "InvalidInput"
	case KindAuthenticationFailed:
		return "AuthenticationFailed"
	case KindTokenRefreshFailed:
		return "TokenRefreshFailed"
	case KindNotAuthenticated:
		return "NotAuthenticated"
	case KindSecureStorageUnavailable:
		return "SecureStorageUnavailable"
	case KindSyncInProgress:
		return "SyncInProgress"
	case KindJobNotFound:
		return "JobNotFound"
	case KindCancelled:
		return "Cancelled"
	case KindTimeout:
		return "Timeout"
	case KindUnsupportedCodec:
		return "UnsupportedCodec"
	case KindDecodingError:
		return "DecodingError"
	case KindStreamingFailed:
		return "StreamingFailed"
	case KindCacheError:
		return "CacheError"
	case KindRateLimited:
		return "RateLimited"
	case KindHTTPError:
		return "HttpError"
	case KindJSONParse:
		return "JsonParse"
	case KindRemoteAPI:
		return "RemoteApi"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carried across every component
// boundary. Fields beyond Kind/Message are populated as needed by the
// call site (entity/id for NotFound, field for InvalidInput, etc.).
type Error struct {
	Kind     Kind
	Message  string
	Entity   string // NotFound
	ID       string // NotFound / JobNotFound
	Field    string // InvalidInput
	Provider string // AuthenticationFailed / RateLimited
	Retry    int    // RateLimited: retry_after_seconds
	Seconds  int    // Timeout
	Codec    string // UnsupportedCodec
	Status   int    // HttpError
	Body     string // HttpError
	Err      error  // wrapped underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, coreerr.New(coreerr.KindNotFound, "")) style checks are
// unnecessary — callers instead compare against the sentinel values below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return e.Kind == t.Kind
}

// Sentinels usable with errors.Is(err, coreerr.ErrNotFound) etc. Each
// carries only its Kind; construct a full *Error with New for the
// caller-facing value, and check against these for classification.
var (
	ErrNotAvailable            = &Error{Kind: KindNotAvailable}
	ErrOperationFailed         = &Error{Kind: KindOperationFailed}
	ErrIO                      = &Error{Kind: KindIO}
	ErrDatabase                = &Error{Kind: KindDatabase}
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrInvalidInput            = &Error{Kind: KindInvalidInput}
	ErrAuthenticationFailed    = &Error{Kind: KindAuthenticationFailed}
	ErrTokenRefreshFailed      = &Error{Kind: KindTokenRefreshFailed}
	ErrNotAuthenticated        = &Error{Kind: KindNotAuthenticated}
	ErrSecureStorageUnavailable = &Error{Kind: KindSecureStorageUnavailable}
	ErrSyncInProgress          = &Error{Kind: KindSyncInProgress}
	ErrJobNotFound             = &Error{Kind: KindJobNotFound}
	ErrCancelled               = &Error{Kind: KindCancelled}
	ErrTimeout                 = &Error{Kind: KindTimeout}
	ErrUnsupportedCodec        = &Error{Kind: KindUnsupportedCodec}
	ErrDecodingError           = &Error{Kind: KindDecodingError}
	ErrStreamingFailed         = &Error{Kind: KindStreamingFailed}
	ErrCacheError              = &Error{Kind: KindCacheError}
	ErrRateLimited             = &Error{Kind: KindRateLimited}
	ErrHTTPError               = &Error{Kind: KindHTTPError}
	ErrJSONParse               = &Error{Kind: KindJSONParse}
	ErrRemoteAPI               = &Error{Kind: KindRemoteAPI}
)

// New builds an *Error of the given kind wrapping cause (which may be nil).
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NotFound builds a KindNotFound error identifying the missing row.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// InvalidInput builds a KindInvalidInput validation error.
func InvalidInput(field, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: msg}
}

// SyncInProgress builds a KindSyncInProgress error for a profile/provider
// that already has a non-terminal job.
func SyncInProgress(profileID string) *Error {
	return &Error{Kind: KindSyncInProgress, ID: profileID, Message: fmt.Sprintf("sync already in progress for %s", profileID)}
}

// JobNotFound builds a KindJobNotFound error.
func JobNotFound(jobID string) *Error {
	return &Error{Kind: KindJobNotFound, ID: jobID, Message: fmt.Sprintf("job %s not found", jobID)}
}

// Timeout builds a KindTimeout error for an operation that exceeded its deadline.
func Timeout(seconds int) *Error {
	return &Error{Kind: KindTimeout, Seconds: seconds, Message: "timeout"}
}

// RateLimited builds a KindRateLimited error carrying the provider's
// Retry-After hint.
func RateLimited(provider string, retryAfterSeconds int) *Error {
	return &Error{Kind: KindRateLimited, Provider: provider, Retry: retryAfterSeconds, Message: "rate limited"}
}

// Retryable reports whether an error's Kind is one the propagation policy
// (spec §7) treats as locally recoverable: rate limits, transient I/O,
// transient database unavailability, and generic operation failures.
// Validation, auth, codec, and database-corruption errors are not retryable.
func Retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Kind {
	case KindRateLimited, KindIO, KindOperationFailed, KindHTTPError:
		return true
	default:
		return false
	}
}
