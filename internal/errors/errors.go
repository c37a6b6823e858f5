package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Client errors
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Git errors
	ErrCodeUserEmailNotFound  ErrorCode = "USER_EMAIL_NOT_FOUND"
	ErrCodeGitCommandNotFound ErrorCode = "GIT_COMMAND_NOT_FOUND"
	ErrCodeCommitHashesFailed ErrorCode = "COMMIT_HASHES_FAILED"

	// GitHub errors
	ErrCodeGitHubRequestFailed ErrorCode = "GITHUB_REQUEST_FAILED"

	// Mail provider errors
	ErrCodeMissingEnvironment   ErrorCode = "MISSING_ENVIRONMENT"
	ErrCodeMissingCredentials   ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeTokenAcquireFailed   ErrorCode = "TOKEN_ACQUIRE_FAILED"
	ErrCodeCredentialsParse     ErrorCode = "CREDENTIALS_PARSE_FAILED"
	ErrCodeMailServiceFailed    ErrorCode = "MAIL_SERVICE_FAILED"
	ErrCodeDraftCreateFailed    ErrorCode = "DRAFT_CREATE_FAILED"
	ErrCodeTokenPersistFailed   ErrorCode = "TOKEN_PERSIST_FAILED"
	ErrCodeInternalError        ErrorCode = "INTERNAL_ERROR"
	ErrCodeAuthorizationTimeout ErrorCode = "AUTHORIZATION_TIMEOUT"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getStatusCodeForError(code),
	}
}

// Wrap wraps an existing error with application context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getStatusCodeForError(code),
		Err:        err,
	}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: getStatusCodeForError(code),
		Err:        err,
	}
}

// Is reports whether err is an AppError carrying code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Describe renders err for a human reader: the AppError message plus
// details when present, or the plain error text otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}

	if appErr.Details != "" {
		return fmt.Sprintf("%s: %s", appErr.Message, appErr.Details)
	}
	return appErr.Message
}

// getStatusCodeForError maps error codes to HTTP status codes
func getStatusCodeForError(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeUserEmailNotFound, ErrCodeMissingCredentials:
		return http.StatusNotFound
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeGitHubRequestFailed:
		return http.StatusBadGateway
	case ErrCodeAuthorizationTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors for convenience

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return New(ErrCodeValidationFailed, message)
}

// InvalidRequest creates an invalid request error
func InvalidRequest(message string) *AppError {
	return New(ErrCodeInvalidRequest, message)
}

// UserEmailNotFound reports that no author email could be resolved for git
func UserEmailNotFound(reason string) *AppError {
	appErr := New(ErrCodeUserEmailNotFound, "Can't find user.email for git")
	appErr.Details = reason
	return appErr
}

// GitCommandNotFound reports a missing git binary
func GitCommandNotFound(err error) *AppError {
	return Wrap(err, ErrCodeGitCommandNotFound, "Git command not found in the specified directory or PATH")
}

// CommitHashesFailed reports a failed git log in dir
func CommitHashesFailed(dir string, err error) *AppError {
	return Wrapf(err, ErrCodeCommitHashesFailed, "Fail to get commit hashes for the given directories: %s", dir)
}

// GitHubRequestFailed reports a failed GitHub search
func GitHubRequestFailed(reason string, err error) *AppError {
	return Wrapf(err, ErrCodeGitHubRequestFailed, "Github HTTP request error: %s", reason)
}

// MissingEnvironment reports a required variable absent from the environment
func MissingEnvironment(name string) *AppError {
	return New(ErrCodeMissingEnvironment, fmt.Sprintf("Can't find %s in the given .env file", name))
}

// MissingCredentials reports an absent OAuth2 client secrets file
func MissingCredentials(path string) *AppError {
	return New(ErrCodeMissingCredentials, fmt.Sprintf("Can't find the Google OAuth2 credentials with the given path: %s", path))
}

// TokenAcquireFailed reports a failed interactive authorization
func TokenAcquireFailed(path string, err error) *AppError {
	return Wrapf(err, ErrCodeTokenAcquireFailed, "Fail to get token credentials with the given Google OAuth2 credentials: %s", path)
}

// CredentialsParseFailed reports an unreadable credentials or token file
func CredentialsParseFailed(path string, err error) *AppError {
	return Wrapf(err, ErrCodeCredentialsParse, "Fail to parse the credentials for the given file: %s", path)
}

// MailServiceFailed reports a failure constructing the mail client
func MailServiceFailed(err error) *AppError {
	appErr := Wrap(err, ErrCodeMailServiceFailed, "Fail to build a service with gmail")
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// DraftCreateFailed reports a rejected draft creation call
func DraftCreateFailed(err error) *AppError {
	appErr := Wrap(err, ErrCodeDraftCreateFailed, "Fail to create the draft with gmail")
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// TokenPersistFailed reports a token that could not be written to path
func TokenPersistFailed(path string, err error) *AppError {
	appErr := Wrapf(err, ErrCodeTokenPersistFailed, "Fail to save the token credentials to the given file: %s", path)
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// InternalError creates an internal server error
func InternalError(err error) *AppError {
	return Wrap(err, ErrCodeInternalError, "Internal server error")
}
