package errors

import "fmt"

type VideoError struct {
	Code    string
	Message string
	Err     error
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *VideoError) Unwrap() error {
	return e.Err
}

var (
	ErrNotFound = func(err error) *VideoError {
		return &VideoError{Code: "not_found", Message: "video not found", Err: err}
	}
	ErrRangeRequired = func(err error) *VideoError {
		return &VideoError{Code: "range_required", Message: "Range header is required", Err: err}
	}
	ErrInvalidRange = func(err error) *VideoError {
		return &VideoError{Code: "invalid_range", Message: "malformed Range header", Err: err}
	}
	ErrMissingOwner = func(err error) *VideoError {
		return &VideoError{Code: "missing_owner", Message: "owner must not be empty", Err: err}
	}
	ErrInvalidUpload = func(err error) *VideoError {
		return &VideoError{Code: "invalid_upload", Message: "malformed or unsupported upload", Err: err}
	}
	ErrAlreadyReady = func(err error) *VideoError {
		return &VideoError{Code: "already_ready", Message: "asset already processed", Err: err}
	}
	ErrNotRetryable = func(err error) *VideoError {
		return &VideoError{Code: "not_retryable", Message: "asset is not in error state", Err: err}
	}
	ErrNotCancellable = func(err error) *VideoError {
		return &VideoError{Code: "not_cancellable", Message: "processing already started", Err: err}
	}
	ErrInvalidTrim = func(err error) *VideoError {
		return &VideoError{Code: "invalid_trim", Message: "invalid trim points", Err: err}
	}
	ErrProcessing = func(err error) *VideoError {
		return &VideoError{Code: "processing", Message: "asset has a pipeline run in progress", Err: err}
	}
	ErrStorage = func(err error) *VideoError {
		return &VideoError{Code: "storage_error", Message: "could not persist file", Err: err}
	}
	ErrInternal = func(err error) *VideoError {
		return &VideoError{Code: "internal_error", Message: "internal server error", Err: err}
	}
	ErrForbidden = func(err error) *VideoError {
		return &VideoError{Code: "forbidden", Message: "not allowed", Err: err}
	}
)
