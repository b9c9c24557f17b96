package usecase

import "errors"

const (
	CodeMissingFields = "MISSING_FIELDS"
	CodeLeadNotFound  = "LEAD_NOT_FOUND"
	CodeStoreFailed   = "STORE_FAILED"
	CodeEmailFailed   = "EMAIL_SEND_FAILED"
	CodeSMSFailed     = "SMS_SEND_FAILED"
)

// DomainError: the request itself is wrong (validation, correlation miss).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError: an infra or provider call failed; the request may succeed
// if redelivered.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
