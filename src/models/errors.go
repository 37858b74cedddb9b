package models

import (
	"errors"
	"fmt"
)

// WorkflowError is the tagged failure type the provisioning workflow
// returns. Kind identifies which stage failed so callers can branch
// without string-matching log output; Err keeps the upstream cause for
// server-side logs only and must not be shown to end users.
type WorkflowError struct {
	Kind    string
	Message string
	Err     error
}

const (
	ErrIdentityCreationFailed          = "IDENTITY_CREATION_FAILED"
	ErrAuthenticationFailed            = "AUTHENTICATION_FAILED"
	ErrAgeRequirementNotMet            = "AGE_REQUIREMENT_NOT_MET"
	ErrProcessorCustomerCreationFailed = "PROCESSOR_CUSTOMER_CREATION_FAILED"
	ErrPersistenceFailed               = "PERSISTENCE_FAILED"
	ErrTokenExchangeFailed             = "TOKEN_EXCHANGE_FAILED"
	ErrFundingSourceCreationFailed     = "FUNDING_SOURCE_CREATION_FAILED"
)

func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func NewWorkflowError(kind, message string, err error) *WorkflowError {
	return &WorkflowError{Kind: kind, Message: message, Err: err}
}

// ErrorKind returns the workflow error kind, or "" for any other error.
func ErrorKind(err error) string {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}
