package domain

import (
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
)

// ErrorKind groups ledger failures by how a caller should react to them.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation" // fix the input
	KindPolicy     ErrorKind = "policy"     // input is well-formed but not allowed
	KindState      ErrorKind = "state"      // entry missing or in the wrong status
	KindTransient  ErrorKind = "transient"  // storage conflict or outage, retries exhausted
)

// ErrorReason names the precise precondition that failed.
type ErrorReason string

const (
	ReasonFewerThanTwoLines  ErrorReason = "fewer_than_two_lines"
	ReasonInvalidLineAmount  ErrorReason = "invalid_line_amount"
	ReasonMissingEntryDate   ErrorReason = "missing_entry_date"
	ReasonInvalidSourceType  ErrorReason = "invalid_source_type"
	ReasonReversalSource     ErrorReason = "reversal_source"
	ReasonUnknownAccount     ErrorReason = "unknown_account"
	ReasonInactiveAccount    ErrorReason = "inactive_account"
	ReasonUnbalanced         ErrorReason = "unbalanced"
	ReasonControlAccount     ErrorReason = "control_account"
	ReasonAccountLocked      ErrorReason = "account_locked"
	ReasonPeriodClosed       ErrorReason = "period_closed"
	ReasonPeriodNotFound     ErrorReason = "period_not_found"
	ReasonCapabilityMissing  ErrorReason = "capability_missing"
	ReasonEntryNotFound      ErrorReason = "entry_not_found"
	ReasonNotReversible      ErrorReason = "not_reversible"
	ReasonStorageUnavailable ErrorReason = "storage_unavailable"
)

// LedgerError is the structured failure returned by the posting, reversal and query engines.
// errors.Is matches both the apperrors sentinel for its kind and the wrapped cause.
type LedgerError struct {
	Op      string
	Kind    ErrorKind
	Reason  ErrorReason
	Message string
	Err     error
}

func (e *LedgerError) Error() string {
	msg := fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *LedgerError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *LedgerError) sentinel() error {
	switch e.Kind {
	case KindValidation:
		return apperrors.ErrValidation
	case KindPolicy:
		if e.Reason == ReasonCapabilityMissing {
			return apperrors.ErrForbidden
		}
		return apperrors.ErrPolicy
	case KindState:
		if e.Reason == ReasonEntryNotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	case KindTransient:
		return apperrors.ErrTransient
	default:
		return apperrors.ErrInternal
	}
}

// NewValidationError builds a validation-kind LedgerError.
func NewValidationError(op string, reason ErrorReason, format string, args ...any) *LedgerError {
	return &LedgerError{Op: op, Kind: KindValidation, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NewPolicyError builds a policy-kind LedgerError.
func NewPolicyError(op string, reason ErrorReason, format string, args ...any) *LedgerError {
	return &LedgerError{Op: op, Kind: KindPolicy, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NewStateError builds a state-kind LedgerError.
func NewStateError(op string, reason ErrorReason, format string, args ...any) *LedgerError {
	return &LedgerError{Op: op, Kind: KindState, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NewTransientError wraps a storage failure that survived the retry budget.
func NewTransientError(op string, err error) *LedgerError {
	return &LedgerError{Op: op, Kind: KindTransient, Reason: ReasonStorageUnavailable, Message: "ledger storage unavailable, retry later", Err: err}
}

// AsLedgerError extracts a *LedgerError from err's chain.
func AsLedgerError(err error) (*LedgerError, bool) {
	var le *LedgerError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// ReasonOf returns the reason of a LedgerError in err's chain, or "" if there is none.
func ReasonOf(err error) ErrorReason {
	if le, ok := AsLedgerError(err); ok {
		return le.Reason
	}
	return ""
}
