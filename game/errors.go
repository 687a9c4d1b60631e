package game

import (
	"errors"
	"fmt"
)

// Kind separates rejected intents from broken engine assumptions.
type Kind int

const (
	// KindValidation is an intent rejected by the rules; state is unchanged.
	KindValidation Kind = iota
	// KindInvariant is an internal assumption that failed (dangling template
	// reference, illegal phase transition, recovered panic).
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvariant:
		return "invariant_violation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Code is a machine-readable error code.
type Code string

const (
	CodeWrongPhase         Code = "WRONG_PHASE"
	CodeNotYourTurn        Code = "NOT_YOUR_TURN"
	CodeUnknownPlayer      Code = "UNKNOWN_PLAYER"
	CodeUnitNotFound       Code = "UNIT_NOT_FOUND"
	CodeUnitDead           Code = "UNIT_DEAD"
	CodeUnitNotDeployed    Code = "UNIT_NOT_DEPLOYED"
	CodeUnitNotInReserve   Code = "UNIT_NOT_IN_RESERVE"
	CodeAlreadyActivated   Code = "UNIT_ALREADY_ACTIVATED"
	CodeNoActivations      Code = "NO_ACTIVATIONS_REMAINING"
	CodeUnknownTemplate    Code = "UNKNOWN_TEMPLATE"
	CodeOverPointLimit     Code = "OVER_POINT_LIMIT"
	CodeEmptyArmy          Code = "EMPTY_ARMY"
	CodeOffBoard           Code = "POSITION_OFF_BOARD"
	CodeOutsideZone        Code = "POSITION_OUTSIDE_DEPLOYMENT_ZONE"
	CodeOccupied           Code = "POSITION_OCCUPIED"
	CodeDeploymentLimit    Code = "DEPLOYMENT_LIMIT_REACHED"
	CodeOutOfRange         Code = "OUT_OF_RANGE"
	CodeInvalidTarget      Code = "INVALID_TARGET"
	CodeNoLineOfSight      Code = "NO_LINE_OF_SIGHT"
	CodeUnknownCard        Code = "UNKNOWN_CARD"
	CodeCardNotInHand      Code = "CARD_NOT_IN_HAND"
	CodeTooManyCards       Code = "TOO_MANY_CARDS"
	CodeInsufficientCP     Code = "INSUFFICIENT_CP"
	CodeUnknownAction      Code = "UNKNOWN_ACTION"
	CodeMatchOver          Code = "MATCH_OVER"
	CodeDanglingTemplate   Code = "DANGLING_TEMPLATE"
	CodeIllegalTransition  Code = "ILLEGAL_PHASE_TRANSITION"
	CodeRecoveredPanic     Code = "RECOVERED_PANIC"
	CodeInconsistentRoster Code = "INCONSISTENT_ROSTER"
)

// Error is the engine's structured error.
type Error struct {
	Kind     Kind
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message, safe to show players
	Metadata map[string]string // Offending ids, positions, values
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func validation(code Code, metadata map[string]string, format string, args ...any) *Error {
	return &Error{
		Kind:     KindValidation,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Metadata: metadata,
	}
}

func invariant(code Code, metadata map[string]string, format string, args ...any) *Error {
	return &Error{
		Kind:     KindInvariant,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Metadata: metadata,
	}
}

// Invariant wraps cause as an invariant violation. Orchestration layers use
// it for recovered panics.
func Invariant(code Code, message string, cause error) *Error {
	return &Error{Kind: KindInvariant, Code: code, Message: message, Cause: cause}
}

// IsValidation reports whether err carries a rejected intent.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

// IsInvariant reports whether err carries an invariant violation.
func IsInvariant(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInvariant
}

// ErrorCode extracts the code from err, or "" if err is not an *Error.
func ErrorCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func meta(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
