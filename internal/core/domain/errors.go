package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("duplicate")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrPendingVerification = errors.New("account pending verification")
	ErrForbidden           = errors.New("forbidden")
	ErrMirrorDisabled      = errors.New("mirror target not configured")

	// ErrStockSetupIncomplete means the bank account was committed but its
	// default stock rows were not; the dashboard fills them in later.
	ErrStockSetupIncomplete = errors.New("blood bank created without default stock")
)

// StockSetupIncompleteMessage tells the client not to register again.
const StockSetupIncompleteMessage = "Your account was created, but stock setup did not finish. " +
	"Do not register again; the stock table is completed the first time you open the dashboard."

// PendingVerificationMessage is shown to a bank that logs in before an
// administrator has verified it.
const PendingVerificationMessage = "Your account is pending verification. Please wait for admin approval."

// ValidationError reports field-level problems with submitted input.
// Nothing is persisted when one is returned.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil keeps callers from returning a typed nil inside an error interface.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
