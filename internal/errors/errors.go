// Package errors provides structured error handling with user-friendly messages.
package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors for better user experience.
type ErrorType string

const (
	// Fatal document errors
	DocumentInvalidJSON ErrorType = "document_invalid_json"
	MenuEmpty           ErrorType = "menu_empty"
	MandatoryField      ErrorType = "mandatory_field"
	CyclicReference     ErrorType = "cyclic_reference"

	// Recoverable document errors
	ResourceNotFound ErrorType = "resource_not_found"
	UnknownItemType  ErrorType = "unknown_item_type"

	// Mapping configuration errors
	ConfigNotFound      ErrorType = "config_not_found"
	ConfigInvalid       ErrorType = "config_invalid"
	SystemNotConfigured ErrorType = "system_not_configured"

	// User-facing action errors
	PasswordRejected ErrorType = "password_rejected"
	CommandExecution ErrorType = "command_execution"

	// Validation errors
	ValidationFailed ErrorType = "validation_failed"

	// Internal errors
	InternalError ErrorType = "internal_error"
)

// LauncherError represents a structured error with user-friendly messaging.
type LauncherError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Cause       error     `json:"-"`
}

func (e *LauncherError) Error() string {
	var parts []string

	parts = append(parts, e.Message)

	if e.Details != "" {
		parts = append(parts, fmt.Sprintf("Details: %s", e.Details))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		parts = append(parts, fmt.Sprintf("Suggestions:\n  • %s", strings.Join(e.Suggestions, "\n  • ")))
	}

	return strings.Join(parts, "\n\n")
}

func (e *LauncherError) Unwrap() error {
	return e.Cause
}

// New creates a new LauncherError with the given type and message.
func New(errorType ErrorType, message string) *LauncherError {
	return &LauncherError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap creates a new LauncherError that wraps an existing error.
func Wrap(err error, errorType ErrorType, message string) *LauncherError {
	return &LauncherError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

// WithDetails adds detailed information to an error.
func (e *LauncherError) WithDetails(details string) *LauncherError {
	e.Details = details
	return e
}

// WithSuggestion adds a helpful suggestion to an error.
func (e *LauncherError) WithSuggestion(suggestion string) *LauncherError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple helpful suggestions to an error.
func (e *LauncherError) WithSuggestions(suggestions []string) *LauncherError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently encountered issues

// InvalidJSONError reports a syntax error in a menu document.
func InvalidJSONError(file string, err error) *LauncherError {
	return Wrap(err, DocumentInvalidJSON, fmt.Sprintf("In file %q: invalid JSON", file)).
		WithDetails(err.Error()).
		WithSuggestion("Check the document with a JSON linter")
}

// MenuEmptyError reports a document without a usable "menu" list.
func MenuEmptyError(file string) *LauncherError {
	return New(MenuEmpty, fmt.Sprintf("Parser: %s: launcher menu is empty", file)).
		WithSuggestion(`Add a non-empty "menu" list to the document`)
}

// MandatoryFieldError reports a recognized item that lacks a required field.
func MandatoryFieldError(file, itemType, field string) *LauncherError {
	return New(MandatoryField, fmt.Sprintf("Parser: parameter %q is mandatory in configuration %q", field, itemType)).
		WithDetails(fmt.Sprintf("File: %s", file))
}

// CyclicReferenceError reports a document that references one of its own ancestors.
func CyclicReferenceError(file string, chain []string) *LauncherError {
	return New(CyclicReference, fmt.Sprintf("Parser: %s references one of its ancestors", file)).
		WithDetails(fmt.Sprintf("Open chain: %s", strings.Join(chain, " -> "))).
		WithSuggestion("Remove the submenu entry that points back up the tree")
}

// ResourceNotFoundError reports a resource that could not be opened.
func ResourceNotFoundError(location string, err error) *LauncherError {
	return Wrap(err, ResourceNotFound, fmt.Sprintf("File %q not found", location))
}

// ConfigNotFoundError creates an error for a missing mapping file.
func ConfigNotFoundError(path string) *LauncherError {
	return New(ConfigNotFound, "Mapping file not found").
		WithDetails(fmt.Sprintf("Looking for mapping at: %s", path)).
		WithSuggestions([]string{
			"Pass --mapping with the path of a mapping file",
			"Set LAUNCHER_MAPPING to the mapping file location",
		})
}

// SystemNotConfiguredError reports a mapping without a block for the running system.
func SystemNotConfiguredError(system string) *LauncherError {
	return New(SystemNotConfigured, fmt.Sprintf("Mapping has no configuration for system %q", system)).
		WithSuggestion(fmt.Sprintf("Add a %q block to the mapping file", system))
}

// PasswordRejectedError reports a refused or cancelled password prompt.
func PasswordRejectedError(target string) *LauncherError {
	return New(PasswordRejected, "Wrong password").
		WithDetails(fmt.Sprintf("Access to %q was refused", target))
}

// CommandExecutionError creates an error for commands that cannot be started.
func CommandExecutionError(command string, err error) *LauncherError {
	return Wrap(err, CommandExecution, fmt.Sprintf("Command %q cannot be executed", command)).
		WithSuggestion("Wrong path or bad/no interpreter")
}

// ValidationError creates an error for validation failures.
func ValidationError(field string, value string, reason string) *LauncherError {
	return New(ValidationFailed, fmt.Sprintf("Validation failed for '%s'", field)).
		WithDetails(fmt.Sprintf("Value '%s' is invalid: %s", value, reason))
}

// IsType checks if an error is of a specific LauncherError type.
func IsType(err error, errorType ErrorType) bool {
	if launcherErr, ok := err.(*LauncherError); ok {
		return launcherErr.Type == errorType
	}
	return false
}

// GetType returns the ErrorType of a LauncherError, or InternalError for other errors.
func GetType(err error) ErrorType {
	if launcherErr, ok := err.(*LauncherError); ok {
		return launcherErr.Type
	}
	return InternalError
}

// IsFatal reports whether err must stop the process when it surfaces from parsing.
func IsFatal(err error) bool {
	switch GetType(err) {
	case DocumentInvalidJSON, MenuEmpty, MandatoryField, CyclicReference:
		return true
	}
	return false
}
