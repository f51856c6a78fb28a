// Package types provides core data structures for the launcher with validation support.
package types

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches {name} markers in a command template.
var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// CommandType is a configured command item type: a shell command template
// whose {placeholder} markers are filled from same-named item fields.
type CommandType struct {
	Name     string            `json:"-" yaml:"-" toml:"-"`
	Command  string            `json:"command" yaml:"command" toml:"command"`
	ArgFlags map[string]string `json:"arg_flags,omitempty" yaml:"arg_flags,omitempty" toml:"arg_flags,omitempty"`
}

// Placeholders returns the placeholder names of the template in order of
// first appearance.
func (c CommandType) Placeholders() []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(c.Command, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Expand resolves the template. A supplied value is prefixed with its
// configured flag and a space; a placeholder without a value becomes empty.
func (c CommandType) Expand(values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(c.Command, func(marker string) string {
		name := marker[1 : len(marker)-1]
		value := values[name]
		if value == "" {
			return ""
		}
		if flag := c.ArgFlags[name]; flag != "" {
			return flag + " " + value
		}
		return value
	})
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%s': %s", e.Field, e.Value, e.Message)
}

// Validate performs validation on a CommandType.
func (c *CommandType) Validate() error {
	var errors []ValidationError

	if strings.TrimSpace(c.Command) == "" {
		errors = append(errors, ValidationError{
			Field:   "command",
			Value:   c.Command,
			Message: "command template is required and cannot be empty",
		})
	}

	placeholders := make(map[string]bool)
	for _, name := range c.Placeholders() {
		placeholders[name] = true
	}
	for name := range c.ArgFlags {
		if !placeholders[name] {
			errors = append(errors, ValidationError{
				Field:   "arg_flags." + name,
				Value:   c.ArgFlags[name],
				Message: fmt.Sprintf("flag for unknown placeholder {%s}", name),
			})
		}
	}

	if len(errors) > 0 {
		return &ValidationErrors{Errors: errors}
	}

	return nil
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}
