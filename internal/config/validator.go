package config

import (
	"regexp"
	"strconv"
	"strings"

	"strfhint/internal/codes"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Config field with issue (e.g., "ignorable[0]")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

// ValidateConfig checks the configuration against a code table and returns
// all findings, including ones Validate does not treat as fatal.
func ValidateConfig(cfg *Config, lookup codes.Lookup) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
		Valid:    true,
	}

	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, ConfigValidationError{
			Message:  err.Error(),
			Severity: SeverityError,
		})
	}

	for _, issue := range ValidateIgnorable(cfg, lookup) {
		if issue.Severity == SeverityError {
			result.Errors = append(result.Errors, issue)
		} else {
			result.Warnings = append(result.Warnings, issue)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateIgnorable warns about ignorable tokens that a field code would
// otherwise recognize, since listing them disables that recognition, and
// about tokens repeated in the list or already ignored by the table.
func ValidateIgnorable(cfg *Config, lookup codes.Lookup) []ConfigValidationError {
	var issues []ConfigValidationError

	builtin := make(map[string]bool)
	for _, t := range lookup.IgnorableTokens() {
		builtin[strings.ToLower(t)] = true
	}

	seen := make(map[string]bool)
	for i, token := range cfg.Ignorable {
		field := formatField("ignorable", i)
		lower := strings.ToLower(strings.TrimSpace(token))

		switch {
		case seen[lower]:
			issues = append(issues, ConfigValidationError{
				Field:    field,
				Message:  "duplicate ignorable token: " + token,
				Severity: SeverityWarning,
			})
			continue
		case builtin[lower]:
			issues = append(issues, ConfigValidationError{
				Field:    field,
				Message:  "token is already ignored by the code table: " + token,
				Severity: SeverityWarning,
			})
		}
		seen[lower] = true

		if code, ok := shadowedCode(lookup, lower); ok {
			issues = append(issues, ConfigValidationError{
				Field:    field,
				Message:  "token " + token + " would otherwise be recognized as " + code,
				Severity: SeverityWarning,
			})
		}
	}

	return issues
}

// shadowedCode returns the first code whose word-bordered regex matches
// the whole token.
func shadowedCode(lookup codes.Lookup, token string) (string, bool) {
	for _, code := range lookup.Codes() {
		pattern, ok := lookup.RegexOf(code, codes.WordBordered)
		if !ok {
			continue
		}
		re, err := regexp.Compile("^" + pattern + "$")
		if err != nil {
			continue
		}
		if re.MatchString(token) {
			return code, true
		}
	}
	return "", false
}

// formatField creates a field reference string for validation errors.
func formatField(name string, index int) string {
	return name + "[" + strconv.Itoa(index) + "]"
}
