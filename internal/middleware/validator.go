package middleware

import (
	"fmt"
	"strings"
)

// Request-level validation and sanitization utilities

// ValidateDecision checks the decision value before it reaches the workflow
func ValidateDecision(decision string) error {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case "approve", "reject":
		return nil
	}
	return fmt.Errorf("invalid decision: %q (allowed: approve, reject)", decision)
}

// ValidateStatusFilter checks an optional status query parameter
func ValidateStatusFilter(status string) error {
	switch status {
	case "", "pending_review", "approved", "rejected":
		return nil
	}
	return fmt.Errorf("invalid status filter: %q (allowed: pending_review, approved, rejected)", status)
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
