package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDecision(t *testing.T) {
	assert.NoError(t, ValidateDecision("approve"))
	assert.NoError(t, ValidateDecision("reject"))
	assert.NoError(t, ValidateDecision("  Approve "))

	assert.Error(t, ValidateDecision(""))
	assert.Error(t, ValidateDecision("escalate"))
	assert.Error(t, ValidateDecision("approved"))
}

func TestValidateStatusFilter(t *testing.T) {
	assert.NoError(t, ValidateStatusFilter(""))
	assert.NoError(t, ValidateStatusFilter("pending_review"))
	assert.NoError(t, ValidateStatusFilter("approved"))
	assert.NoError(t, ValidateStatusFilter("rejected"))

	assert.Error(t, ValidateStatusFilter("pending"))
	assert.Error(t, ValidateStatusFilter("Approved"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "clean notes", SanitizeString("clean notes"))
	assert.Equal(t, "stripped", SanitizeString("strip\x00ped"))
	assert.Equal(t, "no control chars", SanitizeString("no\x01 control\x02 chars"))
	assert.Equal(t, "trimmed", SanitizeString("  trimmed  "))
	assert.Equal(t, "line\nbreaks kept", SanitizeString("line\nbreaks kept"))
}
