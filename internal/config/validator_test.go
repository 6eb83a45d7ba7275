package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strfhint/internal/codes"
)

func TestValidateIgnorable(t *testing.T) {
	cfg := Default()
	cfg.Ignorable = []string{"mar", "cw", "MAR", "foo", "2023"}

	issues := ValidateIgnorable(cfg, codes.Default())

	require.Len(t, issues, 4)
	assert.Equal(t, "ignorable[0]", issues[0].Field)
	assert.Contains(t, issues[0].Message, "%b")
	assert.Equal(t, "ignorable[1]", issues[1].Field)
	assert.Contains(t, issues[1].Message, "already ignored")
	assert.Equal(t, "ignorable[2]", issues[2].Field)
	assert.Contains(t, issues[2].Message, "duplicate")
	assert.Equal(t, "ignorable[4]", issues[3].Field)
	assert.Contains(t, issues[3].Message, "%Y")

	for _, issue := range issues {
		assert.Equal(t, SeverityWarning, issue.Severity)
	}
}

func TestValidateIgnorableClean(t *testing.T) {
	cfg := Default()
	cfg.Ignorable = []string{"today", "at"}

	assert.Empty(t, ValidateIgnorable(cfg, codes.Default()))
}

func TestValidateConfig(t *testing.T) {
	t.Run("warnings keep the config valid", func(t *testing.T) {
		cfg := Default()
		cfg.Ignorable = []string{"sun"}

		result := ValidateConfig(cfg, codes.Default())

		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0].Message, "%a")
	})

	t.Run("validation errors are reported", func(t *testing.T) {
		cfg := Default()
		cfg.Workers = 0

		result := ValidateConfig(cfg, codes.Default())

		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, SeverityError, result.Errors[0].Severity)
		assert.Contains(t, result.Errors[0].Message, "workers")
	})
}
