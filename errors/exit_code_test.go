package errors

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"generic error", errors.New("boom"), ExitCodeGeneric},
		{"explicit exit code", WithExitCode(errors.New("boom"), 42), 42},
		{"unmanaged conflict", errors.Wrap(ErrUnmanagedRegionConflict, "team/dev"), ExitCodeConflict},
		{"joined conflict", errors.Join(errors.New("other"), errors.Wrap(ErrUnmanagedRegionConflict, "x")), ExitCodeConflict},
		{"missing option", errors.Wrap(ErrMissingOption, "data_dir"), ExitCodeUsage},
		{"config load", errors.Wrap(ErrLoadConfig, "monarch.yaml"), ExitCodeUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetExitCode(tt.err))
		})
	}
}

func TestWithExitCode_Nil(t *testing.T) {
	assert.Nil(t, WithExitCode(nil, 3))
}

func TestWithExitCode_Unwrap(t *testing.T) {
	err := WithExitCode(ErrTargetNotFound, 4)
	assert.ErrorIs(t, err, ErrTargetNotFound)
	assert.Equal(t, ErrTargetNotFound.Error(), err.Error())
}
