package errors_test

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qwinci/hzlauncher/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "network",
			code:    errors.ErrNetwork,
			message: "connection refused",
			wantStr: "[NETWORK] connection refused",
		},
		{
			name:    "parse",
			code:    errors.ErrParse,
			message: "missing mainClass",
			wantStr: "[PARSE] missing mainClass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrFilesystem, "ignored"))

	err := errors.Wrapf(fs.ErrPermission, errors.ErrFilesystem, "write %s", "data/versions.json")
	require.Error(t, err)
	assert.Equal(t, "[FILESYSTEM] write data/versions.json: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, fs.ErrPermission))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))
	assert.False(t, errors.IsErrorCode(err, errors.ErrNetwork))
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.Wrap(stderrors.New("boom"), errors.ErrNetwork, "fetch")
	assert.True(t, stderrors.Is(err, errors.New(errors.ErrNetwork, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrParse, "fetch")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrLaunch, errors.GetErrorCode(errors.New(errors.ErrLaunch, "java")))
}
