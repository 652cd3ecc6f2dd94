package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ticketboard/internal/board"
	"github.com/roach88/ticketboard/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]int64{"deleted": 4}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("deleted #4"))
	assert.Equal(t, "✓ deleted #4\n", buf.String())
}

func TestOutputFormatter_Result(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, formatter.Result([]int{1}, "rendered"))
	assert.Equal(t, "rendered\n", buf.String())

	buf.Reset()
	formatter.Format = "json"
	require.NoError(t, formatter.Result([]int{1}, "rendered"))
	assert.JSONEq(t, `{"status":"ok","data":[1]}`, buf.String())
}

func TestOutputFormatter_FailUnknownList(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Fail(ExitFailure, fmt.Errorf("add: %w", board.NewUnknownListError("tod", "todo")))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_LIST", resp.Error.Code)
	assert.Equal(t, "todo", resp.Error.Suggestion)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeInvalid, "title must not be empty", map[string]string{"list": "todo"}))
	assert.Equal(t, "Error [E003]: title must not be empty\n", buf.String())

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error(ErrCodeInvalid, "title must not be empty", map[string]string{"list": "todo"}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "ORDER_MISMATCH", errorCode(&board.Error{Code: board.ErrCodeOrderMismatch}))
	assert.Equal(t, ErrCodeNotFound, errorCode(fmt.Errorf("update: %w", store.ErrNotFound)))
	assert.Equal(t, ErrCodeGeneric, errorCode(errors.New("disk full")))
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag := &bytes.Buffer{}, &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: tt.verbose}

			formatter.VerboseLog("opened %s", "board.db")

			assert.Empty(t, out.String(), "diagnostics never touch the JSON stream")
			if tt.wantLog {
				assert.Contains(t, diag.String(), "opened board.db")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "inner", errors.New("cause")))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "inner: cause", errors.Unwrap(wrapped).Error())
}
