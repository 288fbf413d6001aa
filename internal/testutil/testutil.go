// Package testutil provides shared test helpers for TaskHub.
//
// All helpers accept [testing.TB] for compatibility with both tests and
// benchmarks, and call t.Helper() so failures report the caller's file
// and line.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// RequireErrorCode halts the test if err is nil, is not a
// *taskerr.Error, or does not carry the expected error code.
//
// Example:
//
//	_, err := svc.Get(ctx, identity, "user-b", id)
//	testutil.RequireErrorCode(t, err, taskerr.CodeAuthorizationOwnership)
func RequireErrorCode(t testing.TB, err error, code taskerr.Code, msgAndArgs ...any) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	taskErr, ok := taskerr.AsError(err)
	require.True(t, ok, "expected *taskerr.Error, got %T: %v", err, err)
	require.Equal(t, code, taskErr.Code,
		"error code mismatch: got %q, want %q (message: %s)",
		taskErr.Code, code, taskErr.Message)
}

// AssertErrorCode records a failure (without halting) if err is nil, is
// not a *taskerr.Error, or does not carry the expected error code. Use
// this in table-driven tests where every row should be checked.
func AssertErrorCode(t testing.TB, err error, code taskerr.Code, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Error(t, err, msgAndArgs...) {
		return false
	}
	taskErr, ok := taskerr.AsError(err)
	if !assert.True(t, ok, "expected *taskerr.Error, got %T: %v", err, err) {
		return false
	}
	return assert.Equal(t, code, taskErr.Code,
		"error code mismatch: got %q, want %q (message: %s)",
		taskErr.Code, code, taskErr.Message)
}

// TempConfigFile creates a temporary file with the given content and
// extension (e.g., ".yaml", ".json") inside t.TempDir(). The file is
// cleaned up when the test finishes.
func TempConfigFile(t testing.TB, content, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config"+ext)
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err, "failed to write temp config file %s", path)
	return path
}

// SetEnv sets an environment variable and registers a cleanup that
// restores the original value (or unsets it) when the test completes.
//
// Safe for parallel tests only when each test uses unique variables.
func SetEnv(t testing.TB, key, value string) {
	t.Helper()
	prev, existed := os.LookupEnv(key)
	err := os.Setenv(key, value)
	require.NoError(t, err, "failed to set env var %s", key)
	t.Cleanup(func() {
		if existed {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

// AssertJSONNotContains marshals v to JSON and asserts that the result
// does not contain the given substring. Used to verify that secrets are
// redacted from serialized output.
func AssertJSONNotContains(t testing.TB, v any, unexpected string) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "json.Marshal failed")
	assert.NotContains(t, string(data), unexpected,
		"expected JSON to NOT contain %q, got: %s", unexpected, string(data))
}
