package testing

import (
	"os"
	"strings"
	"testing"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
)

// ============================================================================
// Error Assertions
// ============================================================================

// AssertErrorCode checks if an error has a specific error code.
func AssertErrorCode(t testing.TB, err error, expectedCode errors.Code) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error with code %s, got nil", expectedCode)
		return
	}
	if code := errors.GetCode(err); code != expectedCode {
		t.Errorf("expected error code %s, got %s (error: %v)", expectedCode, code, err)
	}
}

// AssertErrorContains checks if an error message contains a substring.
func AssertErrorContains(t testing.TB, err error, substring string) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error containing %q, got nil", substring)
		return
	}
	if !strings.Contains(err.Error(), substring) {
		t.Errorf("expected error containing %q, got %q", substring, err.Error())
	}
}

// AssertNavigationError checks that err reports a wizard landing on the
// wrong step and names both the expected and the observed step.
func AssertNavigationError(t testing.TB, err error, expected, observed string) {
	t.Helper()
	if err == nil {
		t.Errorf("expected navigation error, got nil")
		return
	}
	if !errors.IsCode(err, errors.Navigation) {
		t.Errorf("expected navigation error, got %s (error: %v)", errors.GetCode(err), err)
		return
	}
	msg := err.Error()
	if !strings.Contains(msg, "expected step "+expected) {
		t.Errorf("navigation error %q does not name expected step %s", msg, expected)
	}
	if !strings.Contains(msg, "observed "+observed) {
		t.Errorf("navigation error %q does not name observed step %s", msg, observed)
	}
}

// ============================================================================
// Log Assertions
// ============================================================================

// AssertLogContains checks if any log message contains the substring.
func AssertLogContains(t testing.TB, logger *MockLogger, substring string) {
	t.Helper()
	if !logger.ContainsMessage(substring) {
		var msgs []string
		for _, m := range logger.Messages() {
			msgs = append(msgs, m.Message)
		}
		t.Errorf("expected log containing %q, got: %v", substring, msgs)
	}
}

// AssertLogLevel checks if a message at the specified level contains the substring.
func AssertLogLevel(t testing.TB, logger *MockLogger, level logging.Level, substring string) {
	t.Helper()
	for _, m := range logger.MessagesAtLevel(level) {
		if strings.Contains(m.Message, substring) {
			return
		}
	}
	t.Errorf("expected %s log containing %q", level, substring)
}

// ============================================================================
// File Assertions
// ============================================================================

// AssertFileContains checks if a file contains the substring.
func AssertFileContains(t testing.TB, path, substring string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substring) {
		t.Errorf("expected %s to contain %q", path, substring)
	}
}
