package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment stops a suite that was started outside GO_ENV=test,
// so a misconfigured run never touches a shared laundry database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()
	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: GO_ENV must be \"test\", got %q", env)
	}
}
