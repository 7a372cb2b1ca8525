package services

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run outside GO_ENV=test
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "SAFETY CHECK FAILED: tests must run with GO_ENV=test (current: %q)\n", env)
		os.Exit(1)
	}
	os.Exit(m.Run())
}
