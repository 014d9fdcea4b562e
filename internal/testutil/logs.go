package testutil

import (
	"path/filepath"
	"testing"

	"github.com/atomicstack/pijul-channel-picker/internal/logging"
)

// QuietLogs points the shared log at a per-test file and restores the default
// when the test ends. It returns the log path.
func QuietLogs(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	logging.Configure(path)
	t.Cleanup(func() {
		logging.SetTraceEnabled(false)
		logging.Configure("")
	})
	return path
}
