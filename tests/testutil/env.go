package testutil

import (
	"os"
	"testing"

	"github.com/nhle/docket/internal/config"
)

// IsolateConfig points the user config dir at a temp dir, runs the test
// from an empty working directory and clears DOCKET_* variables. It returns
// the temporary config home.
func IsolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Chdir(t.TempDir())
	for _, key := range []string{"DB_PATH", "PORT", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "CORS_ORIGINS"} {
		Unsetenv(t, config.EnvPrefix+"_"+key)
	}
	return home
}

// Unsetenv removes key for the duration of the test, restoring it after.
func Unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}
